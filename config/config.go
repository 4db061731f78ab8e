// Package config parses pledgectl's persistent configuration: the
// network to operate against, where wallet state lives on disk, and
// logging verbosity. Command-specific flags (project title, pledge
// amount, and so on) stay on each cli.Command; this package only
// covers the options a long-running wallet process needs before any
// subcommand runs.
package config

import (
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/pledgeforge/contractcore/chainparams"
)

// DefaultConfigFilename is the conventional config file name in the data
// directory. Nothing in this package reads it: Load parses only the
// command line.
const DefaultConfigFilename = "pledgectl.conf"

// Config holds every persistent option pledgectl accepts before
// dispatching to a subcommand.
type Config struct {
	Network    string `short:"n" long:"network" description:"network to operate against" choice:"mainnet" choice:"testnet" choice:"simnet" default:"mainnet"`
	DataDir    string `long:"datadir" description:"directory holding wallet state and logs" default:"~/.pledgectl"`
	DebugLevel string `long:"debuglevel" description:"logging level: trace, debug, info, warn, error, critical" default:"info"`
	ConfigFile string `long:"configfile" description:"path to a config file (recorded only; the file is not read)"`
}

// Default returns a Config populated with the same defaults go-flags
// would apply to an empty command line.
func Default() *Config {
	return &Config{
		Network:    "mainnet",
		DataDir:    "~/.pledgectl",
		DebugLevel: "info",
	}
}

// Load parses args (normally os.Args[1:]) against a fresh Config,
// falling back to the defaults above for anything unset. It does not
// error on unconsumed subcommand arguments — flags.IgnoreUnknown lets
// pledgectl's urfave/cli layer parse its own subcommand flags
// afterward from the same argument list.
func Load(args []string) (*Config, []string, error) {
	cfg := Default()
	parser := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

// ResolveNetwork validates the configured network name against the
// known chain parameters, returning it unchanged if valid.
func (c *Config) ResolveNetwork() (chainparams.Network, error) {
	net := chainparams.Network(c.Network)
	if _, err := chainparams.Params(net); err != nil {
		return "", err
	}
	return net, nil
}

// ExpandDataDir replaces a leading "~" with the user's home directory,
// the way a shell would, since go-flags performs no such expansion.
func (c *Config) ExpandDataDir() string {
	if len(c.DataDir) > 0 && c.DataDir[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return home + c.DataDir[1:]
		}
	}
	return c.DataDir
}
