// Command pledgectl is a local, offline command-line tool for building
// and inspecting the wire messages this module defines: project
// descriptors, pledges, and owner signatures. It never talks to a chain
// or network; verifying a pledge against a live UTXO oracle is a task
// for the library embedded in a wallet, not this tool.
package main

import (
	"fmt"
	"os"

	"github.com/pledgeforge/contractcore/config"
	"github.com/urfave/cli"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "pledgectl: %v\n", err)
	os.Exit(1)
}

func main() {
	// Persistent options (network, data directory, log level) are
	// parsed separately from the subcommand's own flags: go-flags reads
	// them off the front of the argument list and leaves the rest for
	// urfave/cli to parse as a subcommand invocation.
	cfg, rest, err := config.Load(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if _, err := cfg.ResolveNetwork(); err != nil {
		fatal(err)
	}

	app := cli.NewApp()
	app.Name = "pledgectl"
	app.Usage = "build and inspect pledgeforge project, pledge, and owner-auth messages"
	app.Version = "0.1.0"

	app.Commands = []cli.Command{
		projectCreateCommand,
		projectInspectCommand,
		pledgeInspectCommand,
		ownerSignCommand,
		ownerVerifyCommand,
	}

	args := append([]string{os.Args[0]}, rest...)
	if err := app.Run(args); err != nil {
		fatal(err)
	}
}

// actionDecorator wraps a cli action so it always returns an error cli
// itself can print with app's ExitErrHandler, mirroring the teacher
// CLI's decorator of the same name.
func actionDecorator(f func(*cli.Context) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		if err := f(c); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}
}
