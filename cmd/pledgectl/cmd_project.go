package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pledgeforge/contractcore/chainparams"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/valuescript"
	"github.com/urfave/cli"
)

var projectCreateCommand = cli.Command{
	Name:      "project-create",
	Category:  "Project",
	Usage:     "Build a new project descriptor.",
	ArgsUsage: "",
	Action:    actionDecorator(projectCreate),
	Flags: []cli.Flag{
		cli.StringFlag{Name: "title", Usage: "project title"},
		cli.StringFlag{Name: "memo", Usage: "backer-facing description"},
		cli.StringFlag{Name: "dest", Usage: "destination address for the funding goal"},
		cli.Int64Flag{Name: "goal", Usage: "funding goal in atoms"},
		cli.StringFlag{Name: "auth-pubkey", Usage: "hex-encoded compressed auth public key"},
		cli.UintFlag{Name: "auth-key-index", Usage: "keychain lookahead index backing auth-pubkey"},
		cli.StringFlag{Name: "network", Value: "mainnet", Usage: "mainnet, testnet, or simnet"},
		cli.StringFlag{Name: "out", Usage: "write the marshaled descriptor (hex) to this file instead of stdout"},
	},
}

func projectCreate(c *cli.Context) error {
	title := c.String("title")
	if title == "" {
		return fmt.Errorf("--title is required")
	}
	destStr := c.String("dest")
	if destStr == "" {
		return fmt.Errorf("--dest is required")
	}
	authPubHex := c.String("auth-pubkey")
	if authPubHex == "" {
		return fmt.Errorf("--auth-pubkey is required")
	}

	params, err := chainparams.Params(chainparams.Network(c.String("network")))
	if err != nil {
		return err
	}

	destAddr, err := stdaddr.DecodeAddress(destStr, params)
	if err != nil {
		return fmt.Errorf("decoding --dest: %w", err)
	}

	authPubRaw, err := hex.DecodeString(authPubHex)
	if err != nil {
		return fmt.Errorf("decoding --auth-pubkey: %w", err)
	}
	authPub, err := secp256k1.ParsePubKey(authPubRaw)
	if err != nil {
		return fmt.Errorf("parsing --auth-pubkey: %w", err)
	}

	goal, err := valuescript.NewAmount(c.Int64("goal"))
	if err != nil {
		return fmt.Errorf("--goal: %w", err)
	}

	desc, err := project.New(title, c.String("memo"), destAddr, goal, authPub,
		uint32(c.Uint("auth-key-index")), time.Now().Unix())
	if err != nil {
		return err
	}

	raw, err := desc.Marshal()
	if err != nil {
		return err
	}
	out := hex.EncodeToString(raw)

	if path := c.String("out"); path != "" {
		return ioutil.WriteFile(path, []byte(out+"\n"), 0o644)
	}
	fmt.Println(out)
	return nil
}

var projectInspectCommand = cli.Command{
	Name:      "project-inspect",
	Category:  "Project",
	Usage:     "Print a project descriptor's fields.",
	ArgsUsage: "<hex-file>",
	Action:    actionDecorator(projectInspect),
}

func projectInspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "project-inspect")
	}

	raw, err := readHexFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	desc, err := project.Unmarshal(raw)
	if err != nil {
		return fmt.Errorf("parsing descriptor: %w", err)
	}

	id, err := desc.ID()
	if err != nil {
		return err
	}
	goal, err := desc.Goal()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"field", "value"})
	t.AppendRows([]table.Row{
		{"project-id", id},
		{"title", desc.Title()},
		{"slug", desc.Slug()},
		{"memo", desc.Memo()},
		{"goal", goal.String()},
		{"outputs", len(desc.Outputs())},
		{"time", desc.Time()},
	})
	if url := desc.PaymentURL(); url != "" {
		t.AppendRow(table.Row{"payment-url", url})
	}
	fmt.Println(t.Render())
	return nil
}

func readHexFile(path string) ([]byte, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	raw, err := hex.DecodeString(trimNewline(string(contents)))
	if err != nil {
		return nil, fmt.Errorf("decoding hex in %s: %w", path, err)
	}
	return raw, nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}
