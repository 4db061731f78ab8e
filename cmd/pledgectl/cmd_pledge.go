package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pledgeforge/contractcore/pledge"
	"github.com/urfave/cli"
)

var pledgeInspectCommand = cli.Command{
	Name:      "pledge-inspect",
	Category:  "Pledge",
	Usage:     "Print a pledge message's fields, without verifying it against a chain.",
	ArgsUsage: "<hex-file>",
	Action:    actionDecorator(pledgeInspect),
}

func pledgeInspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "pledge-inspect")
	}

	raw, err := readHexFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	msg, err := pledge.UnmarshalMessage(raw)
	if err != nil {
		return fmt.Errorf("parsing pledge: %w", err)
	}

	tx, err := msg.PledgeTx()
	if err != nil {
		return fmt.Errorf("parsing pledge transaction: %w", err)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"field", "value"})
	t.AppendRows([]table.Row{
		{"project-id", msg.ProjectID},
		{"timestamp", msg.Timestamp},
		{"total-input-value", msg.TotalInputValue},
		{"transactions", len(msg.Transactions)},
		{"pledge-tx-hash", tx.Hash()},
		{"pledge-tx-inputs", len(tx.Inputs())},
		{"pledge-tx-outputs", len(tx.Outputs())},
	})
	if msg.Contact != nil {
		t.AppendRow(table.Row{"contact-email", msg.Contact.Email})
		t.AppendRow(table.Row{"contact-name", msg.Contact.Name})
	}
	fmt.Println(t.Render())
	return nil
}
