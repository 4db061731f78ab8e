package main

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/pledgeforge/contractcore/ownerauth"
	"github.com/urfave/cli"
)

var ownerSignCommand = cli.Command{
	Name:      "owner-sign",
	Category:  "Owner auth",
	Usage:     "Produce a detached signature of a message using the project's auth key.",
	ArgsUsage: "<hex-privkey> <message>",
	Action:    actionDecorator(ownerSign),
}

func ownerSign(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "owner-sign")
	}

	keyRaw, err := hex.DecodeString(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("decoding private key: %w", err)
	}
	key := secp256k1.PrivKeyFromBytes(keyRaw)

	sig, err := ownerauth.SignAsOwner([]byte(c.Args().Get(1)), key)
	if err != nil {
		return err
	}
	fmt.Println(sig)
	return nil
}

var ownerVerifyCommand = cli.Command{
	Name:      "owner-verify",
	Category:  "Owner auth",
	Usage:     "Verify a detached signature against the project's declared auth key.",
	ArgsUsage: "<hex-pubkey> <hex-signature> <message>",
	Action:    actionDecorator(ownerVerify),
}

func ownerVerify(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.ShowCommandHelp(c, "owner-verify")
	}

	pubRaw, err := hex.DecodeString(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("decoding public key: %w", err)
	}
	pub, err := secp256k1.ParsePubKey(pubRaw)
	if err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}

	if err := ownerauth.AuthenticateOwner([]byte(c.Args().Get(2)), c.Args().Get(1), pub); err != nil {
		return err
	}
	fmt.Println("signature verifies")
	return nil
}
