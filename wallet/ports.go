// Package wallet implements the pledging wallet core: it tracks pledged
// stubs, constructs and commits pledges, revokes them, and detects
// claims observed on chain.
package wallet

import (
	"context"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/pledgeforge/contractcore/txmodel"
)

// KeyProvider supplies the wallet with fresh addresses and keys, and
// resolves previously-issued public keys back to their private key —
// the single external collaborator for everything key-related (spec.md
// §6). A hardware wallet or encrypted keystore implements this.
type KeyProvider interface {
	// FreshReceiveAddress returns a new address together with the public
	// key backing it, so a caller can later resolve its private key with
	// FindKeyByPubKey without the provider having to index by address.
	FreshReceiveAddress() (stdaddr.Address, *secp256k1.PublicKey, error)
	FreshAuthKey() (*secp256k1.PublicKey, uint32, error)
	FindKeyByPubKey(pubKey []byte) (*secp256k1.PrivateKey, bool, error)
	DecryptKey(encrypted []byte, passphrase []byte) (*secp256k1.PrivateKey, error)
}

// Broadcaster submits a finished transaction to the network. Completion
// implies P2P acceptance, not confirmation.
type Broadcaster interface {
	Broadcast(ctx context.Context, tx *txmodel.Transaction) error
}

// Clock supplies the wallet's notion of the current time, so tests can
// control it.
type Clock interface {
	Now() int64
}

// SpendableOutput is one candidate input coin selection can draw from:
// an outpoint, its output, and the private key that spends it.
type SpendableOutput struct {
	OutPoint txmodel.OutPoint
	Output   txmodel.Output
	Key      *secp256k1.PrivateKey
}

// CoinSource lists the wallet's currently spendable outputs. A real
// implementation backs this with an on-disk UTXO index; tests use an
// in-memory stand-in.
type CoinSource interface {
	SpendableOutputs() ([]SpendableOutput, error)
}
