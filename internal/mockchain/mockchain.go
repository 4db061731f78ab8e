// Package mockchain provides in-memory test doubles for the ports this
// module consumes (UTXO oracle, broadcaster, clock, key provider, coin
// source), so unit tests can exercise pledge verification and wallet
// operations without a real chain or network.
package mockchain

import (
	"context"
	"fmt"
	"sync"

	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/pledgeforge/contractcore/txmodel"
	"github.com/pledgeforge/contractcore/wallet"
)

// Oracle is an in-memory UTXOOracle backed by a simple map. Outpoints not
// present in the map resolve to "unknown", matching the real oracle's
// sentinel for spent/non-existent/fork-only outputs.
type Oracle struct {
	mu  sync.Mutex
	set map[txmodel.OutPoint]txmodel.Output
}

// NewOracle returns an empty oracle.
func NewOracle() *Oracle {
	return &Oracle{set: make(map[txmodel.OutPoint]txmodel.Output)}
}

// Add registers op as spendable with the given output.
func (o *Oracle) Add(op txmodel.OutPoint, out txmodel.Output) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.set[op] = out
}

// Remove marks op as spent (or never having existed).
func (o *Oracle) Remove(op txmodel.OutPoint) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.set, op)
}

// ResolveOutputs implements pledge.UTXOOracle.
func (o *Oracle) ResolveOutputs(_ context.Context, outpoints []txmodel.OutPoint) ([]*txmodel.Output, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]*txmodel.Output, len(outpoints))
	for i, op := range outpoints {
		if out, ok := o.set[op]; ok {
			outCopy := out
			result[i] = &outCopy
		}
	}
	return result, nil
}

// Broadcaster records every transaction handed to it; Fail, if set,
// makes every Broadcast call return that error instead.
type Broadcaster struct {
	mu   sync.Mutex
	sent []*txmodel.Transaction
	Fail error
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Broadcast implements wallet.Broadcaster.
func (b *Broadcaster) Broadcast(_ context.Context, tx *txmodel.Transaction) error {
	if b.Fail != nil {
		return b.Fail
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

// Sent returns every transaction broadcast so far.
func (b *Broadcaster) Sent() []*txmodel.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*txmodel.Transaction(nil), b.sent...)
}

// Clock is a settable fake clock.
type Clock struct {
	mu  sync.Mutex
	now int64
}

// NewClock returns a clock fixed at t.
func NewClock(t int64) *Clock {
	return &Clock{now: t}
}

// Now implements wallet.Clock.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// KeyRing is an in-memory KeyProvider: every address it issues is
// immediately resolvable by FindKeyByPubKey.
type KeyRing struct {
	mu      sync.Mutex
	params  *chaincfg.Params
	byPub   map[string]*secp256k1.PrivateKey
	nextIdx uint32
}

// NewKeyRing returns a key ring that derives pay-to-pubkey-hash
// addresses for the given network parameters.
func NewKeyRing(params *chaincfg.Params) *KeyRing {
	return &KeyRing{params: params, byPub: make(map[string]*secp256k1.PrivateKey)}
}

// FreshReceiveAddress implements wallet.KeyProvider.
func (k *KeyRing) FreshReceiveAddress() (stdaddr.Address, *secp256k1.PublicKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, err
	}
	pub := priv.PubKey()

	k.mu.Lock()
	k.byPub[string(pub.SerializeCompressed())] = priv
	k.mu.Unlock()

	pubKeyAddr, err := stdaddr.NewAddressPubKeyEcdsaSecp256k1V0Raw(pub.SerializeCompressed(), k.params)
	if err != nil {
		return nil, nil, err
	}
	return pubKeyAddr.AddressPubKeyHash(), pub, nil
}

// FreshAuthKey implements wallet.KeyProvider.
func (k *KeyRing) FreshAuthKey() (*secp256k1.PublicKey, uint32, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, 0, err
	}
	pub := priv.PubKey()

	k.mu.Lock()
	k.byPub[string(pub.SerializeCompressed())] = priv
	idx := k.nextIdx
	k.nextIdx++
	k.mu.Unlock()

	return pub, idx, nil
}

// FindKeyByPubKey implements wallet.KeyProvider.
func (k *KeyRing) FindKeyByPubKey(pubKey []byte) (*secp256k1.PrivateKey, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	priv, ok := k.byPub[string(pubKey)]
	return priv, ok, nil
}

// DecryptKey implements wallet.KeyProvider; this test double holds
// everything unencrypted, so it just requires a matching well-known
// passphrase.
func (k *KeyRing) DecryptKey(encrypted []byte, passphrase []byte) (*secp256k1.PrivateKey, error) {
	if string(passphrase) != "test" {
		return nil, fmt.Errorf("mockchain: wrong passphrase")
	}
	priv := secp256k1.PrivKeyFromBytes(encrypted)
	return priv, nil
}

// Coins is an in-memory CoinSource.
type Coins struct {
	mu      sync.Mutex
	outputs []coinEntry
}

type coinEntry struct {
	outPoint txmodel.OutPoint
	output   txmodel.Output
	key      *secp256k1.PrivateKey
}

// NewCoins returns an empty coin source.
func NewCoins() *Coins {
	return &Coins{}
}

// Add registers a spendable output with the key that spends it.
func (c *Coins) Add(op txmodel.OutPoint, out txmodel.Output, key *secp256k1.PrivateKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = append(c.outputs, coinEntry{outPoint: op, output: out, key: key})
}

// SpendableOutputs implements wallet.CoinSource.
func (c *Coins) SpendableOutputs() ([]wallet.SpendableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]wallet.SpendableOutput, len(c.outputs))
	for i, e := range c.outputs {
		out[i] = wallet.SpendableOutput{OutPoint: e.outPoint, Output: e.output, Key: e.key}
	}
	return out, nil
}
