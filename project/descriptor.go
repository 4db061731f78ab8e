// Package project holds the project descriptor: the crowdfunding
// campaign's required outputs, metadata, and authentication key, plus its
// canonical serialization and identity hash.
package project

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/pledgeforge/contractcore/txmodel"
	"github.com/pledgeforge/contractcore/valuescript"
)

// Descriptor is the canonical description of a crowdfunding project: its
// required outputs (summing to the funding goal), the metadata a wallet
// shows a backer, and the key its owner will use to prove control of the
// project later. Title, memo, outputs, auth key and time are fixed at
// construction; the optional payment URL, merchant data, expiry and
// extra metadata are changed in place by their setters, which also
// changes Marshal's output and therefore ID. The setters take no lock.
type Descriptor struct {
	title        string
	memo         string
	outputs      []txmodel.Output
	authKey      []byte // serialized compressed secp256k1 public key
	authKeyIndex uint32
	time         int64
	paymentURL   string
	merchantData []byte
	expires      int64
	extra        map[string]string
}

// New builds a descriptor with a single required output paying goal to
// destAddr, per spec.md §4.D's default builder. The format supports
// multiple outputs (see NewMultiOutput) but this constructor is the one
// every wallet uses day to day.
func New(title, memo string, destAddr stdaddr.Address, goal valuescript.Amount,
	authKey *secp256k1.PublicKey, authKeyIndex uint32, now int64) (*Descriptor, error) {

	version, script := destAddr.PaymentScript()
	out := txmodel.Output{
		Amount:  goal.ToAtoms(),
		Script:  script,
		Version: version,
	}
	return NewMultiOutput(title, memo, []txmodel.Output{out}, authKey, authKeyIndex, now)
}

// NewMultiOutput builds a descriptor with an arbitrary, pre-built set of
// required outputs. Used by a project with more than one payee.
func NewMultiOutput(title, memo string, outputs []txmodel.Output,
	authKey *secp256k1.PublicKey, authKeyIndex uint32, now int64) (*Descriptor, error) {

	if len(outputs) == 0 {
		return nil, fmt.Errorf("project must declare at least one output")
	}
	if authKey == nil {
		return nil, fmt.Errorf("project requires an authentication public key")
	}

	return &Descriptor{
		title:        title,
		memo:         memo,
		outputs:      append([]txmodel.Output(nil), outputs...),
		authKey:      authKey.SerializeCompressed(),
		authKeyIndex: authKeyIndex,
		time:         now,
		extra:        make(map[string]string),
	}, nil
}

// Title is the human-readable project name.
func (d *Descriptor) Title() string { return d.title }

// Memo is the free-form backer-facing description.
func (d *Descriptor) Memo() string { return d.memo }

// Outputs returns the required outputs, in declared order.
func (d *Descriptor) Outputs() []txmodel.Output {
	return append([]txmodel.Output(nil), d.outputs...)
}

// Goal is the sum of the required outputs' amounts.
func (d *Descriptor) Goal() (valuescript.Amount, error) {
	total, err := valuescript.NewAmount(0)
	if err != nil {
		return valuescript.Amount{}, err
	}
	for _, out := range d.outputs {
		a, err := valuescript.NewAmount(out.Amount)
		if err != nil {
			return valuescript.Amount{}, err
		}
		total, err = total.Add(a)
		if err != nil {
			return valuescript.Amount{}, err
		}
	}
	return total, nil
}

// AuthKey returns the project's declared authentication public key.
func (d *Descriptor) AuthKey() (*secp256k1.PublicKey, error) {
	return secp256k1.ParsePubKey(d.authKey)
}

// AuthKeyIndex is the keychain lookahead index the owner used to derive
// AuthKey, so a hardware wallet or HD key provider can re-derive it.
func (d *Descriptor) AuthKeyIndex() uint32 { return d.authKeyIndex }

// Time is the descriptor's creation timestamp (seconds since epoch).
func (d *Descriptor) Time() int64 { return d.time }

// Slug is the deterministic URL-safe identifier derived from Title.
func (d *Descriptor) Slug() string { return Slug(d.title) }

// SetPaymentURL attaches the optional payment/discovery URL named in the
// wire schema (spec.md §6); a project-discovery server, not this core, is
// the intended reader.
func (d *Descriptor) SetPaymentURL(url string) { d.paymentURL = url }

// PaymentURL returns the optional payment/discovery URL, if set.
func (d *Descriptor) PaymentURL() string { return d.paymentURL }

// SetMerchantData attaches opaque caller-defined bytes that round-trip
// through serialization unmodified.
func (d *Descriptor) SetMerchantData(data []byte) { d.merchantData = data }

// MerchantData returns the opaque merchant data, if set.
func (d *Descriptor) MerchantData() []byte { return d.merchantData }

// SetExpires attaches an optional expiry (seconds since epoch, 0 = none).
func (d *Descriptor) SetExpires(t int64) { d.expires = t }

// Expires returns the optional expiry, if set.
func (d *Descriptor) Expires() int64 { return d.expires }

// SetExtra attaches a single extra-metadata key/value pair.
func (d *Descriptor) SetExtra(key, value string) {
	if d.extra == nil {
		d.extra = make(map[string]string)
	}
	d.extra[key] = value
}

// Extra returns a copy of the extra-metadata map.
func (d *Descriptor) Extra() map[string]string {
	out := make(map[string]string, len(d.extra))
	for k, v := range d.extra {
		out[k] = v
	}
	return out
}

// ID is the project's stable identity: the hex-encoded chainhash.HashB
// (single BLAKE-256) digest of the descriptor's canonical serialization.
func (d *Descriptor) ID() (string, error) {
	raw, err := d.Marshal()
	if err != nil {
		return "", err
	}
	sum := chainhash.HashB(raw)
	return hex.EncodeToString(sum), nil
}
