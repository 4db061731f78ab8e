// Package valuescript wraps satoshi-style amounts with overflow-checked
// arithmetic and classifies output scripts against the chain's standard
// templates.
package valuescript

import (
	"fmt"

	"github.com/decred/dcrd/dcrutil/v4"
)

// MaxSupply is the default ceiling used to bound Amount addition. It
// mirrors the toy chain's maximum possible supply; callers targeting a
// different chain can override it via NewAmountWithCeiling.
const MaxSupply = dcrutil.Amount(21e6 * 1e8)

// Amount is a non-negative count of the chain's smallest unit. Unlike
// dcrutil.Amount, arithmetic on Amount is checked against a maximum
// supply ceiling so a malicious or buggy sum can't silently wrap.
type Amount struct {
	v       dcrutil.Amount
	ceiling dcrutil.Amount
}

// ErrNegativeAmount is returned when an Amount would become negative.
var ErrNegativeAmount = fmt.Errorf("amount must be non-negative")

// ErrAmountOverflow is returned when an addition would exceed the
// configured supply ceiling.
var ErrAmountOverflow = fmt.Errorf("amount exceeds maximum supply")

// NewAmount constructs an Amount bounded by MaxSupply.
func NewAmount(atoms int64) (Amount, error) {
	return NewAmountWithCeiling(atoms, MaxSupply)
}

// NewAmountWithCeiling constructs an Amount bounded by the given ceiling,
// for callers targeting a chain whose maximum supply differs from the
// default.
func NewAmountWithCeiling(atoms int64, ceiling dcrutil.Amount) (Amount, error) {
	if atoms < 0 {
		return Amount{}, ErrNegativeAmount
	}
	a := dcrutil.Amount(atoms)
	if a > ceiling {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{v: a, ceiling: ceiling}, nil
}

// ToAtoms returns the raw smallest-unit count.
func (a Amount) ToAtoms() int64 {
	return int64(a.v)
}

// Raw exposes the underlying dcrutil.Amount for interop with txscript and
// wire types.
func (a Amount) Raw() dcrutil.Amount {
	return a.v
}

// Add returns a+b, failing with ErrAmountOverflow if the sum would exceed
// the receiver's ceiling.
func (a Amount) Add(b Amount) (Amount, error) {
	ceiling := a.ceiling
	if ceiling == 0 {
		ceiling = MaxSupply
	}
	sum := a.v + b.v
	if sum < a.v || sum > ceiling {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{v: sum, ceiling: ceiling}, nil
}

// Sub returns a-b, failing with ErrNegativeAmount if b exceeds a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b.v > a.v {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{v: a.v - b.v, ceiling: a.ceiling}, nil
}

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.v < b.v:
		return -1
	case a.v > b.v:
		return 1
	default:
		return 0
	}
}

// String formats the amount the way dcrutil.Amount does (e.g. "1.5 DCR").
func (a Amount) String() string {
	return a.v.String()
}
