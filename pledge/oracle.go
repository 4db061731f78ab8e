package pledge

import (
	"context"

	"github.com/pledgeforge/contractcore/txmodel"
)

// UTXOOracle resolves outpoints to their current output, if still
// unspent. A nil entry at index i means outpoints[i] is unknown: spent,
// never existed, or on a fork the caller doesn't follow. Implementations
// may batch the request however suits their backing chain source; the
// oracle is the verifier's sole suspension point (spec.md §5).
type UTXOOracle interface {
	ResolveOutputs(ctx context.Context, outpoints []txmodel.OutPoint) ([]*txmodel.Output, error)
}
