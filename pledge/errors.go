package pledge

import "fmt"

// ErrorKind enumerates the closed set of ways pledge verification can
// fail (spec.md §7). The verifier returns the first phase's failure and
// attempts no later phase.
type ErrorKind int

const (
	// NoTransactionData means the pledge carries no transactions at all.
	NoTransactionData ErrorKind = iota
	// DuplicatedOutPoint means the pledge transaction's inputs reference
	// the same outpoint more than once.
	DuplicatedOutPoint
	// TxWrongNumberOfOutputs means the pledge transaction's output count
	// does not equal the project's required output count.
	TxWrongNumberOfOutputs
	// OutputMismatch means a pledge output's amount or script differs
	// from the project's corresponding required output.
	OutputMismatch
	// NonStandard means a pledge output's script is outside the
	// standard template set.
	NonStandard
	// UnknownUTXO means the oracle could not resolve a referenced
	// outpoint: the stub is spent, never existed, or is on a fork.
	UnknownUTXO
	// CachedValueMismatch means the pledge's declared total input value
	// does not equal the sum of the oracle-resolved output amounts.
	CachedValueMismatch
	// ScriptError means the script interpreter rejected an input,
	// including a dummy or placeholder signature.
	ScriptError
	// ValueMismatch means the combined pledged total falls short of the
	// project's goal. Verify never returns it; contract.RequireComplete
	// reports it through contract.ErrIncomplete at combining time.
	ValueMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case NoTransactionData:
		return "NoTransactionData"
	case DuplicatedOutPoint:
		return "DuplicatedOutPoint"
	case TxWrongNumberOfOutputs:
		return "TxWrongNumberOfOutputs"
	case OutputMismatch:
		return "OutputMismatch"
	case NonStandard:
		return "NonStandard"
	case UnknownUTXO:
		return "UnknownUTXO"
	case CachedValueMismatch:
		return "CachedValueMismatch"
	case ScriptError:
		return "ScriptError"
	case ValueMismatch:
		return "ValueMismatch"
	default:
		return "Unknown"
	}
}

// VerifyError is the concrete error type verification returns; callers
// switch on Kind rather than string-matching Error().
type VerifyError struct {
	Kind   ErrorKind
	Detail string
}

func (e *VerifyError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func fail(kind ErrorKind, format string, args ...interface{}) *VerifyError {
	return &VerifyError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
