package wallet

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/pledgeforge/contractcore/txmodel"
)

// ErrInsufficientFunds is returned when a wallet's total spendable value,
// across every candidate not already pledged, falls below the amount
// requested plus fees. It carries a captured stack trace so a caller
// logging it can see where in a larger pledge-construction flow the
// shortfall was discovered.
type ErrInsufficientFunds struct {
	Needed    int64
	Available int64
	*errors.Error
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Needed, e.Available)
}

func newErrInsufficientFunds(needed, available int64) *ErrInsufficientFunds {
	return &ErrInsufficientFunds{
		Needed:    needed,
		Available: available,
		Error:     errors.New(fmt.Sprintf("insufficient funds: need %d, have %d", needed, available)),
	}
}

// selectCoins implements the wallet's coin-selection discipline (spec.md
// §4.H): exclude every stub currently in pledged, then prefer a single
// candidate matching target exactly before falling back to the
// accumulate-until-covered algorithm adapted from the coin selector a
// channel-funding wallet uses for the same problem.
func selectCoins(candidates []SpendableOutput, pledged map[txmodel.OutPoint]struct{}, target int64) ([]SpendableOutput, error) {
	eligible := make([]SpendableOutput, 0, len(candidates))
	var total int64
	for _, c := range candidates {
		if _, isPledged := pledged[c.OutPoint]; isPledged {
			continue
		}
		eligible = append(eligible, c)
		total += c.Output.Amount
	}

	if exact := findExactMatch(eligible, target); exact != nil {
		return []SpendableOutput{*exact}, nil
	}

	if total < target {
		return nil, newErrInsufficientFunds(target, total)
	}

	return accumulateUntilCovered(eligible, target)
}

// findExactMatch returns a single candidate whose amount equals target
// exactly, or nil if none exists. This is the discipline's one deviation
// from the generic accumulate algorithm: an exact-value output lets the
// wallet build a pledge stub with no change output at all.
func findExactMatch(candidates []SpendableOutput, target int64) *SpendableOutput {
	for i, c := range candidates {
		if c.Output.Amount == target {
			return &candidates[i]
		}
	}
	return nil
}

// accumulateUntilCovered greedily adds candidates, largest first, until
// their sum covers target. It mirrors the accumulate-until-covered shape
// of a channel-funding coin selector, adapted here for a single target
// value rather than a channel capacity plus reserve.
func accumulateUntilCovered(candidates []SpendableOutput, target int64) ([]SpendableOutput, error) {
	sorted := append([]SpendableOutput(nil), candidates...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Output.Amount < sorted[j].Output.Amount; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	var selected []SpendableOutput
	var sum int64
	for _, c := range sorted {
		if sum >= target {
			break
		}
		selected = append(selected, c)
		sum += c.Output.Amount
	}

	if sum < target {
		return nil, newErrInsufficientFunds(target, sum)
	}
	return selected, nil
}
