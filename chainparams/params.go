// Package chainparams selects the network parameters the rest of this
// module needs for address decoding and script classification.
package chainparams

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/v3"
)

// Network names the three networks a pledge wallet might run against.
type Network string

const (
	MainNet Network = "mainnet"
	TestNet Network = "testnet"
	SimNet  Network = "simnet"
)

// Params returns the chaincfg.Params for name, or an error if name names
// no known network.
func Params(name Network) (*chaincfg.Params, error) {
	switch name {
	case MainNet:
		return chaincfg.MainNetParams(), nil
	case TestNet:
		return chaincfg.TestNet3Params(), nil
	case SimNet:
		return chaincfg.SimNetParams(), nil
	default:
		return nil, fmt.Errorf("chainparams: unknown network %q", name)
	}
}
