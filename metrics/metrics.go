// Package metrics exposes Prometheus collectors for pledge verification
// outcomes and oracle latency, the observability surface a wallet
// operator wires into their own registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// VerifyOutcomes counts pledge verification results by the ErrorKind
// string (or "success"), so an operator dashboard can break down
// rejection reasons without re-parsing logs.
var VerifyOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pledgewallet",
		Subsystem: "pledge",
		Name:      "verify_outcomes_total",
		Help:      "Count of pledge verification attempts by outcome.",
	},
	[]string{"outcome"},
)

// OracleLatency records how long UTXO oracle lookups take, the
// verifier's sole suspension point.
var OracleLatency = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "pledgewallet",
		Subsystem: "pledge",
		Name:      "oracle_lookup_seconds",
		Help:      "Latency of UTXO oracle lookups during pledge verification.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ActivePledges gauges the number of non-revoked, non-claimed pledges a
// wallet is currently tracking.
var ActivePledges = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "pledgewallet",
		Subsystem: "wallet",
		Name:      "active_pledges",
		Help:      "Number of stubs currently pledged and not yet revoked or claimed.",
	},
)

func init() {
	prometheus.MustRegister(VerifyOutcomes, OracleLatency, ActivePledges)
}
