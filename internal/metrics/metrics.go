// Package metrics exposes Prometheus instrumentation for the interpreter:
// per-opcode execution counts and a histogram of gas spent per executed
// transaction.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpcodesExecuted counts every opcode dispatched by the interpreter
	// loop, labeled by mnemonic.
	OpcodesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmcore",
		Subsystem: "interpreter",
		Name:      "opcodes_executed_total",
		Help:      "Number of times each opcode has been dispatched.",
	}, []string{"opcode"})

	// GasUsed records the gas consumed by each completed transaction.
	GasUsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evmcore",
		Subsystem: "interpreter",
		Name:      "gas_used",
		Help:      "Gas consumed per executed transaction.",
		Buckets:   prometheus.ExponentialBuckets(21000, 2, 12),
	})

	// TransactionErrors counts transactions that aborted, labeled by the
	// error kind (out_of_gas, insufficient_funds, intrinsic_gas_too_low,
	// invalid_jump_dest, invalid_address, other).
	TransactionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmcore",
		Subsystem: "interpreter",
		Name:      "transaction_errors_total",
		Help:      "Number of transactions that aborted, by error kind.",
	}, []string{"kind"})
)
