// Package metrics exposes Prometheus metrics for the ledger, RPC and gRPC layers.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
)

// Metrics holds all Prometheus metrics for the daemon
type Metrics struct {
	gatherer prometheus.Gatherer

	Transactions  *prometheus.CounterVec
	LedgersClosed prometheus.Counter
	LedgerSeq     prometheus.Gauge
	Issued        prometheus.Gauge
	Retired       prometheus.Gauge

	RPCRequests *prometheus.CounterVec
	RPCLatency  *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		Transactions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carbond_transactions_total",
			Help: "Transactions submitted, by type and engine result",
		}, []string{"type", "result"}),

		LedgersClosed: f.NewCounter(prometheus.CounterOpts{
			Name: "carbond_ledgers_closed_total",
			Help: "Ledgers closed since start",
		}),

		LedgerSeq: f.NewGauge(prometheus.GaugeOpts{
			Name: "carbond_ledger_seq",
			Help: "Sequence of the last closed ledger",
		}),

		Issued: f.NewGauge(prometheus.GaugeOpts{
			Name: "carbond_credits_issued",
			Help: "Credits issued as of the last closed ledger",
		}),

		Retired: f.NewGauge(prometheus.GaugeOpts{
			Name: "carbond_credits_retired",
			Help: "Credits retired as of the last closed ledger",
		}),

		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carbond_rpc_requests_total",
			Help: "RPC requests by method and status",
		}, []string{"method", "status"}),

		RPCLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carbond_rpc_request_duration_seconds",
			Help:    "RPC request latency by method",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		}, []string{"method"}),
	}
}

// TransactionApplied records one engine result.
func (m *Metrics) TransactionApplied(txType, result string) {
	if m != nil {
		m.Transactions.WithLabelValues(txType, result).Inc()
	}
}

// LedgerClosed records a ledger close and the totals it holds.
func (m *Metrics) LedgerClosed(seq uint32, totals entry.Totals) {
	if m == nil {
		return
	}
	m.LedgersClosed.Inc()
	m.LedgerSeq.Set(float64(seq))
	m.Issued.Set(float64(totals.Issued))
	m.Retired.Set(float64(totals.Retired))
}

// ObserveRPC records one RPC call. status is "success" or an error token.
func (m *Metrics) ObserveRPC(method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(method, status).Inc()
	m.RPCLatency.WithLabelValues(method).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
