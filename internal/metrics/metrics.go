// Package metrics exposes Prometheus instruments for the household service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	SummaryRecomputes prometheus.Counter
	LedgerMutations   *prometheus.CounterVec
	ExpenseAmount     prometheus.Histogram
	RPCDuration       *prometheus.HistogramVec
}

// New creates a registry with the Go and process collectors plus the
// fairshare instruments.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		SummaryRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fairshare_summary_recomputes_total",
			Help: "Number of household summaries recomputed after a mutation.",
		}),
		LedgerMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fairshare_ledger_mutations_total",
			Help: "Number of successful household mutations by operation.",
		}, []string{"operation"}),
		ExpenseAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fairshare_expense_amount",
			Help:    "Amounts of expenses appended to ledgers.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fairshare_rpc_duration_seconds",
			Help:    "Duration of RPC calls by procedure and result code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.SummaryRecomputes, m.LedgerMutations, m.ExpenseAmount, m.RPCDuration)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveMutation records a successful mutation and the summary recompute
// that follows it.
func (m *Metrics) ObserveMutation(operation string) {
	if m == nil {
		return
	}
	m.LedgerMutations.WithLabelValues(operation).Inc()
	m.SummaryRecomputes.Inc()
}

func (m *Metrics) ObserveExpense(amount float64) {
	if m == nil {
		return
	}
	m.ExpenseAmount.Observe(amount)
}

func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
