// Package metrics counts generator, history-store and clipboard activity on a
// private Prometheus registry. A CLI run has no scrape endpoint, so the
// registry is flushed to a node-exporter textfile on exit when configured.
package metrics

import (
	"errors"

	"github.com/dmitrijs2005/oibkeeper/internal/common"
	"github.com/dmitrijs2005/oibkeeper/internal/filex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	reg               *prometheus.Registry
	generated         prometheus.Counter
	storeOps          *prometheus.CounterVec
	clipboardFailures prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		generated: f.NewCounter(prometheus.CounterOpts{
			Name: "oib_generated_total",
			Help: "Identifiers generated.",
		}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oib_store_operations_total",
			Help: "History store operations by operation and result.",
		}, []string{"op", "result"}),
		clipboardFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "oib_clipboard_failures_total",
			Help: "Failed clipboard writes.",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) Generated() {
	if m == nil {
		return
	}
	m.generated.Inc()
}

// StoreOp counts one store operation, classifying err.
func (m *Metrics) StoreOp(op string, err error) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, Result(err)).Inc()
}

func (m *Metrics) ClipboardFailed() {
	if m == nil {
		return
	}
	m.clipboardFailures.Inc()
}

// WriteTextfile atomically writes the registry in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, m.reg)
}

// Result maps an operation error onto a result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, common.ErrorNotFound):
		return ResultNotFound
	default:
		return ResultError
	}
}
