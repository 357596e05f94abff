// Package metrics exposes Prometheus counters and gauges for a mbpconv
// run: records processed, snapshots emitted, parse errors, and current
// resting order count.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics holds the Prometheus instruments for one run, satisfying
// processor.Recorder structurally.
type Metrics struct {
	records   prometheus.Counter
	snapshots prometheus.Counter
	errors    prometheus.Counter
	orders    prometheus.Gauge
}

// New constructs a fresh, unregistered set of instruments.
func New() *Metrics {
	return &Metrics{
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mbpconv_records_processed_total",
			Help: "MBO events read from the source.",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mbpconv_snapshots_emitted_total",
			Help: "MBP-10 snapshots written to the sink.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mbpconv_parse_errors_total",
			Help: "Events skipped due to a parse, validation, or duplicate-add error.",
		}),
		orders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mbpconv_book_orders",
			Help: "Orders currently resting in the book.",
		}),
	}
}

// Register adds every instrument to reg.
func (m *Metrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(m.records, m.snapshots, m.errors, m.orders)
}

func (m *Metrics) IncRecords()   { m.records.Inc() }
func (m *Metrics) IncSnapshots() { m.snapshots.Inc() }
func (m *Metrics) IncErrors()    { m.errors.Inc() }
func (m *Metrics) SetOrders(n int) { m.orders.Set(float64(n)) }

// Handler returns the HTTP handler that exposes reg in Prometheus text
// format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing reg's metrics on addr and blocks
// until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info().Str("addr", addr).Msg("shutting down metrics server")
		return srv.Shutdown(shutdownCtx)
	}
}
