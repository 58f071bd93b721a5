// Package metrics exports desk activity to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

const namespace = "far"

// Recorder holds the desk's collectors on a private registry. It implements
// workflow.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	duration *prometheus.HistogramVec
	orders   *prometheus.GaugeVec
}

// New creates a Recorder. Go runtime and process collectors are included.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "started_total",
			Help:      "Workflows started, by kind.",
		}, []string{"kind"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "finished_total",
			Help:      "Workflows finished, by kind and result.",
		}, []string{"kind", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "duration_seconds",
			Help:      "Time from workflow start to its end.",
			Buckets:   []float64{.05, .25, 1, 2, 5, 15, 60, 300},
		}, []string{"kind", "result"}),
		orders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders",
			Help:      "Orders in the last claim snapshot, by partition.",
		}, []string{"partition"}),
	}
	r.registry.MustRegister(
		r.started, r.finished, r.duration, r.orders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var _ workflow.Recorder = (*Recorder)(nil)

// Started implements workflow.Recorder.
func (r *Recorder) Started(kind workflow.Kind) {
	r.started.WithLabelValues(string(kind)).Inc()
}

// Finished implements workflow.Recorder.
func (r *Recorder) Finished(kind workflow.Kind, result workflow.Result, elapsed time.Duration) {
	r.finished.WithLabelValues(string(kind), string(result)).Inc()
	r.duration.WithLabelValues(string(kind), string(result)).Observe(elapsed.Seconds())
}

// ObservePartition records the sizes of a claim snapshot's partitions.
func (r *Recorder) ObservePartition(p orders.Partitioned) {
	r.orders.WithLabelValues("active").Set(float64(len(p.Active)))
	r.orders.WithLabelValues("history").Set(float64(len(p.History)))
	r.orders.WithLabelValues("dropped").Set(float64(len(p.Dropped)))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx ends.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logging.Get(logging.CategoryMetrics).Info("serving metrics on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
