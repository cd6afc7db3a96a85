package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tessellated-io/feeband-go/log"
)

const Namespace = "feeband"

// Metrics holds the collectors updated after every run.
type Metrics struct {
	Runs         *prometheus.CounterVec
	Writes       prometheus.Counter
	BaseFee      prometheus.Gauge
	GasPriceStep *prometheus.GaugeVec
	RunDuration  prometheus.Histogram
	LastRun      prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Reconciliation runs by outcome.",
		}, []string{"outcome"}),
		Writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "writes_total",
			Help:      "Chain info files written.",
		}),
		BaseFee: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "base_fee",
			Help:      "Last observed base fee.",
		}),
		GasPriceStep: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gas_price_step",
			Help:      "Gas price step after the last successful run.",
		}, []string{"level"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent in a reconciliation run.",
			Buckets:   prometheus.DefBuckets,
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
}

func (m *Metrics) Metrics() []prometheus.Collector {
	return []prometheus.Collector{m.Runs, m.Writes, m.BaseFee, m.GasPriceStep, m.RunDuration, m.LastRun}
}

// NewRegistry registers m along with process and Go runtime collectors.
func NewRegistry(m *Metrics) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	collectorsToRegister := append(m.Metrics(), collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	for _, collector := range collectorsToRegister {
		err := registry.Register(collector)
		if err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Serve exposes /metrics on address until ctx is done.
func Serve(ctx context.Context, address string, registry *prometheus.Registry, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("address", address).Msg("serving metrics")
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
