package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/hostfs"
)

// Result label values that are not errno names.
const (
	ResultOK    = "ok"
	ResultFault = "fault"
)

// Config represents metrics configuration
type Config struct {
	Labels    map[string]string `yaml:"labels"`
	Namespace string            `yaml:"namespace"`
	Subsystem string            `yaml:"subsystem"`
	Path      string            `yaml:"path"`
	Buckets   []float64         `yaml:"buckets"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Namespace: "hostfs",
		Path:      "/metrics",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}
}

// Collector implements hostfs.Observer over a private Prometheus registry.
type Collector struct {
	config     *Config
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	open       prometheus.Gauge
	log        *zap.Logger
}

var _ hostfs.Observer = (*Collector)(nil)

// NewCollector creates a collector and registers its metrics.
func NewCollector(config *Config, log *zap.Logger) (*Collector, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Path == "" {
		config.Path = "/metrics"
	}
	if len(config.Buckets) == 0 {
		config.Buckets = DefaultConfig().Buckets
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Collector{
		config:   config,
		registry: prometheus.NewRegistry(),
		log:      log.Named("metrics"),
	}

	c.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of filesystem operations by result.",
			ConstLabels: config.Labels,
		},
		[]string{"operation", "result"},
	)
	c.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Filesystem operation latency in seconds.",
			ConstLabels: config.Labels,
			Buckets:     config.Buckets,
		},
		[]string{"operation"},
	)
	c.open = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "open_streams",
		Help:        "Number of streams currently open.",
		ConstLabels: config.Labels,
	})

	for _, m := range []prometheus.Collector{c.operations, c.duration, c.open} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return c, nil
}

// ObserveOperation records one completed operation.
func (c *Collector) ObserveOperation(op string, elapsed time.Duration, err error) {
	c.operations.WithLabelValues(op, Result(err)).Inc()
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())

	if err != nil {
		return
	}
	switch op {
	case hostfs.OpOpen:
		c.open.Inc()
	case hostfs.OpClose:
		c.open.Dec()
	}
}

// Result is the result label for err: "ok", the errno name, or "fault" for
// errors carrying no errno.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	if code, ok := errno.From(err); ok {
		return code.String()
	}
	return ResultFault
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve exposes the metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(c.config.Path, c.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	c.log.Info("serving metrics", zap.String("addr", ln.Addr().String()), zap.String("path", c.config.Path))
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
