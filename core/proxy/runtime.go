package proxy

import (
	"context"
	"sync"

	"github.com/anoideaopen/delegate/core/logger"
	"github.com/anoideaopen/delegate/core/metrics"
	"github.com/anoideaopen/delegate/core/protocol"
	"github.com/anoideaopen/delegate/core/sigcache"
	"github.com/anoideaopen/delegate/core/telemetry"
	"github.com/anoideaopen/delegate/internal/config"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/anoideaopen/delegate/core/proxy"

// Runtime owns the state shared by a family of proxies: the class registry
// they consult and the signature cache they fill.
type Runtime struct {
	registry *protocol.Registry
	cache    *sigcache.Cache
	metrics  *metrics.Collector
	log      *logrus.Entry
	tracer   trace.Tracer
	shutdown telemetry.ShutdownFunc
	scan     bool
	flight   singleflight.Group
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithRegistry sets the class registry. The process-wide registry is used by default.
func WithRegistry(r *protocol.Registry) Option {
	return func(rt *Runtime) {
		if r != nil {
			rt.registry = r
		}
	}
}

// WithCache sets the signature cache. Runtimes sharing a cache share its entries.
func WithCache(c *sigcache.Cache) Option {
	return func(rt *Runtime) {
		if c != nil {
			rt.cache = c
		}
	}
}

// WithMetrics sets the Prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(rt *Runtime) {
		rt.metrics = c
	}
}

// WithLogger sets the log entry used by the runtime.
func WithLogger(l *logrus.Entry) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.log = l
		}
	}
}

// WithTracerProvider sets the provider of the population and scan spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(rt *Runtime) {
		if tp != nil {
			rt.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithFallbackScan enables or disables the exhaustive signature scan.
func WithFallbackScan(enabled bool) Option {
	return func(rt *Runtime) {
		rt.scan = enabled
	}
}

// NewRuntime creates a Runtime with its own signature cache.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		registry: protocol.Default(),
		cache:    sigcache.New(),
		log:      logger.Logger().WithField("component", "delegate"),
		tracer:   otel.Tracer(tracerName),
		scan:     true,
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt
}

// Registry returns the class registry of the runtime.
func (rt *Runtime) Registry() *protocol.Registry { return rt.registry }

// Cache returns the signature cache of the runtime.
func (rt *Runtime) Cache() *sigcache.Cache { return rt.cache }

// Metrics returns the collector of the runtime, nil when metrics are off.
func (rt *Runtime) Metrics() *metrics.Collector { return rt.metrics }

// Close flushes the tracer provider the runtime created for itself, if any.
func (rt *Runtime) Close(ctx context.Context) error {
	if rt.shutdown == nil {
		return nil
	}

	return rt.shutdown(ctx)
}

var defaultRuntime = sync.OnceValue(func() *Runtime {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Logger().WithError(err).Warn("delegate runtime: using default configuration")
		cfg = config.Default()
	}

	opts := []Option{WithFallbackScan(cfg.FallbackScan)}
	if cfg.Metrics {
		opts = append(opts, WithMetrics(metrics.NewCollector(cfg.MetricsNamespace)))
	}

	tp, shutdown, err := telemetry.NewTracerProvider(context.Background(), telemetry.Endpoint{
		Address:     cfg.OTLPEndpoint,
		CACerts:     cfg.OTLPCACerts,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Logger().WithError(err).Warn("delegate runtime: tracing disabled")
	} else if cfg.OTLPEndpoint != "" {
		opts = append(opts, WithTracerProvider(tp))
	}

	rt := NewRuntime(opts...)
	rt.shutdown = shutdown

	return rt
})

// Default returns the process-wide runtime. It uses the process-wide class
// registry and is configured from the environment on first use.
func Default() *Runtime {
	return defaultRuntime()
}
