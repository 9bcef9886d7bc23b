// Package metrics exposes Prometheus metrics of the delegate runtime.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Call paths.
const (
	PathForwarded = "forwarded"
	PathDefaulted = "defaulted"
	PathFailed    = "failed"
)

// Cache lookup results.
const (
	LookupHit  = "hit"
	LookupMiss = "miss"
)

// Fallback scan outcomes.
const (
	ScanResolved   = "resolved"
	ScanAmbiguous  = "ambiguous"
	ScanUnresolved = "unresolved"
)

// Collector holds the runtime metrics in its own registry. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Calls         *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	Populations   prometheus.Counter
	FallbackScans *prometheus.CounterVec
	CacheEntries  prometheus.Gauge
}

// NewCollector creates a Collector with every metric registered under namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "calls_total",
			Help:      "Calls received by delegate proxies, by dispatch path",
		}, []string{"path"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signature_cache",
			Name:      "lookups_total",
			Help:      "Signature cache lookups, by result",
		}, []string{"result"}),
		Populations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signature_cache",
			Name:      "populations_total",
			Help:      "Population passes over previously unseen delegate classes",
		}),
		FallbackScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signature_cache",
			Name:      "fallback_scans_total",
			Help:      "Exhaustive signature scans over registered classes, by outcome",
		}, []string{"outcome"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "signature_cache",
			Name:      "entries",
			Help:      "Signatures held by the cache",
		}),
	}

	reg.MustRegister(c.Calls, c.CacheLookups, c.Populations, c.FallbackScans, c.CacheEntries)

	return c
}

// Registry returns the Prometheus registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}

	return c.registry
}

// Call counts a proxied call on the given path.
func (c *Collector) Call(path string) {
	if c == nil {
		return
	}

	c.Calls.WithLabelValues(path).Inc()
}

// Lookup counts a cache lookup.
func (c *Collector) Lookup(hit bool) {
	if c == nil {
		return
	}

	result := LookupMiss
	if hit {
		result = LookupHit
	}

	c.CacheLookups.WithLabelValues(result).Inc()
}

// Populated counts a committed population pass and records the cache size.
func (c *Collector) Populated(entries int) {
	if c == nil {
		return
	}

	c.Populations.Inc()
	c.CacheEntries.Set(float64(entries))
}

// Scanned counts a fallback scan outcome and records the cache size.
func (c *Collector) Scanned(outcome string, entries int) {
	if c == nil {
		return
	}

	c.FallbackScans.WithLabelValues(outcome).Inc()
	c.CacheEntries.Set(float64(entries))
}
