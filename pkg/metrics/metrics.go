// Package metrics exposes prometheus metrics for the import pipeline:
// ingestion throughput, token minting, builder pool behavior, and the bytes
// produced by each adjacency encoding.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for one import process.
type Registry struct {
	// Ingestion metrics
	NodesImportedTotal     prometheus.Counter
	RelationshipsTotal     prometheus.Counter
	TokensMintedTotal      prometheus.Counter
	PropertyKeysDiscovered prometheus.Gauge
	ImportPhaseDuration    *prometheus.HistogramVec

	// Builder provider metrics
	BuilderAcquiresTotal *prometheus.CounterVec

	// Adjacency metrics
	AdjacencyListsTotal *prometheus.CounterVec
	AdjacencyBytes      *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}
	r.initIngestionMetrics()
	r.initBuilderMetrics()
	r.initAdjacencyMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initIngestionMetrics() {
	r.NodesImportedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphcore_import_nodes_total",
			Help: "Total number of node records imported",
		},
	)
	r.RelationshipsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphcore_import_relationships_total",
			Help: "Total number of relationship records imported",
		},
	)
	r.TokensMintedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphcore_import_tokens_minted_total",
			Help: "Total number of label tokens minted",
		},
	)
	r.PropertyKeysDiscovered = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphcore_import_property_keys",
			Help: "Number of distinct property keys discovered",
		},
	)
	r.ImportPhaseDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphcore_import_phase_duration_seconds",
			Help:    "Import phase duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"phase"},
	)
}

func (r *Registry) initBuilderMetrics() {
	r.BuilderAcquiresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphcore_builder_acquires_total",
			Help: "Local builder acquisitions by provider kind and outcome",
		},
		[]string{"provider", "outcome"},
	)
}

func (r *Registry) initAdjacencyMetrics() {
	r.AdjacencyListsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphcore_adjacency_lists_total",
			Help: "Adjacency lists built, by applied encoding",
		},
		[]string{"strategy"},
	)
	r.AdjacencyBytes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graphcore_adjacency_bytes",
			Help: "Encoded adjacency bytes, by applied encoding",
		},
		[]string{"strategy"},
	)
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
