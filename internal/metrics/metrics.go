// Package metrics exports search performance as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdrpinto/chase/internal/perflog"
)

// Recorder turns performance rows into Prometheus series. It implements
// perflog.Sink so it can sit next to the CSV log in a perflog.Multi.
type Recorder struct {
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	nodesExpanded  *prometheus.HistogramVec
	pathLength     *prometheus.HistogramVec
	memoryBytes    *prometheus.HistogramVec
}

var _ perflog.Sink = (*Recorder)(nil)

// NewRecorder registers the search metrics with registerer.
func NewRecorder(registerer prometheus.Registerer) *Recorder {
	factory := promauto.With(registerer)
	return &Recorder{
		searchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chase_searches_total",
			Help: "Total searches by strategy and outcome",
		}, []string{"algorithm", "outcome"}),

		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chase_search_duration_seconds",
			Help:    "Search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"algorithm"}),

		nodesExpanded: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chase_search_nodes_expanded",
			Help:    "Nodes removed from the frontier per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"algorithm"}),

		pathLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chase_search_path_length",
			Help:    "Actions in the returned plan",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		}, []string{"algorithm"}),

		memoryBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chase_search_memory_bytes",
			Help:    "Heap bytes allocated during a search",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}, []string{"algorithm"}),
	}
}

func (r *Recorder) Record(_ context.Context, entry perflog.Entry) error {
	outcome := "not_found"
	if entry.Found {
		outcome = "found"
	}
	r.searchesTotal.WithLabelValues(entry.Algorithm, outcome).Inc()
	r.searchDuration.WithLabelValues(entry.Algorithm).Observe(entry.SearchTime.Seconds())
	r.nodesExpanded.WithLabelValues(entry.Algorithm).Observe(float64(entry.NodesExpanded))
	if entry.Found {
		r.pathLength.WithLabelValues(entry.Algorithm).Observe(float64(entry.PathLength))
	}
	if entry.MemoryBytes > 0 {
		r.memoryBytes.WithLabelValues(entry.Algorithm).Observe(float64(entry.MemoryBytes))
	}
	return nil
}
