// Package metrics exposes prometheus instrumentation for the claim
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline instruments on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal   *prometheus.CounterVec
	QueryDuration  prometheus.Histogram
	BestMatchScore prometheus.Histogram
	ClausesIndexed prometheus.Counter
	RebuildsTotal  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "claim_queries_total",
			Help: "Processed claim queries by decision.",
		}, []string{"decision"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "claim_query_duration_seconds",
			Help:    "End-to-end duration of claim query processing.",
			Buckets: prometheus.DefBuckets,
		}),
		BestMatchScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "claim_best_match_score",
			Help:    "Similarity score of the best matched clause.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		ClausesIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clauses_indexed_total",
			Help: "Clauses written to the index across rebuild runs.",
		}),
		RebuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "index_rebuilds_total",
			Help: "Index rebuild runs by outcome.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.QueriesTotal,
		m.QueryDuration,
		m.BestMatchScore,
		m.ClausesIndexed,
		m.RebuildsTotal,
	)
	return m
}

// Handler serves the registry in prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
