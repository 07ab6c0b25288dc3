/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package datastore

import (
	"github.com/prometheus/client_golang/prometheus"
)

// storeMetrics holds the cache counters. A nil receiver disables
// collection, so the hot path never branches on configuration.
type storeMetrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	fetchErrors prometheus.Counter
}

// WithMetrics registers cache hit/miss/fetch-error counters for the store
// on the given registerer, labeled by store name.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) {
		labels := prometheus.Labels{"store": s.name}
		m := &storeMetrics{
			hits: prometheus.NewCounter(prometheus.CounterOpts{
				Name:        "dimgraph_datastore_cache_hits_total",
				Help:        "Number of Get calls served from the entity cache.",
				ConstLabels: labels,
			}),
			misses: prometheus.NewCounter(prometheus.CounterOpts{
				Name:        "dimgraph_datastore_cache_misses_total",
				Help:        "Number of Get calls that reached the fetch provider.",
				ConstLabels: labels,
			}),
			fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
				Name:        "dimgraph_datastore_fetch_errors_total",
				Help:        "Number of fetch provider failures.",
				ConstLabels: labels,
			}),
		}
		reg.MustRegister(m.hits, m.misses, m.fetchErrors)
		s.metrics = m
	}
}

func (m *storeMetrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *storeMetrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *storeMetrics) fetchError() {
	if m != nil {
		m.fetchErrors.Inc()
	}
}
