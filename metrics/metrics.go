// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics instruments the tabulation core with Prometheus
// counters and histograms, adapted from the teacher's api/metrics
// package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the set of counters and histograms the core exposes.
type Metrics struct {
	BallotsSubmitted  prometheus.Counter
	BallotsRejected   *prometheus.CounterVec
	Tabulations       prometheus.Counter
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	TabulationSeconds prometheus.Histogram
}

// New registers and returns a Metrics bound to registerer.
func New(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		BallotsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ballots_submitted_total",
			Help:      "Number of ballots successfully submitted.",
		}),
		BallotsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ballots_rejected_total",
			Help:      "Number of ballot submissions rejected, by reason.",
		}, []string{"reason"}),
		Tabulations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tabulations_total",
			Help:      "Number of times the tabulation engine actually ran (cache misses).",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_cache_hits_total",
			Help:      "Number of results reads served from the fingerprint cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_cache_misses_total",
			Help:      "Number of results reads that required a fresh tabulation.",
		}),
		TabulationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tabulation_duration_seconds",
			Help:      "Time taken to run the tabulation engine to completion.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.BallotsSubmitted, m.BallotsRejected, m.Tabulations,
		m.CacheHits, m.CacheMisses, m.TabulationSeconds,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}
