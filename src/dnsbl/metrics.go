// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "dnsbl"

// metrics holds the lookup counters of a [Client].
type metrics struct {
	queries   *prometheus.CounterVec
	failures  *prometheus.CounterVec
	replies   prometheus.Counter
	malformed prometheus.Counter
	stale     prometheus.Counter
	results   *prometheus.CounterVec
	timeouts  prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queries_total",
			Help:      "Queries sent, by blacklist.",
		}, []string{"blacklist"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "query_failures_total",
			Help:      "Queries that could not be encoded or sent, by blacklist.",
		}, []string{"blacklist"}),
		replies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replies_total",
			Help:      "Reply datagrams processed.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "malformed_replies_total",
			Help:      "Reply datagrams discarded because they could not be parsed.",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stale_replies_total",
			Help:      "Reply datagrams dropped because they answer no pending query.",
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "listings_total",
			Help:      "Listings returned, by blacklist.",
		}, []string{"blacklist"}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "wait_timeouts_total",
			Help:      "Items whose wait ended with queries still pending.",
		}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.queries, m.failures, m.replies, m.malformed, m.stale, m.results, m.timeouts}
}

// register registers every collector on reg. Collectors that are
// already registered (e.g., by another client) are shared.
func (m *metrics) register(reg prometheus.Registerer) error {
	for _, col := range m.collectors() {
		if err := reg.Register(col); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
			m.adopt(col, are.ExistingCollector)
		}
	}
	return nil
}

func (m *metrics) adopt(mine, existing prometheus.Collector) {
	switch mine {
	case m.queries:
		m.queries = existing.(*prometheus.CounterVec)
	case m.failures:
		m.failures = existing.(*prometheus.CounterVec)
	case m.results:
		m.results = existing.(*prometheus.CounterVec)
	case m.replies:
		m.replies = existing.(prometheus.Counter)
	case m.malformed:
		m.malformed = existing.(prometheus.Counter)
	case m.stale:
		m.stale = existing.(prometheus.Counter)
	case m.timeouts:
		m.timeouts = existing.(prometheus.Counter)
	}
}
