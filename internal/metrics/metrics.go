package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invoicely"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	dbQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database query latency by operation and outcome.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "outcome"})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Domain events published by event name and outcome.",
	}, []string{"event", "outcome"})

	invoicesMarkedOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_marked_overdue_total",
		Help:      "Invoices moved from pending to overdue by the overdue sweep.",
	})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRequest records a finished HTTP request
func ObserveRequest(route, method, status string, d time.Duration) {
	httpRequests.WithLabelValues(route, method, status).Inc()
	httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveQuery records a finished database query
func ObserveQuery(operation string, d time.Duration, err error) {
	dbQueryDuration.WithLabelValues(operation, outcome(err)).Observe(d.Seconds())
}

// ObservePublish records a domain event publish attempt
func ObservePublish(event string, err error) {
	eventsPublished.WithLabelValues(event, outcome(err)).Inc()
}

// AddOverdue counts invoices transitioned by the overdue sweep
func AddOverdue(n int) {
	invoicesMarkedOverdue.Add(float64(n))
}
