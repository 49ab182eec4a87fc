package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracker"

var (
	// Registry holds the tracker's Prometheus collectors
	Registry = prometheus.NewRegistry()

	refreshCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycles_total",
			Help:      "Refresh cycles by result.",
		},
		[]string{"result"},
	)

	refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of refresh cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
	)

	refreshSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "skipped_ticks_total",
			Help:      "Ticks skipped because a cycle was still running.",
		},
	)

	fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "affiliate",
			Name:      "fetches_total",
			Help:      "Wager snapshot fetches by result.",
		},
		[]string{"result"},
	)

	ticketsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "raffle",
			Name:      "tickets_issued_total",
			Help:      "Raffle tickets issued.",
		},
	)

	roundsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "raffle",
			Name:      "rounds_published_total",
			Help:      "Raffle rounds published with a draw.",
		},
	)

	betsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bets",
			Name:      "ingested_total",
			Help:      "Bets received by result.",
		},
		[]string{"result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Webhook notifications by kind and result.",
		},
		[]string{"kind", "result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		refreshCycles,
		refreshDuration,
		refreshSkipped,
		fetches,
		ticketsIssued,
		roundsPublished,
		betsIngested,
		notifications,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRefreshCycle records a finished refresh cycle
func RecordRefreshCycle(result string, duration time.Duration) {
	refreshCycles.WithLabelValues(result).Inc()
	refreshDuration.Observe(duration.Seconds())
}

// RecordSkippedTick counts a tick dropped by the in-flight guard
func RecordSkippedTick() {
	refreshSkipped.Inc()
}

// RecordFetch counts a snapshot fetch
func RecordFetch(success bool) {
	fetches.WithLabelValues(resultLabel(success)).Inc()
}

// RecordTicketsIssued adds n issued tickets
func RecordTicketsIssued(n int) {
	if n > 0 {
		ticketsIssued.Add(float64(n))
	}
}

// RecordRoundPublished counts a published round
func RecordRoundPublished() {
	roundsPublished.Inc()
}

// RecordBet counts an ingested bet; result is one of accepted, duplicate, rejected
func RecordBet(result string) {
	betsIngested.WithLabelValues(result).Inc()
}

// RecordNotification counts a webhook delivery attempt
func RecordNotification(kind string, success bool) {
	notifications.WithLabelValues(kind, resultLabel(success)).Inc()
}

// RecordHTTPRequest records a handled request; path must be the route template
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
