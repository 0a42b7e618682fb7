package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "breaks",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route and status code.",
	}, []string{"route", "status"})
	breakOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "breaks",
		Name:      "operations_total",
		Help:      "Successful break operations, by operation.",
	}, []string{"operation"})
	videosServed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "breaks",
		Name:      "videos_served_total",
		Help:      "Random distraction videos handed out.",
	})
	eventPublishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "breaks",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Break events that could not be handed to the broker.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, breakOperations, videosServed, eventPublishFailures)
}

// RecordRequest counts a served request.
func RecordRequest(route string, status int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// RecordBreakOperation counts a successful create/update/skip.
func RecordBreakOperation(operation string) {
	breakOperations.WithLabelValues(operation).Inc()
}

func RecordVideoServed() {
	videosServed.Inc()
}

func RecordEventPublishFailure() {
	eventPublishFailures.Inc()
}
