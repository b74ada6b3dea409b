// Package metrics holds the Prometheus collectors of the search engine.
// Collectors always count; they are exported only once Register has been
// called with a registerer, typically from main.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
)

// Operation statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cjkfts",
			Name:      "operations_total",
			Help:      "Total engine operations by outcome",
		},
		[]string{"op", "status"},
	)

	OperationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cjkfts",
			Name:      "operation_errors_total",
			Help:      "Failed engine operations by error code",
		},
		[]string{"op", "code"},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cjkfts",
			Name:      "operation_duration_seconds",
			Help:      "Engine operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"op"},
	)

	DocumentsCommittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cjkfts",
			Name:      "documents_committed_total",
			Help:      "Documents added by successful commits",
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cjkfts",
			Name:      "search_cache_total",
			Help:      "Search cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Collectors returns every collector of the package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		OperationsTotal,
		OperationErrorsTotal,
		OperationDuration,
		DocumentsCommittedTotal,
		SearchCacheTotal,
	}
}

// Register registers the collectors on reg. Registering on the same
// registerer twice is not an error.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// Observe records one operation that started at start and ended with err.
func Observe(op string, start time.Time, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
		OperationErrorsTotal.WithLabelValues(op, errorCode(err)).Inc()
	}
	OperationsTotal.WithLabelValues(op, status).Inc()
	OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// errorCode labels uncoded errors, such as context cancellation, "other".
func errorCode(err error) string {
	if code := cerrors.GetCode(err); code != "" {
		return code
	}
	return "other"
}

// CacheLookup records a search cache hit or miss.
func CacheLookup(hit bool) {
	if hit {
		SearchCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	SearchCacheTotal.WithLabelValues("miss").Inc()
}

// Committed records documents added by a commit.
func Committed(n int) {
	if n > 0 {
		DocumentsCommittedTotal.Add(float64(n))
	}
}
