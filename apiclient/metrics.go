package apiclient

import (
	"strconv"
	"time"

	"github.com/jrsteele09/go-jobportal-client/internal/errors"
	"github.com/jrsteele09/go-jobportal-client/token/refresh"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "jobportal_client"

type metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "requests_total",
		Help:      "Backend requests by method and status code; code is \"error\" for transport failures.",
	}, []string{"method", "code"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "request_duration_seconds",
		Help:      "Backend request latency, one observation per attempt.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"}))
	if err != nil {
		return nil, err
	}

	refreshes, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "token_refresh_total",
		Help:      "Finished token refresh attempts by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	return &metrics{requests: requests, duration: duration, refreshes: refreshes}, nil
}

// register adds c to reg, reusing an identical collector that is already registered so
// several clients can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, errors.Wrapf(err, "register metrics")
	}
	return c, nil
}

func (m *metrics) observeRequest(method string, statusCode int, elapsed time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *metrics) observeRefresh(outcome refresh.Outcome) {
	m.refreshes.WithLabelValues(string(outcome)).Inc()
}
