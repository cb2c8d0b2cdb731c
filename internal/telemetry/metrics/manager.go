package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests             *prometheus.CounterVec
	CounterHandleRequestPanic   prometheus.Counter
	CounterRateLimitedRequests  prometheus.Counter
	CounterDefinitionWrites     *prometheus.CounterVec
	CounterDefinitionCache      *prometheus.CounterVec
	CounterTargetingComputed    prometheus.Counter
	CounterValidationRejections *prometheus.CounterVec
	CounterWorkoutEntries       prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("gymvariations", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("gymvariations", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterDefinitionWrites := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "definition_writes",
		Help:      "Exercise definition writes by operation and result",
	}, []string{"op", "result"})
	counterDefinitionCache := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "definition_cache",
		Help:      "Exercise definition cache lookups by result",
	}, []string{"result"})
	counterTargetingComputed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "targeting_computed",
		Help:      "The total number of successful muscle targeting computations",
	})
	counterValidationRejections := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "validation_rejections",
		Help:      "Rejected requests by component and offending field",
	}, []string{"component", "field"})
	counterWorkoutEntries := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workout_entries",
		Help:      "The total number of recorded workout entries",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:             counterRequests,
		CounterHandleRequestPanic:   counterHandleRequestPanic,
		CounterRateLimitedRequests:  counterRateLimitedRequests,
		CounterDefinitionWrites:     counterDefinitionWrites,
		CounterDefinitionCache:      counterDefinitionCache,
		CounterTargetingComputed:    counterTargetingComputed,
		CounterValidationRejections: counterValidationRejections,
		CounterWorkoutEntries:       counterWorkoutEntries,
		GaugeRequests:               gaugeRequests,
		GaugeLifeSignal:             gaugeLifeSignal,
		HistogramRequestDuration:    histogramRequestDuration,
	}
}
