package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterPlanCommits        prometheus.Counter
	CounterPlanWeightSyncs    prometheus.Counter
	CounterSessionsUpserted   prometheus.Counter
	CounterCoachPrompts       prometheus.Counter
	CounterCoachFallbacks     prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitflow", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitflow", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterPlanCommits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_commits",
		Help:      "The total number of committed day plan edits",
	})
	counterPlanWeightSyncs := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_weight_syncs",
		Help:      "The total number of cross-day weight propagations",
	})
	counterSessionsUpserted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_upserted",
		Help:      "The total number of workout session upserts",
	})
	counterCoachPrompts := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "coach_prompts",
		Help:      "The total number of prompts sent to the AI coach",
	})
	counterCoachFallbacks := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "coach_fallbacks",
		Help:      "The total number of canned fallback coach replies",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
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
		Help:      "Server life signal",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration",
		Help:      "Request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	return &Manager{
		CounterRequests:           counterRequests,
		CounterPlanCommits:        counterPlanCommits,
		CounterPlanWeightSyncs:    counterPlanWeightSyncs,
		CounterSessionsUpserted:   counterSessionsUpserted,
		CounterCoachPrompts:       counterCoachPrompts,
		CounterCoachFallbacks:     counterCoachFallbacks,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		GaugeRequests:             gaugeRequests,
		GaugeLifeSignal:           gaugeLifeSignal,
		HistogramRequestDuration:  histogramRequestDuration,
	}
}

// SetupPrometheus creates a registry with the go runtime and process
// collectors, plus any additional provided collectors (e.g. pgx pool stats).
func SetupPrometheus(additionalCollectors ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, c := range additionalCollectors {
		reg.MustRegister(c)
	}
	return reg
}
