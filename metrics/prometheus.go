package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// PrometheusSink records dispatch outcomes.
type PrometheusSink struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration prometheus.Histogram
}

// NewPrometheusSink registers the dispatch collectors on reg. A collector that
// is already registered is reused; any other registration error is logged.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_dispatch_total",
			Help: "Total number of workflow dispatch calls by outcome and response status class.",
		}, []string{"outcome", "status_class"}),
		dispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "workflow_dispatch_duration_seconds",
			Help:    "Duration of workflow dispatch calls in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
	s.dispatchTotal = register(reg, s.dispatchTotal)
	s.dispatchDuration = register(reg, s.dispatchDuration)
	return s
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		logrus.WithError(err).Warn("metrics: failed to register collector")
	}
	return c
}

func (s *PrometheusSink) DispatchCompleted(outcome string, statusCode int, duration time.Duration) {
	s.dispatchTotal.WithLabelValues(outcome, StatusClass(statusCode)).Inc()
	s.dispatchDuration.Observe(duration.Seconds())
}
