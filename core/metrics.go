package core

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/elum-utils/cleen/models"
)

type metrics struct {
	analyses   *prometheus.CounterVec
	fallbacks  *prometheus.CounterVec
	softParses prometheus.Counter
	remote     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleen_analyses_total",
			Help: "Analyses completed, by the classifier that produced the result.",
		}, []string{"source"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleen_fallbacks_total",
			Help: "Analyses answered by the heuristic matcher, by fallback reason.",
		}, []string{"reason"}),
		softParses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cleen_soft_parses_total",
			Help: "Purify replies that were not JSON and were parsed as id lists.",
		}),
		remote: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cleen_remote_duration_seconds",
			Help:    "Wall time spent on the remote classifier, retries included.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		return m, nil
	}
	var errs [4]error
	m.analyses, errs[0] = register(reg, m.analyses)
	m.fallbacks, errs[1] = register(reg, m.fallbacks)
	m.softParses, errs[2] = register(reg, m.softParses)
	m.remote, errs[3] = register(reg, m.remote)
	return m, errors.Join(errs[:]...)
}

// register adds col to reg. When an identical collector is already registered,
// for example by another Core sharing reg, that collector is returned instead.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	err := reg.Register(col)
	if err == nil {
		return col, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return col, err
}

func (m *metrics) analysis(src models.Source) {
	m.analyses.WithLabelValues(string(src)).Inc()
}

func (m *metrics) fallback(reason models.FallbackReason) {
	m.fallbacks.WithLabelValues(string(reason)).Inc()
}

func (m *metrics) softParse() {
	m.softParses.Inc()
}

func (m *metrics) remoteDuration(d time.Duration) {
	m.remote.Observe(d.Seconds())
}
