package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeCreated       = "created"
	OutcomeAlreadyExists = "already_exists"
	OutcomeFound         = "found"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
)

type Metrics struct {
	Saves          *prometheus.CounterVec
	Fetches        *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
	SaveDuration   prometheus.Histogram
	EventsFailures prometheus.Counter
}

// New registers the person metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pidstore_person_saves_total",
			Help: "Total number of save requests by outcome",
		}, []string{"outcome"}),
		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pidstore_person_fetches_total",
			Help: "Total number of fetch requests by outcome",
		}, []string{"outcome"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pidstore_person_cache_lookups_total",
			Help: "Person cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		SaveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pidstore_person_save_duration_seconds",
			Help:    "Duration of the save transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		EventsFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "pidstore_person_event_publish_failures_total",
			Help: "Person events that could not be handed to the broker",
		}),
	}
}

func (m *Metrics) IncSave(outcome string) {
	m.Saves.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncFetch(outcome string) {
	m.Fetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSave(start time.Time) {
	m.SaveDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncEventFailure() {
	m.EventsFailures.Inc()
}
