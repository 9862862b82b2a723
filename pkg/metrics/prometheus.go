package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	StatusTransitions *prometheus.CounterVec
	ToggleRejections  *prometheus.CounterVec
	ToggleDuration    *prometheus.HistogramVec
	WorkerReleases    prometheus.Counter
	PublishErrors     prometheus.Counter
	ScheduleUpserts   prometheus.Counter
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_status_transitions_total",
			Help:      "Flight status changes applied by the state machine",
		}, []string{"from", "to"}),
		ToggleRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_toggle_rejections_total",
			Help:      "Assignment toggles refused because of the flight status",
		}, []string{"kind"}),
		ToggleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assignment_toggle_duration_seconds",
			Help:      "Time spent in the assignment toggle transaction",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		WorkerReleases: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_releases_total",
			Help:      "Workers detached from their stations after deactivation or deletion",
		}),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Status notifications that could not be published",
		}),
		ScheduleUpserts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_upserts_total",
			Help:      "Flights inserted or refreshed from the schedule feed",
		}),
	}
}

func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveRejection(kind string) {
	if m == nil {
		return
	}
	m.ToggleRejections.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveToggle(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.ToggleDuration.WithLabelValues(kind).Observe(seconds)
}

func (m *Metrics) IncWorkerReleases() {
	if m == nil {
		return
	}
	m.WorkerReleases.Inc()
}

func (m *Metrics) IncPublishErrors() {
	if m == nil {
		return
	}
	m.PublishErrors.Inc()
}

func (m *Metrics) IncScheduleUpserts() {
	if m == nil {
		return
	}
	m.ScheduleUpserts.Inc()
}
