package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

// Metrics records pipeline outcomes as Prometheus series.
type Metrics struct {
	polls         *prometheus.CounterVec
	announcements *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

// New registers the pipeline metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		polls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bomweather_polls_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"result"}),
		announcements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bomweather_announcements_total",
			Help: "Change events emitted by category.",
		}, []string{"category"}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomweather_last_success_timestamp_seconds",
			Help: "Unix time of the last run that classified an observation.",
		}),
	}
}

func (m *Metrics) ObservePoll(r weather.PollResult) {
	m.polls.WithLabelValues(string(r)).Inc()
	if r == weather.PollChanged || r == weather.PollUnchanged {
		m.lastSuccess.SetToCurrentTime()
	}
}

func (m *Metrics) ObserveAnnouncement(cat weather.Category) {
	m.announcements.WithLabelValues(cat.Label()).Inc()
}
