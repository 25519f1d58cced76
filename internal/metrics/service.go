package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesBooked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_matches_booked_total",
			Help: "The total number of matches booked.",
		}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_booking_conflicts_total",
			Help: "The total number of bookings rejected because a player was already committed.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_matches_completed_total",
			Help: "The total number of matches completed with a score.",
		}),
		MatchesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_matches_cancelled_total",
			Help: "The total number of matches cancelled.",
		}),
		FlagUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_flag_updates_total",
			Help: "The total number of accepted player flag updates.",
		}),
		FlagUpdatesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_flag_updates_rejected_total",
			Help: "The total number of flag updates rejected by the double point window.",
		}),
		CompletionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gclub_match_completion_duration_seconds",
			Help:    "The duration of match completion processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gclub_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gclub_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesBooked,
		s.BookingConflicts,
		s.MatchesCompleted,
		s.MatchesCancelled,
		s.FlagUpdates,
		s.FlagUpdatesRejected,
		s.CompletionDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesBooked() {
	s.MatchesBooked.Inc()
}

func (s *Service) IncBookingConflicts() {
	s.BookingConflicts.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncMatchesCancelled() {
	s.MatchesCancelled.Inc()
}

func (s *Service) IncFlagUpdates() {
	s.FlagUpdates.Inc()
}

func (s *Service) IncFlagUpdatesRejected() {
	s.FlagUpdatesRejected.Inc()
}

func (s *Service) ObserveCompletionDuration(duration float64) {
	s.CompletionDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
