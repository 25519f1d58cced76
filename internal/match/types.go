package match

import (
	"github.com/gclub/matchpoint/internal/booking"
	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/dpwindow"
	"github.com/gclub/matchpoint/internal/metrics"
	"github.com/gclub/matchpoint/internal/notifier"
	"github.com/gclub/matchpoint/internal/pubsub"
)

// Service drives the match lifecycle: booking, completion, cancellation and
// per-player flags. It owns the fan-out to notifications and events so the
// HTTP handlers stay thin.
type Service struct {
	store    club.ClubStore
	booking  *booking.Service
	guard    *dpwindow.Guard
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
}

// New creates a new match Service.
func New(store club.ClubStore, notif notifier.Notifier, metr metrics.Metrics, ps pubsub.PubSubClient) *Service {
	return &Service{
		store:    store,
		booking:  booking.New(store),
		guard:    dpwindow.NewGuard(store),
		notifier: notif,
		metrics:  metr,
		pubsub:   ps,
	}
}
