package http

import (
	"net/http"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/config"
	"github.com/gclub/matchpoint/internal/match"
	"github.com/gclub/matchpoint/internal/metrics"
	"github.com/gclub/matchpoint/internal/notifier"
)

type Server struct {
	Store          club.ClubStore
	Matches        *match.Service
	Metrics        metrics.Metrics
	MetricsStore   metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
