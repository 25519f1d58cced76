package http

import (
	"net/http"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/config"
	"github.com/gclub/matchpoint/internal/match"
	"github.com/gclub/matchpoint/internal/metrics"
	"github.com/gclub/matchpoint/internal/notifier"
)

func NewServer(store club.ClubStore, matches *match.Service, metricsSvc metrics.Metrics, metricsStore metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Store:          store,
		Matches:        matches,
		Metrics:        metricsSvc,
		MetricsStore:   metricsStore,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/metrics/store", Chain(s.StoredMetricsHandler(), paramsMiddleware))
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/day", Chain(s.PlayersForDayHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/complete", Chain(s.CompleteMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches/cancel", Chain(s.CancelMatchHandler(), paramsMiddleware))
	s.Router.Handle("/busy", Chain(s.BusyPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/records", Chain(s.RecordsHandler(), paramsMiddleware))
	s.Router.Handle("/records/flag", Chain(s.FlagHandler(), paramsMiddleware))
	s.Router.Handle("/records/flag/check", Chain(s.FlagCheckHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard/points", Chain(s.BonusPointsHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard/post", Chain(s.PostLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
