package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/gclub/matchpoint/internal/club"
)

// writeJSON encodes v as the response body. Errors are logged only; the
// status line has already been sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps domain errors onto status codes: validation is the
// caller's fault, conflicts and locks are state the caller can refresh,
// anything unknown is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case club.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case club.IsConflict(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "conflict"})
	case club.IsLocked(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "locked"})
	case errors.Is(err, club.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	default:
		log.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) StoredMetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.MetricsStore.GetAll()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
		}
	}
}

func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			players, err := s.Store.GetAllPlayers()
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, players)

		case http.MethodPost:
			var player club.PlayerInfo
			if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
				writeError(w, &club.ValidationError{Field: "body", Reason: "malformed JSON"})
				return
			}
			if player.ID == "" {
				writeError(w, &club.ValidationError{Field: "id", Reason: "player id is required"})
				return
			}
			if err := s.Store.UpsertPlayer(player); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, player)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) PlayersForDayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = club.Today()
		}
		if !club.IsValidDate(date) {
			writeError(w, &club.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"})
			return
		}
		players, err := s.Store.PlayersForDay(date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

type bookMatchRequest struct {
	Date    string    `json:"match_date"`
	Slot    string    `json:"match_time"`
	Players [4]string `json:"player_ids"`
}

func (s *Server) MatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			filter := club.MatchFilter{
				Date: r.URL.Query().Get("date"),
				Slot: r.URL.Query().Get("slot"),
			}
			if r.URL.Query().Get("include_cancelled") != "true" {
				filter.StatusExcluding = club.StatusCancelled
			}
			matches, err := s.Store.ListMatches(filter)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, matches)

		case http.MethodPost:
			var req bookMatchRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, &club.ValidationError{Field: "body", Reason: "malformed JSON"})
				return
			}
			m, err := s.Matches.Book(req.Date, req.Slot, req.Players, isDryRunFromContext(r))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, m)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type completeMatchRequest struct {
	MatchID    string `json:"match_id"`
	Score      string `json:"score"`
	WinnerTeam int    `json:"winner_team"`
	Comeback   bool   `json:"comeback_flag"`
	Tiebreak   bool   `json:"tiebreak_flag"`
}

func (s *Server) CompleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req completeMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &club.ValidationError{Field: "body", Reason: "malformed JSON"})
			return
		}
		m, err := s.Matches.Complete(req.MatchID, req.Score, req.WinnerTeam, req.Comeback, req.Tiebreak, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			MatchID string `json:"match_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &club.ValidationError{Field: "body", Reason: "malformed JSON"})
			return
		}
		if err := s.Matches.Cancel(req.MatchID, isDryRunFromContext(r)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Cancelled match %s", req.MatchID)
	}
}

func (s *Server) BusyPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		slot := r.URL.Query().Get("slot")
		if !club.IsValidDate(date) {
			writeError(w, &club.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"})
			return
		}
		if !club.IsValidSlot(slot) {
			writeError(w, &club.ValidationError{Field: "slot", Reason: "unknown slot"})
			return
		}
		busy, err := s.Store.BusyPlayers(date, slot)
		if err != nil {
			writeError(w, err)
			return
		}
		ids := make([]string, 0, len(busy))
		for id := range busy {
			ids = append(ids, id)
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": date, "slot": slot, "busy": ids})
	}
}

func (s *Server) RecordsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerID")
		if playerID == "" {
			writeError(w, &club.ValidationError{Field: "playerID", Reason: "player id is required"})
			return
		}

		start := r.URL.Query().Get("start")
		end := r.URL.Query().Get("end")
		if start != "" || end != "" {
			if !club.IsValidDate(start) || !club.IsValidDate(end) {
				writeError(w, &club.ValidationError{Field: "range", Reason: "start and end must both be YYYY-MM-DD"})
				return
			}
			records, err := s.Store.RecordsForPlayerRange(playerID, start, end)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, records)
			return
		}

		date := r.URL.Query().Get("date")
		if date == "" {
			date = club.Today()
		}
		if !club.IsValidDate(date) {
			writeError(w, &club.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"})
			return
		}
		records, err := s.Store.RecordsForPlayerDay(playerID, date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

type flagRequest struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	Flag     string `json:"flag"`
	Value    bool   `json:"value"`
}

func (s *Server) FlagHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req flagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &club.ValidationError{Field: "body", Reason: "malformed JSON"})
			return
		}
		rec, err := s.Matches.SetFlag(req.MatchID, req.PlayerID, req.Flag, req.Value, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) FlagCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		playerID := r.URL.Query().Get("playerID")
		if matchID == "" || playerID == "" {
			writeError(w, &club.ValidationError{Field: "query", Reason: "matchID and playerID are required"})
			return
		}
		decision, err := s.Matches.CheckFlag(matchID, playerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, decision)
	}
}

// rangeFromQuery reads optional start/end bounds. Nil means unbounded.
func rangeFromQuery(r *http.Request) (*string, *string, error) {
	var start, end *string
	if v := r.URL.Query().Get("start"); v != "" {
		if !club.IsValidDate(v) {
			return nil, nil, &club.ValidationError{Field: "start", Reason: "expected YYYY-MM-DD"}
		}
		start = &v
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if !club.IsValidDate(v) {
			return nil, nil, &club.ValidationError{Field: "end", Reason: "expected YYYY-MM-DD"}
		}
		end = &v
	}
	return start, end, nil
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := rangeFromQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		rows, err := s.Store.QueryLeaderboardRange(start, end)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (s *Server) BonusPointsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := rangeFromQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		rows, err := s.Store.QueryBonusPointsRange(start, end)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// respondWithSlackMsg writes a Slack message as the HTTP response body, the
// shape slash commands expect back.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Store.QueryLeaderboardRange(nil, nil)
		if err != nil {
			writeError(w, err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(rows)
		if err != nil {
			log.Error("Failed to format leaderboard", "error", err)
			writeError(w, err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			log.Error("Failed to cast message to slack.Message")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "invalid message format for Slack"})
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

func (s *Server) PostLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		start, end, err := rangeFromQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Matches.PostLeaderboard(start, end, isDryRunFromContext(r)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Leaderboard posted!")
	}
}
