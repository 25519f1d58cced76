package match

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/dpwindow"
	"github.com/gclub/matchpoint/internal/pubsub"
	"github.com/gclub/matchpoint/internal/score"
)

// Book validates and creates a match, then fans out the booking event and
// the Slack notification. dryRun suppresses the outward side effects only;
// the booking itself is real.
func (s *Service) Book(date, slot string, players [4]string, dryRun bool) (*club.Match, error) {
	m, err := s.booking.Create(date, slot, players)
	if err != nil {
		if club.IsConflict(err) {
			s.metrics.IncBookingConflicts()
		}
		return nil, err
	}
	s.metrics.IncMatchesBooked()

	if !dryRun {
		s.pubsub.SendMessage(pubsub.EventMatchBooked, matchEvent(m))
	}
	if err := s.notifier.SendBookingNotification(m, s.playerNames(m), dryRun); err != nil {
		log.Error("Failed to send booking notification", "error", err, "matchID", m.ID)
	}
	return m, nil
}

// Complete records a score for a match. The caller declares the winning
// team and the score text must agree with it. Completion can be repeated to
// correct a score.
func (s *Service) Complete(matchID, scoreText string, declaredWinner int, comeback, tiebreak bool, dryRun bool) (*club.Match, error) {
	startTime := time.Now()

	if declaredWinner != int(score.Team1) && declaredWinner != int(score.Team2) {
		return nil, &club.ValidationError{Field: "winner_team", Reason: "a winning team must be selected"}
	}
	winner := score.InferWinner(scoreText)
	if winner == score.TeamNone {
		return nil, &club.ValidationError{Field: "score", Reason: "score does not determine a winner"}
	}
	if declaredWinner != int(winner) {
		return nil, &club.ValidationError{Field: "winner_team", Reason: "declared winner does not match the score"}
	}

	m, err := s.store.UpdateMatchOutcome(matchID, score.Normalize(scoreText), int(winner), comeback, tiebreak)
	if err != nil {
		return nil, err
	}
	s.metrics.IncMatchesCompleted()
	s.metrics.ObserveCompletionDuration(time.Since(startTime).Seconds())

	if !dryRun {
		s.pubsub.SendMessage(pubsub.EventMatchCompleted, matchEvent(m))
	}
	if err := s.notifier.SendResultNotification(m, s.playerNames(m), dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err, "matchID", m.ID)
	}
	return m, nil
}

// Cancel takes a match out of play. Its slot and the players' double-point
// claims are released.
func (s *Service) Cancel(matchID string, dryRun bool) error {
	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if err := s.store.CancelMatch(matchID); err != nil {
		return err
	}
	s.metrics.IncMatchesCancelled()

	if !dryRun {
		m.Status = club.StatusCancelled
		s.pubsub.SendMessage(pubsub.EventMatchCancelled, matchEvent(m))
	}
	return nil
}

// SetFlag updates one player flag. A double-point grant is checked against
// the window guard first for a fast answer, then submitted; the store's
// in-transaction check remains the final authority under races.
func (s *Service) SetFlag(matchID, playerID, flag string, value bool, dryRun bool) (*club.PlayerMatchRecord, error) {
	if flag == club.FlagDoublePoint && value {
		m, err := s.store.GetMatch(matchID)
		if err != nil {
			return nil, err
		}
		decision, err := s.guard.Check(playerID, m.Date, matchID)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			s.metrics.IncFlagUpdatesRejected()
			return nil, &club.LockedError{PlayerID: playerID, MatchID: decision.HeldMatchID, Reason: decision.Reason}
		}
	}

	rec, err := s.store.UpdatePlayerMatchFlag(matchID, playerID, flag, value)
	if err != nil {
		if club.IsLocked(err) {
			s.metrics.IncFlagUpdatesRejected()
		}
		return nil, err
	}
	s.metrics.IncFlagUpdates()

	if !dryRun {
		s.pubsub.SendMessage(pubsub.EventFlagUpdated, pubsub.FlagEvent{
			MatchID:  matchID,
			PlayerID: playerID,
			Flag:     flag,
			Value:    value,
		})
	}
	return rec, nil
}

// CheckFlag answers whether a double-point grant would be accepted, without
// changing anything. Surfaces use it to grey out the toggle.
func (s *Service) CheckFlag(matchID, playerID string) (dpwindow.Decision, error) {
	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return dpwindow.Decision{}, err
	}
	return s.guard.Check(playerID, m.Date, matchID)
}

// PostLeaderboard sends the current standings for a range to Slack.
func (s *Service) PostLeaderboard(startDate, endDate *string, dryRun bool) error {
	rows, err := s.store.QueryLeaderboardRange(startDate, endDate)
	if err != nil {
		return err
	}
	return s.notifier.SendLeaderboard(rows, dryRun)
}

func (s *Service) playerNames(m *club.Match) map[string]string {
	ids := m.Players()
	players, err := s.store.GetPlayers(ids[:])
	if err != nil {
		log.Error("Failed to resolve player names", "error", err, "matchID", m.ID)
		return nil
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}

func matchEvent(m *club.Match) pubsub.MatchEvent {
	ids := m.Players()
	return pubsub.MatchEvent{
		MatchID:    m.ID,
		Date:       m.Date,
		Slot:       m.Slot,
		Status:     string(m.Status),
		PlayerIDs:  ids[:],
		Score:      m.Score,
		WinnerTeam: m.WinnerTeam,
	}
}
