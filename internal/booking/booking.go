// Package booking validates and creates match bookings. Validation runs
// twice on purpose: once here for a friendly answer, and once more inside
// the store's insert transaction, which is the final authority under
// concurrent submissions.
package booking

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gclub/matchpoint/internal/club"
)

// Service validates bookings against the store.
type Service struct {
	store club.ClubStore
}

// New creates a booking service.
func New(store club.ClubStore) *Service {
	return &Service{store: store}
}

// Validate checks a proposed booking without creating anything: the date and
// slot must be well formed, the four players known and distinct, and nobody
// already committed to another match in the same slot.
func (s *Service) Validate(date, slot string, players [4]string) error {
	if !club.IsValidDate(date) {
		return &club.ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", date)}
	}
	if !club.IsValidSlot(slot) {
		return &club.ValidationError{Field: "slot", Reason: fmt.Sprintf("%q is not a bookable start time", slot)}
	}

	seen := make(map[string]bool, 4)
	for _, id := range players {
		if id == "" {
			return &club.ValidationError{Field: "players", Reason: "all four player slots must be filled"}
		}
		if seen[id] {
			return &club.ValidationError{Field: "players", Reason: fmt.Sprintf("player %s appears more than once", id)}
		}
		seen[id] = true
		if !s.store.IsKnownPlayer(id) {
			return &club.ValidationError{Field: "players", Reason: fmt.Sprintf("unknown player %s", id)}
		}
	}

	busy, err := s.store.BusyPlayers(date, slot)
	if err != nil {
		return fmt.Errorf("failed to check busy players: %w", err)
	}
	var conflicts []string
	for _, id := range players {
		if busy[id] {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return &club.ConflictError{Date: date, Slot: slot, PlayerIDs: conflicts}
	}
	return nil
}

// Create validates and books a match. The store repeats the busy check in
// its own transaction, so a clean Validate here can still come back as a
// ConflictError when two requests race for the same slot.
func (s *Service) Create(date, slot string, players [4]string) (*club.Match, error) {
	if err := s.Validate(date, slot, players); err != nil {
		return nil, err
	}
	m, err := s.store.InsertMatch(date, slot, players)
	if err != nil {
		return nil, err
	}
	log.Info("Booked match", "matchID", m.ID, "date", date, "slot", slot)
	return m, nil
}
