// Package dpwindow decides whether a player may place their double point on
// a given match. The rule is one double point per player per fortnight, and
// only one per day. The same rule is enforced again inside the store's
// transaction; this package exists so surfaces can give an answer before
// submitting, and so the rule itself stays testable without a database.
package dpwindow

import "github.com/gclub/matchpoint/internal/club"

// WindowDays is how many days before and after a double-point match the flag
// stays locked for that player.
const WindowDays = 13

// Decision is the outcome of a window check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`

	// Where the window is anchored when the check fails.
	HeldMatchID string `json:"held_match_id,omitempty"`
	HeldDate    string `json:"held_date,omitempty"`
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason, matchID, date string) Decision {
	return Decision{Reason: reason, HeldMatchID: matchID, HeldDate: date}
}

// Evaluate checks a player's existing double-point records against a target
// (date, match). Records outside the window around targetDate are ignored, so
// callers may pass the player's full double-point history. Re-affirming the
// flag on the match that already holds it is always allowed.
func Evaluate(records []club.PlayerMatchRecord, targetDate, targetMatchID string) Decision {
	lo := club.AddDays(targetDate, -WindowDays)
	hi := club.AddDays(targetDate, WindowDays)

	for _, rec := range records {
		if rec.MatchID == targetMatchID {
			continue
		}
		if rec.Date < lo || rec.Date > hi {
			continue
		}
		if rec.Date == targetDate {
			return deny("only one match per day may carry the double point flag", rec.MatchID, rec.Date)
		}
		return deny("double point already used within the 14-day period", rec.MatchID, rec.Date)
	}
	return allow()
}

// Guard answers window checks from stored records.
type Guard struct {
	store club.ClubStore
}

// NewGuard creates a guard backed by the given store.
func NewGuard(store club.ClubStore) *Guard {
	return &Guard{store: store}
}

// Check reports whether playerID may hold the double point on matchID at
// date. A clear is always allowed, so callers only consult the guard when
// turning the flag on.
func (g *Guard) Check(playerID, date, matchID string) (Decision, error) {
	records, err := g.store.DoublePointRecords(playerID,
		club.AddDays(date, -WindowDays), club.AddDays(date, WindowDays))
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(records, date, matchID), nil
}
