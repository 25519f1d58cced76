// Package points implements the club's scoring formulas: per-match point
// totals and per-player aggregates over a date range.
package points

import (
	"math"

	"github.com/gclub/matchpoint/internal/score"
)

// Point values. Double point doubles the base only, never the bonuses.
const (
	WinnerBase       = 3
	LoserBase        = 1
	ComebackBonus    = 2
	TiebreakBonus    = 2
	NoFaultMissBonus = 1
	NoReturnBonus    = 1
	AttendancePerDay = 2

	Win80Bonus = 3
	Win71Bonus = 2
	Win62Bonus = 1
)

// MatchFlags are the match-level bonus flags recorded at completion time.
// They apply to the winning side only.
type MatchFlags struct {
	Comeback bool
	Tiebreak bool
}

// PlayerFlags are the per-player flags on a single match record.
type PlayerFlags struct {
	DoublePoint  bool
	NoFaultMiss  bool
	NoReturnMiss bool
}

// MarginFlags reports which margin bonus a completed score earns the winner.
// The mapping covers the club's single pro-set format: exactly one decisive
// set, winner-first 8-0, 7-1 or 6-2. At most one flag is set.
func MarginFlags(raw string, winner score.Team) (win80, win71, win62 bool) {
	if winner == score.TeamNone {
		return false, false, false
	}

	var decisive []score.Set
	for _, s := range score.Sets(raw) {
		if !s.Tied() {
			decisive = append(decisive, s)
		}
	}
	if len(decisive) != 1 {
		return false, false, false
	}

	won, lost := decisive[0].Games1, decisive[0].Games2
	if winner == score.Team2 {
		won, lost = lost, won
	}

	switch {
	case won == 8 && lost == 0:
		return true, false, false
	case won == 7 && lost == 1:
		return false, true, false
	case won == 6 && lost == 2:
		return false, false, true
	}
	return false, false, false
}

// MarginBonus maps a completed score to the winner-only margin bonus:
// 8-0 earns +3, 7-1 earns +2, 6-2 earns +1, anything else 0.
func MarginBonus(raw string, winner score.Team) int {
	win80, win71, win62 := MarginFlags(raw, winner)
	switch {
	case win80:
		return Win80Bonus
	case win71:
		return Win71Bonus
	case win62:
		return Win62Bonus
	}
	return 0
}

// MatchPoints computes one player's point total for a completed match.
//
// Base is 3 for a winner, 1 for a loser; double point doubles the base only.
// Match-level bonuses (comeback, tiebreak, margin) go to winners; the
// individual flags are worth a point each regardless of the result.
func MatchPoints(isWinner bool, player PlayerFlags, match MatchFlags, marginBonus int) int {
	base := LoserBase
	if isWinner {
		base = WinnerBase
	}
	if player.DoublePoint {
		base *= 2
	}

	total := base
	if isWinner {
		if match.Comeback {
			total += ComebackBonus
		}
		if match.Tiebreak {
			total += TiebreakBonus
		}
		total += marginBonus
	}
	if player.NoFaultMiss {
		total += NoFaultMissBonus
	}
	if player.NoReturnMiss {
		total += NoReturnBonus
	}
	return total
}

// Result is one completed match of a player, as consumed by Aggregate.
type Result struct {
	Date        string // YYYY-MM-DD
	Won         bool
	DoublePoint bool
	Points      int // match_total_points for this player
}

// Totals is a player's aggregate over a date range.
type Totals struct {
	MatchPoints      int
	AttendanceDays   int
	AttendancePoints int
	TotalPoints      int

	Wins     int // excluding double-point matches
	Losses   int // excluding double-point matches
	DPWins   int
	DPLosses int

	MatchesPlayed int
	WinPct        int
}

// Aggregate folds a player's completed results into range totals. Attendance
// is 2 points per distinct date with at least one completed match; wins and
// losses are bucketed by the double-point flag so nothing is counted twice.
func Aggregate(results []Result) Totals {
	var t Totals
	days := make(map[string]bool)

	for _, r := range results {
		t.MatchPoints += r.Points
		days[r.Date] = true

		switch {
		case r.DoublePoint && r.Won:
			t.DPWins++
		case r.DoublePoint:
			t.DPLosses++
		case r.Won:
			t.Wins++
		default:
			t.Losses++
		}
	}

	t.AttendanceDays = len(days)
	t.AttendancePoints = AttendancePerDay * t.AttendanceDays
	t.TotalPoints = t.MatchPoints + t.AttendancePoints
	t.MatchesPlayed = t.Wins + t.Losses + t.DPWins + t.DPLosses
	if t.MatchesPlayed > 0 {
		t.WinPct = int(math.Round(100 * float64(t.Wins+t.DPWins) / float64(t.MatchesPlayed)))
	}
	return t
}
