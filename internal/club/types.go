package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
)

// Slots are the fixed start times a match can be booked into on a given day.
// The day view labels them Game 1-4.
var Slots = []string{"08:30", "09:00", "09:30", "10:00"}

var slotLabels = map[string]string{
	"08:30": "Game 1",
	"09:00": "Game 2",
	"09:30": "Game 3",
	"10:00": "Game 4",
}

// IsValidSlot reports whether t is one of the bookable start times.
func IsValidSlot(t string) bool {
	_, ok := slotLabels[t]
	return ok
}

// SlotLabel returns the "Game N" label for a slot, or "" for an unknown one.
func SlotLabel(t string) string {
	return slotLabels[t]
}

// PlayerInfo represents a club player. Players are never deleted; retiring
// members are deactivated instead so match history keeps resolving names.
type PlayerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	IsMember bool   `json:"is_member"`
}

// Match is one doubles match in a (date, slot) pair. Score and WinnerTeam are
// set only while Status is completed.
type Match struct {
	ID        string      `json:"id"`
	Date      string      `json:"match_date"` // YYYY-MM-DD
	Slot      string      `json:"match_time"` // HH:MM
	Status    MatchStatus `json:"status"`
	CreatedAt int64       `json:"created_at"`

	Team1Player1 string `json:"team1_player1_id"`
	Team1Player2 string `json:"team1_player2_id"`
	Team2Player1 string `json:"team2_player1_id"`
	Team2Player2 string `json:"team2_player2_id"`

	Score      string `json:"score,omitempty"`
	WinnerTeam int    `json:"winner_team,omitempty"` // 1 or 2, 0 while not completed

	// Match-level bonus flags. Comeback and Tiebreak are declared at
	// completion; the margin flags are derived from the score.
	Comeback bool `json:"comeback_flag"`
	Tiebreak bool `json:"tiebreak_flag"`
	Win80    bool `json:"win_8_0_flag"`
	Win71    bool `json:"win_7_1_flag"`
	Win62    bool `json:"win_6_2_flag"`
}

// Players returns the four player slots in team order.
func (m *Match) Players() [4]string {
	return [4]string{m.Team1Player1, m.Team1Player2, m.Team2Player1, m.Team2Player2}
}

// TeamOf returns 1 or 2 for a participant, 0 for anyone else.
func (m *Match) TeamOf(playerID string) int {
	switch playerID {
	case m.Team1Player1, m.Team1Player2:
		return 1
	case m.Team2Player1, m.Team2Player2:
		return 2
	}
	return 0
}

// Per-player flag column names accepted by UpdatePlayerMatchFlag.
const (
	FlagDoublePoint  = "double_point_flag"
	FlagNoFaultMiss  = "no_fault_miss_flag"
	FlagNoReturnMiss = "no_return_miss_flag"
)

// IsPlayerFlag reports whether name is a settable per-player flag column.
func IsPlayerFlag(name string) bool {
	switch name {
	case FlagDoublePoint, FlagNoFaultMiss, FlagNoReturnMiss:
		return true
	}
	return false
}

// PlayerMatchRecord is one player's row for one match: team membership,
// outcome, manual flags and the computed point total. Exactly four exist per
// match. MatchTotalPoints is non-nil only once the match is completed.
type PlayerMatchRecord struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	Date     string `json:"match_date"`
	Slot     string `json:"match_time"`
	TeamNo   int    `json:"team_no"`

	IsWinner *bool `json:"is_winner"`

	DoublePoint  bool `json:"double_point_flag"`
	NoFaultMiss  bool `json:"no_fault_miss_flag"`
	NoReturnMiss bool `json:"no_return_miss_flag"`

	MatchTotalPoints *int `json:"match_total_points"`
}

// MatchFilter narrows ListMatches. Zero values mean "no constraint".
type MatchFilter struct {
	Date            string
	Slot            string
	StatusExcluding MatchStatus
}

// LeaderboardRow is one ranked row of the range leaderboard. TotalPoints
// already includes attendance points (2 per day attended).
type LeaderboardRow struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	Attendances int `json:"total_attendances"`

	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	DPWins   int `json:"double_point_wins"`
	DPLosses int `json:"double_point_losses"`

	MatchesPlayed int `json:"matches_played"`
	WinPct        int `json:"win_pct"`

	MatchPoints int `json:"match_points"`
	TotalPoints int `json:"total_points"`

	Rank int `json:"rank"`
}

// BonusPointsRow counts each bonus a player earned in a range, plus the
// mission points those bonuses are worth.
type BonusPointsRow struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	ComebackCount      int `json:"comeback_mission_count"`
	TiebreakCount      int `json:"tiebreak_wins_count"`
	NoFaultCount       int `json:"no_double_fault_games_count"`
	NoReturnCount      int `json:"no_return_miss_games_count"`
	Win80Count         int `json:"win_8_0_count"`
	Win71Count         int `json:"win_7_1_count"`
	Win62Count         int `json:"win_6_2_count"`
	TotalMissionPoints int `json:"total_mission_points"`
}
