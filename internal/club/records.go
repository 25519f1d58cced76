package club

import (
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/gclub/matchpoint/internal/points"
	"github.com/gclub/matchpoint/internal/score"
)

// dpWindowDays is how many days before and after a double-point match the
// flag stays locked for that player. 13 either side spans a fortnight.
const dpWindowDays = 13

// UpdatePlayerMatchFlag sets one manual flag on a player's record. Turning
// the double-point flag on is checked against the player's existing
// double-point usage inside the same transaction, so two racing requests
// cannot both claim the window. If the match is already completed the
// record's point total is recomputed before the updated record is returned.
func (s *store) UpdatePlayerMatchFlag(matchID, playerID, flag string, value bool) (*PlayerMatchRecord, error) {
	if !IsPlayerFlag(flag) {
		return nil, &ValidationError{Field: "flag", Reason: fmt.Sprintf("unknown flag %q", flag)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m, err := scanMatch(tx.QueryRow(matchSelect+" WHERE id = ?", matchID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if m.TeamOf(playerID) == 0 {
		return nil, fmt.Errorf("player %s in match %s: %w", playerID, matchID, ErrNotFound)
	}

	if flag == FlagDoublePoint && value {
		if err := checkDoublePointWindowTx(tx, playerID, m.Date, matchID); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(
		"UPDATE player_match_records SET "+flag+" = ? WHERE match_id = ? AND player_id = ?",
		boolToInt(value), matchID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", flag, err)
	}

	rec, err := scanRecord(tx.QueryRow(recordSelect+" WHERE match_id = ? AND player_id = ?", matchID, playerID))
	if err != nil {
		return nil, err
	}

	if m.Status == StatusCompleted {
		isWinner := rec.TeamNo == m.WinnerTeam
		flags := points.PlayerFlags{
			DoublePoint:  rec.DoublePoint,
			NoFaultMiss:  rec.NoFaultMiss,
			NoReturnMiss: rec.NoReturnMiss,
		}
		total := points.MatchPoints(isWinner, flags,
			points.MatchFlags{Comeback: m.Comeback, Tiebreak: m.Tiebreak},
			points.MarginBonus(m.Score, score.Team(m.WinnerTeam)))
		_, err = tx.Exec(
			"UPDATE player_match_records SET match_total_points = ? WHERE match_id = ? AND player_id = ?",
			total, matchID, playerID)
		if err != nil {
			return nil, fmt.Errorf("failed to recompute record total: %w", err)
		}
		rec.MatchTotalPoints = &total
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Debug("Updated player match flag", "matchID", matchID, "playerID", playerID, "flag", flag, "value", value)
	return rec, nil
}

// checkDoublePointWindowTx enforces one double point per player per
// fortnight. Re-affirming the flag on the match that already holds it is
// allowed; any other use on the same day, or within dpWindowDays either side,
// locks the flag. Cancelled matches release their claim.
func checkDoublePointWindowTx(tx *sql.Tx, playerID, date, matchID string) error {
	rows, err := tx.Query(`
		SELECT r.match_id, r.match_date
		FROM player_match_records r
		JOIN matches m ON m.id = r.match_id
		WHERE r.player_id = ? AND r.double_point_flag = 1
			AND m.status != ?
			AND r.match_date BETWEEN ? AND ?
	`, playerID, StatusCancelled, AddDays(date, -dpWindowDays), AddDays(date, dpWindowDays))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var heldMatch, heldDate string
		if err := rows.Scan(&heldMatch, &heldDate); err != nil {
			return err
		}
		if heldMatch == matchID {
			continue
		}
		if heldDate == date {
			return &LockedError{
				PlayerID: playerID,
				MatchID:  heldMatch,
				Reason:   "only one match per day may carry the double point flag",
			}
		}
		return &LockedError{
			PlayerID: playerID,
			MatchID:  heldMatch,
			Reason:   "double point already used within the 14-day period",
		}
	}
	return rows.Err()
}

const recordSelect = `
	SELECT match_id, player_id, match_date, match_time, team_no,
		is_winner, double_point_flag, no_fault_miss_flag, no_return_miss_flag,
		match_total_points
	FROM player_match_records`

func (s *store) GetPlayerMatchRecord(matchID, playerID string) (*PlayerMatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := scanRecord(s.db.QueryRow(recordSelect+" WHERE match_id = ? AND player_id = ?", matchID, playerID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %s/%s: %w", matchID, playerID, ErrNotFound)
	}
	return rec, err
}

// RecordsForPlayerDay returns a player's records for one day in slot order,
// cancelled matches excluded.
func (s *store) RecordsForPlayerDay(playerID, date string) ([]PlayerMatchRecord, error) {
	return s.queryRecords(`
		SELECT r.match_id, r.player_id, r.match_date, r.match_time, r.team_no,
			r.is_winner, r.double_point_flag, r.no_fault_miss_flag, r.no_return_miss_flag,
			r.match_total_points
		FROM player_match_records r
		JOIN matches m ON m.id = r.match_id
		WHERE r.player_id = ? AND r.match_date = ? AND m.status != ?
		ORDER BY r.match_time, r.match_id
	`, playerID, date, StatusCancelled)
}

// RecordsForPlayerRange returns a player's completed-match records over an
// inclusive date range, oldest first.
func (s *store) RecordsForPlayerRange(playerID, startDate, endDate string) ([]PlayerMatchRecord, error) {
	return s.queryRecords(`
		SELECT r.match_id, r.player_id, r.match_date, r.match_time, r.team_no,
			r.is_winner, r.double_point_flag, r.no_fault_miss_flag, r.no_return_miss_flag,
			r.match_total_points
		FROM player_match_records r
		JOIN matches m ON m.id = r.match_id
		WHERE r.player_id = ? AND r.match_date >= ? AND r.match_date <= ? AND m.status = ?
		ORDER BY r.match_date, r.match_time, r.match_id
	`, playerID, startDate, endDate, StatusCompleted)
}

// DoublePointRecords returns a player's double-point records in a range,
// cancelled matches excluded. Used to surface where the fortnight window is
// currently anchored.
func (s *store) DoublePointRecords(playerID, startDate, endDate string) ([]PlayerMatchRecord, error) {
	return s.queryRecords(`
		SELECT r.match_id, r.player_id, r.match_date, r.match_time, r.team_no,
			r.is_winner, r.double_point_flag, r.no_fault_miss_flag, r.no_return_miss_flag,
			r.match_total_points
		FROM player_match_records r
		JOIN matches m ON m.id = r.match_id
		WHERE r.player_id = ? AND r.double_point_flag = 1
			AND r.match_date >= ? AND r.match_date <= ? AND m.status != ?
		ORDER BY r.match_date, r.match_time
	`, playerID, startDate, endDate, StatusCancelled)
}

func (s *store) queryRecords(query string, args ...any) ([]PlayerMatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PlayerMatchRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// PlayersForDay returns everyone with a non-cancelled match on date, sorted
// by name. This backs the day view's player picker.
func (s *store) PlayersForDay(date string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT DISTINCT p.id, p.name, p.is_active, p.is_member
		FROM players p
		JOIN player_match_records r ON r.player_id = p.id
		JOIN matches m ON m.id = r.match_id
		WHERE r.match_date = ? AND m.status != ?
		ORDER BY p.name
	`, date, StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// QueryLeaderboardRange aggregates completed matches into ranked standings.
// A nil bound leaves that side of the range open. Attendance points, win
// percentage and ranks are computed here so every surface shows the same
// numbers.
func (s *store) QueryLeaderboardRange(startDate, endDate *string) ([]LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.id, p.name,
			COUNT(*),
			COUNT(DISTINCT r.match_date),
			SUM(CASE WHEN r.is_winner = 1 AND r.double_point_flag = 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN r.is_winner = 0 AND r.double_point_flag = 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN r.is_winner = 1 AND r.double_point_flag = 1 THEN 1 ELSE 0 END),
			SUM(CASE WHEN r.is_winner = 0 AND r.double_point_flag = 1 THEN 1 ELSE 0 END),
			COALESCE(SUM(r.match_total_points), 0)
		FROM players p
		JOIN player_match_records r ON r.player_id = p.id
		JOIN matches m ON m.id = r.match_id
		WHERE m.status = ?
			AND (? IS NULL OR r.match_date >= ?)
			AND (? IS NULL OR r.match_date <= ?)
		GROUP BY p.id, p.name
	`, StatusCompleted, startDate, startDate, endDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		var name sql.NullString
		err := rows.Scan(&row.PlayerID, &name,
			&row.MatchesPlayed, &row.Attendances,
			&row.Wins, &row.Losses, &row.DPWins, &row.DPLosses,
			&row.MatchPoints)
		if err != nil {
			return nil, err
		}
		row.PlayerName = name.String
		row.TotalPoints = row.MatchPoints + points.AttendancePerDay*row.Attendances
		if row.MatchesPlayed > 0 {
			row.WinPct = int(math.Round(100 * float64(row.Wins+row.DPWins) / float64(row.MatchesPlayed)))
		}
		board = append(board, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].TotalPoints != board[j].TotalPoints {
			return board[i].TotalPoints > board[j].TotalPoints
		}
		return board[i].PlayerName < board[j].PlayerName
	})
	for i := range board {
		if i > 0 && board[i].TotalPoints == board[i-1].TotalPoints {
			board[i].Rank = board[i-1].Rank
		} else {
			board[i].Rank = i + 1
		}
	}
	return board, nil
}

// QueryBonusPointsRange counts each player's earned bonuses over a range.
// Match-level bonuses only count for the winning side.
func (s *store) QueryBonusPointsRange(startDate, endDate *string) ([]BonusPointsRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.id, p.name,
			SUM(CASE WHEN r.is_winner = 1 AND m.comeback_flag = 1 THEN 1 ELSE 0 END),
			SUM(CASE WHEN r.is_winner = 1 AND m.tiebreak_flag = 1 THEN 1 ELSE 0 END),
			SUM(CASE WHEN r.is_winner = 1 AND m.win_8_0_flag = 1 THEN 1 ELSE 0 END),
			SUM(CASE WHEN r.is_winner = 1 AND m.win_7_1_flag = 1 THEN 1 ELSE 0 END),
			SUM(CASE WHEN r.is_winner = 1 AND m.win_6_2_flag = 1 THEN 1 ELSE 0 END),
			SUM(r.no_fault_miss_flag),
			SUM(r.no_return_miss_flag)
		FROM players p
		JOIN player_match_records r ON r.player_id = p.id
		JOIN matches m ON m.id = r.match_id
		WHERE m.status = ?
			AND (? IS NULL OR r.match_date >= ?)
			AND (? IS NULL OR r.match_date <= ?)
		GROUP BY p.id, p.name
	`, StatusCompleted, startDate, startDate, endDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BonusPointsRow
	for rows.Next() {
		var row BonusPointsRow
		var name sql.NullString
		err := rows.Scan(&row.PlayerID, &name,
			&row.ComebackCount, &row.TiebreakCount,
			&row.Win80Count, &row.Win71Count, &row.Win62Count,
			&row.NoFaultCount, &row.NoReturnCount)
		if err != nil {
			return nil, err
		}
		row.PlayerName = name.String
		row.TotalMissionPoints = points.ComebackBonus*row.ComebackCount +
			points.TiebreakBonus*row.TiebreakCount +
			points.Win80Bonus*row.Win80Count +
			points.Win71Bonus*row.Win71Count +
			points.Win62Bonus*row.Win62Count +
			points.NoFaultMissBonus*row.NoFaultCount +
			points.NoReturnBonus*row.NoReturnCount
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalMissionPoints != result[j].TotalMissionPoints {
			return result[i].TotalMissionPoints > result[j].TotalMissionPoints
		}
		return result[i].PlayerName < result[j].PlayerName
	})
	return result, nil
}

func scanRecord(sc scanner) (*PlayerMatchRecord, error) {
	var rec PlayerMatchRecord
	var isWinner sql.NullInt64
	var total sql.NullInt64
	var dp, nf, nr int

	err := sc.Scan(
		&rec.MatchID, &rec.PlayerID, &rec.Date, &rec.Slot, &rec.TeamNo,
		&isWinner, &dp, &nf, &nr, &total,
	)
	if err != nil {
		return nil, err
	}

	if isWinner.Valid {
		w := isWinner.Int64 == 1
		rec.IsWinner = &w
	}
	rec.DoublePoint = dp == 1
	rec.NoFaultMiss = nf == 1
	rec.NoReturnMiss = nr == 1
	if total.Valid {
		t := int(total.Int64)
		rec.MatchTotalPoints = &t
	}
	return &rec, nil
}
