package club

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gclub/matchpoint/internal/points"
	"github.com/gclub/matchpoint/internal/score"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

func (s *store) UpsertPlayer(player PlayerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO players (id, name, is_active, is_member)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_active = excluded.is_active,
			is_member = excluded.is_member;
	`, player.ID, player.Name, boolToInt(player.IsActive), boolToInt(player.IsMember))
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", player.ID, err)
	}
	return nil
}

func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, is_active, is_member FROM players ORDER BY is_active DESC, name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return nil, nil
	}

	query := "SELECT id, name, is_active, is_member FROM players WHERE id IN (?" +
		repeatParam(len(playerIDs)-1) + ")"
	rows, err := s.db.Query(query, toAnySlice(playerIDs)...)
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

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

func (s *store) SetPlayerActive(playerID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE players SET is_active = ? WHERE id = ?", boolToInt(active), playerID)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", playerID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	return nil
}

// InsertMatch creates a match and its four player records in one
// transaction. The busy-player check runs again inside the transaction as the
// final authority; callers are expected to have run booking validation
// already for interactive feedback.
func (s *store) InsertMatch(date, slot string, players [4]string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	busy, err := busyPlayersTx(tx, date, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check busy players: %w", err)
	}
	var conflicts []string
	for _, id := range players {
		if busy[id] {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Date: date, Slot: slot, PlayerIDs: conflicts}
	}

	m := &Match{
		ID:           uuid.NewString(),
		Date:         date,
		Slot:         slot,
		Status:       StatusScheduled,
		CreatedAt:    time.Now().Unix(),
		Team1Player1: players[0],
		Team1Player2: players[1],
		Team2Player1: players[2],
		Team2Player2: players[3],
	}

	_, err = tx.Exec(`
		INSERT INTO matches (id, match_date, match_time, status, created_at,
			team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Date, m.Slot, m.Status, m.CreatedAt,
		m.Team1Player1, m.Team1Player2, m.Team2Player1, m.Team2Player2)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	for i, playerID := range players {
		teamNo := 1
		if i >= 2 {
			teamNo = 2
		}
		_, err = tx.Exec(`
			INSERT INTO player_match_records (match_id, player_id, match_date, match_time, team_no)
			VALUES (?, ?, ?, ?, ?)
		`, m.ID, playerID, m.Date, m.Slot, teamNo)
		if err != nil {
			return nil, fmt.Errorf("failed to insert record for player %s: %w", playerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Created match", "matchID", m.ID, "date", date, "slot", slot)
	return m, nil
}

func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(matchSelect+" WHERE id = ?", matchID)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return m, err
}

const matchSelect = `
	SELECT id, match_date, match_time, status, created_at,
		team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id,
		score, winner_team, comeback_flag, tiebreak_flag,
		win_8_0_flag, win_7_1_flag, win_6_2_flag
	FROM matches`

func (s *store) ListMatches(filter MatchFilter) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := matchSelect + " WHERE 1=1"
	var args []any
	if filter.Date != "" {
		query += " AND match_date = ?"
		args = append(args, filter.Date)
	}
	if filter.Slot != "" {
		query += " AND match_time = ?"
		args = append(args, filter.Slot)
	}
	if filter.StatusExcluding != "" {
		query += " AND status != ?"
		args = append(args, filter.StatusExcluding)
	}
	query += " ORDER BY match_date, match_time, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// BusyPlayers returns the ids of every player already committed to a
// non-cancelled match at (date, slot).
func (s *store) BusyPlayers(date, slot string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return busyPlayersQuerier(s.db, date, slot)
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func busyPlayersTx(tx *sql.Tx, date, slot string) (map[string]bool, error) {
	return busyPlayersQuerier(tx, date, slot)
}

func busyPlayersQuerier(q querier, date, slot string) (map[string]bool, error) {
	rows, err := q.Query(`
		SELECT team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id
		FROM matches
		WHERE match_date = ? AND match_time = ? AND status != ?
	`, date, slot, StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	busy := make(map[string]bool)
	for rows.Next() {
		var p [4]string
		if err := rows.Scan(&p[0], &p[1], &p[2], &p[3]); err != nil {
			return nil, err
		}
		for _, id := range p {
			if id != "" {
				busy[id] = true
			}
		}
	}
	return busy, rows.Err()
}

// UpdateMatchOutcome completes a match: it stores the score and winner,
// derives the margin flags, and recomputes all four players' point totals in
// the same transaction. Callers must have verified the score/winner agreement
// first; completion is re-enterable so a completed score can be corrected.
func (s *store) UpdateMatchOutcome(matchID, scoreText string, winnerTeam int, comeback, tiebreak bool) (*Match, error) {
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
	if m.Status == StatusCancelled {
		return nil, &ValidationError{Field: "status", Reason: "cancelled matches cannot be completed"}
	}

	win80, win71, win62 := points.MarginFlags(scoreText, score.Team(winnerTeam))
	_, err = tx.Exec(`
		UPDATE matches
		SET status = ?, score = ?, winner_team = ?,
			comeback_flag = ?, tiebreak_flag = ?,
			win_8_0_flag = ?, win_7_1_flag = ?, win_6_2_flag = ?
		WHERE id = ?
	`, StatusCompleted, scoreText, winnerTeam,
		boolToInt(comeback), boolToInt(tiebreak),
		boolToInt(win80), boolToInt(win71), boolToInt(win62), matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to update match outcome: %w", err)
	}

	m.Status = StatusCompleted
	m.Score = scoreText
	m.WinnerTeam = winnerTeam
	m.Comeback = comeback
	m.Tiebreak = tiebreak
	m.Win80, m.Win71, m.Win62 = win80, win71, win62

	if err := recomputeRecordTotalsTx(tx, m); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Completed match", "matchID", matchID, "score", scoreText, "winner", winnerTeam)
	return m, nil
}

// recomputeRecordTotalsTx refreshes is_winner and match_total_points on all
// four records of a completed match.
func recomputeRecordTotalsTx(tx *sql.Tx, m *Match) error {
	rows, err := tx.Query(`
		SELECT player_id, team_no, double_point_flag, no_fault_miss_flag, no_return_miss_flag
		FROM player_match_records WHERE match_id = ?
	`, m.ID)
	if err != nil {
		return err
	}

	type recordState struct {
		playerID string
		teamNo   int
		flags    points.PlayerFlags
	}
	var states []recordState
	for rows.Next() {
		var st recordState
		var dp, nf, nr int
		if err := rows.Scan(&st.playerID, &st.teamNo, &dp, &nf, &nr); err != nil {
			rows.Close()
			return err
		}
		st.flags = points.PlayerFlags{DoublePoint: dp == 1, NoFaultMiss: nf == 1, NoReturnMiss: nr == 1}
		states = append(states, st)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	matchFlags := points.MatchFlags{Comeback: m.Comeback, Tiebreak: m.Tiebreak}
	margin := points.MarginBonus(m.Score, score.Team(m.WinnerTeam))

	for _, st := range states {
		isWinner := st.teamNo == m.WinnerTeam
		total := points.MatchPoints(isWinner, st.flags, matchFlags, margin)
		_, err := tx.Exec(`
			UPDATE player_match_records
			SET is_winner = ?, match_total_points = ?
			WHERE match_id = ? AND player_id = ?
		`, boolToInt(isWinner), total, m.ID, st.playerID)
		if err != nil {
			return fmt.Errorf("failed to update record total for player %s: %w", st.playerID, err)
		}
	}
	return nil
}

// CancelMatch removes a match from conflict checks and point computations
// without deleting it. Outcome fields are cleared so the "score set only when
// completed" invariant holds.
func (s *store) CancelMatch(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE matches
		SET status = ?, score = NULL, winner_team = NULL,
			win_8_0_flag = 0, win_7_1_flag = 0, win_6_2_flag = 0
		WHERE id = ?
	`, StatusCancelled, matchID)
	if err != nil {
		return fmt.Errorf("failed to cancel match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}

	_, err = tx.Exec(`
		UPDATE player_match_records
		SET is_winner = NULL, match_total_points = NULL
		WHERE match_id = ?
	`, matchID)
	if err != nil {
		return fmt.Errorf("failed to clear record totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Cancelled match", "matchID", matchID)
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"player_match_records", "matches", "players", "metrics"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing match", "error", err, "matchID", matchID)
		return
	}
	if _, err := tx.Exec("DELETE FROM player_match_records WHERE match_id = ?", matchID); err != nil {
		log.Error("Failed to clear match records", "error", err, "matchID", matchID)
		tx.Rollback()
		return
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
		tx.Rollback()
		return
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing match", "error", err, "matchID", matchID)
	}
}

// --- scan helpers ---

type scanner interface{ Scan(...any) error }

func scanPlayer(sc scanner) (PlayerInfo, error) {
	var p PlayerInfo
	var name sql.NullString
	var active, member int
	if err := sc.Scan(&p.ID, &name, &active, &member); err != nil {
		return PlayerInfo{}, err
	}
	p.Name = name.String
	p.IsActive = active == 1
	p.IsMember = member == 1
	return p, nil
}

func scanMatch(sc scanner) (*Match, error) {
	var m Match
	var scoreText sql.NullString
	var winnerTeam sql.NullInt64
	var comeback, tiebreak, w80, w71, w62 int

	err := sc.Scan(
		&m.ID, &m.Date, &m.Slot, &m.Status, &m.CreatedAt,
		&m.Team1Player1, &m.Team1Player2, &m.Team2Player1, &m.Team2Player2,
		&scoreText, &winnerTeam, &comeback, &tiebreak, &w80, &w71, &w62,
	)
	if err != nil {
		return nil, err
	}

	m.Score = scoreText.String
	m.WinnerTeam = int(winnerTeam.Int64)
	m.Comeback = comeback == 1
	m.Tiebreak = tiebreak == 1
	m.Win80 = w80 == 1
	m.Win71 = w71 == 1
	m.Win62 = w62 == 1
	return &m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func repeatParam(n int) string {
	var s string
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}

func toAnySlice(ids []string) []any {
	a := make([]any, len(ids))
	for i, v := range ids {
		a[i] = v
	}
	return a
}
