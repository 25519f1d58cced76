package club_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/database"
	"github.com/gclub/matchpoint/internal/points"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := club.New(db)
	teardown := func() {
		dbTeardown()
	}

	return store, db, teardown
}

func seedPlayers(t *testing.T, store club.ClubStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := store.UpsertPlayer(club.PlayerInfo{ID: id, Name: "Player " + id, IsActive: true, IsMember: true})
		require.NoError(t, err)
	}
}

func mustBook(t *testing.T, store club.ClubStore, date, slot string, players [4]string) *club.Match {
	t.Helper()
	m, err := store.InsertMatch(date, slot, players)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestUpsertAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2")

	assert.True(t, store.IsKnownPlayer("p1"))
	assert.False(t, store.IsKnownPlayer("p3"))

	allPlayers, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, allPlayers, 2)

	require.NoError(t, store.SetPlayerActive("p2", false))
	got, err := store.GetPlayers([]string{"p2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsActive)

	err = store.SetPlayerActive("ghost", false)
	assert.ErrorIs(t, err, club.ErrNotFound)
}

func TestInsertMatchCreatesRecords(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	assert.Equal(t, club.StatusScheduled, m.Status)
	assert.Equal(t, 1, m.TeamOf("p2"))
	assert.Equal(t, 2, m.TeamOf("p3"))

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM player_match_records WHERE match_id = ?", m.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	rec, err := store.GetPlayerMatchRecord(m.ID, "p4")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TeamNo)
	assert.Nil(t, rec.IsWinner)
	assert.Nil(t, rec.MatchTotalPoints)
}

func TestInsertMatchRejectsBusyPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4", "p5", "p6", "p7")
	mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	_, err := store.InsertMatch("2026-03-07", "08:30", [4]string{"p4", "p5", "p6", "p7"})
	require.Error(t, err)
	assert.True(t, club.IsConflict(err))

	var ce *club.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"p4"}, ce.PlayerIDs)

	// Same players in a different slot is fine.
	mustBook(t, store, "2026-03-07", "09:00", [4]string{"p4", "p5", "p6", "p7"})
}

func TestCancelledMatchReleasesSlot(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	require.NoError(t, store.CancelMatch(m.ID))

	busy, err := store.BusyPlayers("2026-03-07", "08:30")
	require.NoError(t, err)
	assert.Empty(t, busy)

	mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
}

func TestUpdateMatchOutcome(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	updated, err := store.UpdateMatchOutcome(m.ID, "8-0", 1, false, false)
	require.NoError(t, err)
	assert.Equal(t, club.StatusCompleted, updated.Status)
	assert.Equal(t, 1, updated.WinnerTeam)
	assert.True(t, updated.Win80)
	assert.False(t, updated.Win71)

	// Winners earn base 3 + margin 3, losers base 1.
	winRec, err := store.GetPlayerMatchRecord(m.ID, "p1")
	require.NoError(t, err)
	require.NotNil(t, winRec.IsWinner)
	assert.True(t, *winRec.IsWinner)
	require.NotNil(t, winRec.MatchTotalPoints)
	assert.Equal(t, 6, *winRec.MatchTotalPoints)

	loseRec, err := store.GetPlayerMatchRecord(m.ID, "p3")
	require.NoError(t, err)
	require.NotNil(t, loseRec.IsWinner)
	assert.False(t, *loseRec.IsWinner)
	require.NotNil(t, loseRec.MatchTotalPoints)
	assert.Equal(t, 1, *loseRec.MatchTotalPoints)
}

func TestUpdateMatchOutcomeIsReenterable(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	_, err := store.UpdateMatchOutcome(m.ID, "8-0", 1, false, false)
	require.NoError(t, err)

	// Correcting the score flips everything, including derived flags.
	updated, err := store.UpdateMatchOutcome(m.ID, "6-8", 2, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.WinnerTeam)
	assert.False(t, updated.Win80)

	rec, err := store.GetPlayerMatchRecord(m.ID, "p1")
	require.NoError(t, err)
	require.NotNil(t, rec.IsWinner)
	assert.False(t, *rec.IsWinner)
	assert.Equal(t, 1, *rec.MatchTotalPoints)
}

func TestUpdateMatchOutcomeRejectsCancelled(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	require.NoError(t, store.CancelMatch(m.ID))

	_, err := store.UpdateMatchOutcome(m.ID, "8-0", 1, false, false)
	require.Error(t, err)
	assert.True(t, club.IsValidation(err))
}

func TestCancelClearsOutcome(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	_, err := store.UpdateMatchOutcome(m.ID, "8-0", 1, false, false)
	require.NoError(t, err)

	require.NoError(t, store.CancelMatch(m.ID))

	got, err := store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, club.StatusCancelled, got.Status)
	assert.Empty(t, got.Score)
	assert.Zero(t, got.WinnerTeam)
	assert.False(t, got.Win80)

	rec, err := store.GetPlayerMatchRecord(m.ID, "p1")
	require.NoError(t, err)
	assert.Nil(t, rec.IsWinner)
	assert.Nil(t, rec.MatchTotalPoints)
}

func TestUpdatePlayerMatchFlag(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	rec, err := store.UpdatePlayerMatchFlag(m.ID, "p1", club.FlagDoublePoint, true)
	require.NoError(t, err)
	assert.True(t, rec.DoublePoint)

	_, err = store.UpdatePlayerMatchFlag(m.ID, "p1", "status", true)
	require.Error(t, err)
	assert.True(t, club.IsValidation(err))

	_, err = store.UpdatePlayerMatchFlag(m.ID, "outsider", club.FlagDoublePoint, true)
	assert.ErrorIs(t, err, club.ErrNotFound)
}

func TestFlagUpdateRecomputesCompletedTotal(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	_, err := store.UpdateMatchOutcome(m.ID, "8-6", 1, false, false)
	require.NoError(t, err)

	// Double point after completion doubles the winner base: 3 -> 6.
	rec, err := store.UpdatePlayerMatchFlag(m.ID, "p1", club.FlagDoublePoint, true)
	require.NoError(t, err)
	require.NotNil(t, rec.MatchTotalPoints)
	assert.Equal(t, 6, *rec.MatchTotalPoints)

	// Individual flags are a point each on top.
	rec, err = store.UpdatePlayerMatchFlag(m.ID, "p1", club.FlagNoFaultMiss, true)
	require.NoError(t, err)
	require.NotNil(t, rec.MatchTotalPoints)
	assert.Equal(t, 7, *rec.MatchTotalPoints)

	// Teammate totals are untouched.
	mate, err := store.GetPlayerMatchRecord(m.ID, "p2")
	require.NoError(t, err)
	require.NotNil(t, mate.MatchTotalPoints)
	assert.Equal(t, 3, *mate.MatchTotalPoints)
}

func TestDoublePointSameDayLock(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m1 := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	m2 := mustBook(t, store, "2026-03-07", "09:00", [4]string{"p1", "p2", "p3", "p4"})

	_, err := store.UpdatePlayerMatchFlag(m1.ID, "p1", club.FlagDoublePoint, true)
	require.NoError(t, err)

	_, err = store.UpdatePlayerMatchFlag(m2.ID, "p1", club.FlagDoublePoint, true)
	require.Error(t, err)
	assert.True(t, club.IsLocked(err))

	var le *club.LockedError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, m1.ID, le.MatchID)

	// Re-affirming on the match that holds the flag is allowed.
	_, err = store.UpdatePlayerMatchFlag(m1.ID, "p1", club.FlagDoublePoint, true)
	assert.NoError(t, err)

	// A different player is unaffected.
	_, err = store.UpdatePlayerMatchFlag(m2.ID, "p2", club.FlagDoublePoint, true)
	assert.NoError(t, err)
}

func TestDoublePointFortnightLock(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m1 := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	inside := mustBook(t, store, "2026-03-20", "08:30", [4]string{"p1", "p2", "p3", "p4"})  // +13
	outside := mustBook(t, store, "2026-03-21", "08:30", [4]string{"p1", "p2", "p3", "p4"}) // +14

	_, err := store.UpdatePlayerMatchFlag(m1.ID, "p1", club.FlagDoublePoint, true)
	require.NoError(t, err)

	_, err = store.UpdatePlayerMatchFlag(inside.ID, "p1", club.FlagDoublePoint, true)
	require.Error(t, err)
	assert.True(t, club.IsLocked(err))

	_, err = store.UpdatePlayerMatchFlag(outside.ID, "p1", club.FlagDoublePoint, true)
	assert.NoError(t, err)
}

func TestDoublePointLockReleases(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m1 := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	m2 := mustBook(t, store, "2026-03-10", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	_, err := store.UpdatePlayerMatchFlag(m1.ID, "p1", club.FlagDoublePoint, true)
	require.NoError(t, err)

	// Turning the flag off always succeeds and frees the window.
	_, err = store.UpdatePlayerMatchFlag(m1.ID, "p1", club.FlagDoublePoint, false)
	require.NoError(t, err)

	_, err = store.UpdatePlayerMatchFlag(m2.ID, "p1", club.FlagDoublePoint, true)
	assert.NoError(t, err)
}

func TestDoublePointIgnoresCancelledMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m1 := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	m2 := mustBook(t, store, "2026-03-10", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	_, err := store.UpdatePlayerMatchFlag(m1.ID, "p1", club.FlagDoublePoint, true)
	require.NoError(t, err)
	require.NoError(t, store.CancelMatch(m1.ID))

	_, err = store.UpdatePlayerMatchFlag(m2.ID, "p1", club.FlagDoublePoint, true)
	assert.NoError(t, err)
}

func TestRecordsForPlayerDayOrdering(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	mustBook(t, store, "2026-03-07", "09:30", [4]string{"p1", "p2", "p3", "p4"})
	mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	cancelled := mustBook(t, store, "2026-03-07", "10:00", [4]string{"p1", "p2", "p3", "p4"})
	require.NoError(t, store.CancelMatch(cancelled.ID))

	records, err := store.RecordsForPlayerDay("p1", "2026-03-07")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "08:30", records[0].Slot)
	assert.Equal(t, "09:30", records[1].Slot)
}

func TestPlayersForDay(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8")
	mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	mustBook(t, store, "2026-03-08", "08:30", [4]string{"p5", "p6", "p7", "p8"})

	players, err := store.PlayersForDay("2026-03-07")
	require.NoError(t, err)
	assert.Len(t, players, 4)
}

func TestLeaderboardMatchesAggregate(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")

	m1 := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	m2 := mustBook(t, store, "2026-03-07", "09:00", [4]string{"p1", "p2", "p3", "p4"})
	m3 := mustBook(t, store, "2026-03-08", "08:30", [4]string{"p1", "p3", "p2", "p4"})

	_, err := store.UpdatePlayerMatchFlag(m3.ID, "p1", club.FlagDoublePoint, true)
	require.NoError(t, err)

	_, err = store.UpdateMatchOutcome(m1.ID, "8-6", 1, false, false)
	require.NoError(t, err)
	_, err = store.UpdateMatchOutcome(m2.ID, "6-8", 2, false, false)
	require.NoError(t, err)
	_, err = store.UpdateMatchOutcome(m3.ID, "8-0", 1, false, false)
	require.NoError(t, err)

	board, err := store.QueryLeaderboardRange(nil, nil)
	require.NoError(t, err)
	require.Len(t, board, 4)

	byID := make(map[string]club.LeaderboardRow)
	for _, row := range board {
		byID[row.PlayerID] = row
	}

	// Cross-check p1 against the pure aggregation.
	records, err := store.RecordsForPlayerRange("p1", "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	var results []points.Result
	for _, r := range records {
		results = append(results, points.Result{
			Date:        r.Date,
			Won:         r.IsWinner != nil && *r.IsWinner,
			DoublePoint: r.DoublePoint,
			Points:      *r.MatchTotalPoints,
		})
	}
	want := points.Aggregate(results)

	p1 := byID["p1"]
	assert.Equal(t, want.TotalPoints, p1.TotalPoints)
	assert.Equal(t, want.Wins, p1.Wins)
	assert.Equal(t, want.Losses, p1.Losses)
	assert.Equal(t, want.DPWins, p1.DPWins)
	assert.Equal(t, want.MatchesPlayed, p1.MatchesPlayed)
	assert.Equal(t, want.WinPct, p1.WinPct)
	assert.Equal(t, 2, p1.Attendances)

	// Ranks are descending by total points starting at 1.
	assert.Equal(t, 1, board[0].Rank)
	assert.GreaterOrEqual(t, board[0].TotalPoints, board[1].TotalPoints)
}

func TestLeaderboardRangeFilters(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m1 := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	m2 := mustBook(t, store, "2026-04-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})
	_, err := store.UpdateMatchOutcome(m1.ID, "8-6", 1, false, false)
	require.NoError(t, err)
	_, err = store.UpdateMatchOutcome(m2.ID, "8-6", 1, false, false)
	require.NoError(t, err)

	start, end := "2026-04-01", "2026-04-30"
	board, err := store.QueryLeaderboardRange(&start, &end)
	require.NoError(t, err)
	require.Len(t, board, 4)
	for _, row := range board {
		assert.Equal(t, 1, row.MatchesPlayed)
	}
}

func TestQueryBonusPointsRange(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	_, err := store.UpdateMatchOutcome(m.ID, "8-0", 1, true, false)
	require.NoError(t, err)
	_, err = store.UpdatePlayerMatchFlag(m.ID, "p3", club.FlagNoFaultMiss, true)
	require.NoError(t, err)

	rows, err := store.QueryBonusPointsRange(nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byID := make(map[string]club.BonusPointsRow)
	for _, row := range rows {
		byID[row.PlayerID] = row
	}

	// Winner side carries the match bonuses: comeback 2 + 8-0 margin 3.
	assert.Equal(t, 1, byID["p1"].ComebackCount)
	assert.Equal(t, 1, byID["p1"].Win80Count)
	assert.Equal(t, 5, byID["p1"].TotalMissionPoints)

	// Losers only get their individual flags.
	assert.Equal(t, 0, byID["p3"].ComebackCount)
	assert.Equal(t, 1, byID["p3"].NoFaultCount)
	assert.Equal(t, 1, byID["p3"].TotalMissionPoints)
}

func TestClearMatch(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	seedPlayers(t, store, "p1", "p2", "p3", "p4")
	m := mustBook(t, store, "2026-03-07", "08:30", [4]string{"p1", "p2", "p3", "p4"})

	store.ClearMatch(m.ID)

	_, err := store.GetMatch(m.ID)
	assert.ErrorIs(t, err, club.ErrNotFound)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM player_match_records WHERE match_id = ?", m.ID).Scan(&count))
	assert.Zero(t, count)
}
