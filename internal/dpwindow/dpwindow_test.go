package dpwindow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/dpwindow"
)

func dpRecord(matchID, date string) club.PlayerMatchRecord {
	return club.PlayerMatchRecord{
		MatchID:     matchID,
		PlayerID:    "p1",
		Date:        date,
		Slot:        "08:30",
		TeamNo:      1,
		DoublePoint: true,
	}
}

func TestEvaluateAllowsWithNoHistory(t *testing.T) {
	d := dpwindow.Evaluate(nil, "2026-03-07", "m1")
	assert.True(t, d.Allowed)
}

func TestEvaluateAllowsReaffirm(t *testing.T) {
	records := []club.PlayerMatchRecord{dpRecord("m1", "2026-03-07")}
	d := dpwindow.Evaluate(records, "2026-03-07", "m1")
	assert.True(t, d.Allowed)
}

func TestEvaluateDeniesSameDay(t *testing.T) {
	records := []club.PlayerMatchRecord{dpRecord("m1", "2026-03-07")}
	d := dpwindow.Evaluate(records, "2026-03-07", "m2")
	require.False(t, d.Allowed)
	assert.Equal(t, "m1", d.HeldMatchID)
	assert.Contains(t, d.Reason, "one match per day")
}

func TestEvaluateWindowEdges(t *testing.T) {
	records := []club.PlayerMatchRecord{dpRecord("m1", "2026-03-07")}

	tests := []struct {
		name    string
		date    string
		allowed bool
	}{
		{"13 days after is locked", "2026-03-20", false},
		{"14 days after is free", "2026-03-21", true},
		{"13 days before is locked", "2026-02-22", false},
		{"14 days before is free", "2026-02-21", true},
		{"next day is locked", "2026-03-08", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := dpwindow.Evaluate(records, tc.date, "m2")
			assert.Equal(t, tc.allowed, d.Allowed)
			if !tc.allowed {
				assert.Equal(t, "m1", d.HeldMatchID)
				assert.Equal(t, "2026-03-07", d.HeldDate)
			}
		})
	}
}

func TestEvaluateIgnoresRecordsOutsideWindow(t *testing.T) {
	// Full history passed in; only the in-window record matters.
	records := []club.PlayerMatchRecord{
		dpRecord("m0", "2025-11-01"),
		dpRecord("m1", "2026-03-01"),
	}
	d := dpwindow.Evaluate(records, "2026-03-07", "m2")
	require.False(t, d.Allowed)
	assert.Equal(t, "m1", d.HeldMatchID)
}

func TestGuardUsesStoredRecords(t *testing.T) {
	store := club.NewMock()
	store.DoublePointRecordsFunc = func(playerID, startDate, endDate string) ([]club.PlayerMatchRecord, error) {
		assert.Equal(t, "p1", playerID)
		assert.Equal(t, "2026-02-22", startDate)
		assert.Equal(t, "2026-03-20", endDate)
		return []club.PlayerMatchRecord{dpRecord("m1", "2026-03-01")}, nil
	}

	guard := dpwindow.NewGuard(store)
	d, err := guard.Check("p1", "2026-03-07", "m2")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}
