package notifier

import (
	"sync"

	"github.com/gclub/matchpoint/internal/club"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendBookingNotificationFunc   func(match *club.Match, names map[string]string, dryRun bool) error
	SendResultNotificationFunc    func(match *club.Match, names map[string]string, dryRun bool) error
	SendLeaderboardFunc           func(rows []club.LeaderboardRow, dryRun bool) error
	FormatLeaderboardResponseFunc func(rows []club.LeaderboardRow) (any, error)

	// Call records
	SendBookingNotificationCalls []struct{ Match *club.Match }
	SendResultNotificationCalls  []struct{ Match *club.Match }
	SendLeaderboardCalls         [][]club.LeaderboardRow
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendBookingNotificationCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendBookingNotification(match *club.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendBookingNotificationCalls = append(m.SendBookingNotificationCalls, struct{ Match *club.Match }{match})
	if m.SendBookingNotificationFunc != nil {
		return m.SendBookingNotificationFunc(match, names, dryRun)
	}
	return nil
}

func (m *Mock) SendResultNotification(match *club.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct{ Match *club.Match }{match})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, names, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(rows []club.LeaderboardRow, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, rows)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(rows, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(rows []club.LeaderboardRow) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(rows)
	}
	return "formatted_leaderboard", nil
}
