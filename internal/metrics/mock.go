package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesBooked       int
	bookingConflicts    int
	matchesCompleted    int
	matchesCancelled    int
	flagUpdates         int
	flagUpdatesRejected int
	completionDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		completionDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesBooked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesBooked++
}

func (m *Mock) IncBookingConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingConflicts++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncMatchesCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCancelled++
}

func (m *Mock) IncFlagUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flagUpdates++
}

func (m *Mock) IncFlagUpdatesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flagUpdatesRejected++
}

func (m *Mock) ObserveCompletionDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completionDurations = append(m.completionDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesBooked returns the number of times IncMatchesBooked was called.
func (m *Mock) MatchesBooked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesBooked
}

// BookingConflicts returns the number of times IncBookingConflicts was called.
func (m *Mock) BookingConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingConflicts
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// MatchesCancelled returns the number of times IncMatchesCancelled was called.
func (m *Mock) MatchesCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCancelled
}

// FlagUpdates returns the number of times IncFlagUpdates was called.
func (m *Mock) FlagUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flagUpdates
}

// FlagUpdatesRejected returns the number of times IncFlagUpdatesRejected was called.
func (m *Mock) FlagUpdatesRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flagUpdatesRejected
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// MockStore is an in-memory MetricsStore for testing.
type MockStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{counts: make(map[string]int)}
}

func (m *MockStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *MockStore) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

// Count returns the current value for a key.
func (m *MockStore) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}
