package club

import "sync"

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayerFunc          func(player PlayerInfo) error
	GetAllPlayersFunc         func() ([]PlayerInfo, error)
	GetPlayersFunc            func(playerIDs []string) ([]PlayerInfo, error)
	IsKnownPlayerFunc         func(playerID string) bool
	SetPlayerActiveFunc       func(playerID string, active bool) error
	InsertMatchFunc           func(date, slot string, players [4]string) (*Match, error)
	GetMatchFunc              func(matchID string) (*Match, error)
	ListMatchesFunc           func(filter MatchFilter) ([]*Match, error)
	BusyPlayersFunc           func(date, slot string) (map[string]bool, error)
	UpdateMatchOutcomeFunc    func(matchID, scoreText string, winnerTeam int, comeback, tiebreak bool) (*Match, error)
	CancelMatchFunc           func(matchID string) error
	UpdatePlayerMatchFlagFunc func(matchID, playerID, flag string, value bool) (*PlayerMatchRecord, error)
	GetPlayerMatchRecordFunc  func(matchID, playerID string) (*PlayerMatchRecord, error)
	RecordsForPlayerDayFunc   func(playerID, date string) ([]PlayerMatchRecord, error)
	RecordsForPlayerRangeFunc func(playerID, startDate, endDate string) ([]PlayerMatchRecord, error)
	PlayersForDayFunc         func(date string) ([]PlayerInfo, error)
	DoublePointRecordsFunc    func(playerID, startDate, endDate string) ([]PlayerMatchRecord, error)
	QueryLeaderboardRangeFunc func(startDate, endDate *string) ([]LeaderboardRow, error)
	QueryBonusPointsRangeFunc func(startDate, endDate *string) ([]BonusPointsRow, error)
	ClearFunc                 func()
	ClearMatchFunc            func(matchID string)

	// Call records
	UpsertPlayerCalls []PlayerInfo
	InsertMatchCalls  []struct {
		Date    string
		Slot    string
		Players [4]string
	}
	UpdateMatchOutcomeCalls []struct {
		MatchID    string
		Score      string
		WinnerTeam int
		Comeback   bool
		Tiebreak   bool
	}
	CancelMatchCalls           []string
	UpdatePlayerMatchFlagCalls []struct {
		MatchID  string
		PlayerID string
		Flag     string
		Value    bool
	}
	ClearMatchCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerCalls = nil
	m.InsertMatchCalls = nil
	m.UpdateMatchOutcomeCalls = nil
	m.CancelMatchCalls = nil
	m.UpdatePlayerMatchFlagCalls = nil
	m.ClearMatchCalls = nil
}

func (m *MockStore) UpsertPlayer(player PlayerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, player)
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(player)
	}
	return nil
}

func (m *MockStore) GetAllPlayers() ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) SetPlayerActive(playerID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetPlayerActiveFunc != nil {
		return m.SetPlayerActiveFunc(playerID, active)
	}
	return nil
}

func (m *MockStore) InsertMatch(date, slot string, players [4]string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertMatchCalls = append(m.InsertMatchCalls, struct {
		Date    string
		Slot    string
		Players [4]string
	}{date, slot, players})
	if m.InsertMatchFunc != nil {
		return m.InsertMatchFunc(date, slot, players)
	}
	return nil, nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListMatches(filter MatchFilter) ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(filter)
	}
	return nil, nil
}

func (m *MockStore) BusyPlayers(date, slot string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BusyPlayersFunc != nil {
		return m.BusyPlayersFunc(date, slot)
	}
	return map[string]bool{}, nil
}

func (m *MockStore) UpdateMatchOutcome(matchID, scoreText string, winnerTeam int, comeback, tiebreak bool) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchOutcomeCalls = append(m.UpdateMatchOutcomeCalls, struct {
		MatchID    string
		Score      string
		WinnerTeam int
		Comeback   bool
		Tiebreak   bool
	}{matchID, scoreText, winnerTeam, comeback, tiebreak})
	if m.UpdateMatchOutcomeFunc != nil {
		return m.UpdateMatchOutcomeFunc(matchID, scoreText, winnerTeam, comeback, tiebreak)
	}
	return nil, nil
}

func (m *MockStore) CancelMatch(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelMatchCalls = append(m.CancelMatchCalls, matchID)
	if m.CancelMatchFunc != nil {
		return m.CancelMatchFunc(matchID)
	}
	return nil
}

func (m *MockStore) UpdatePlayerMatchFlag(matchID, playerID, flag string, value bool) (*PlayerMatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerMatchFlagCalls = append(m.UpdatePlayerMatchFlagCalls, struct {
		MatchID  string
		PlayerID string
		Flag     string
		Value    bool
	}{matchID, playerID, flag, value})
	if m.UpdatePlayerMatchFlagFunc != nil {
		return m.UpdatePlayerMatchFlagFunc(matchID, playerID, flag, value)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerMatchRecord(matchID, playerID string) (*PlayerMatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerMatchRecordFunc != nil {
		return m.GetPlayerMatchRecordFunc(matchID, playerID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) RecordsForPlayerDay(playerID, date string) ([]PlayerMatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordsForPlayerDayFunc != nil {
		return m.RecordsForPlayerDayFunc(playerID, date)
	}
	return nil, nil
}

func (m *MockStore) RecordsForPlayerRange(playerID, startDate, endDate string) ([]PlayerMatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordsForPlayerRangeFunc != nil {
		return m.RecordsForPlayerRangeFunc(playerID, startDate, endDate)
	}
	return nil, nil
}

func (m *MockStore) PlayersForDay(date string) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayersForDayFunc != nil {
		return m.PlayersForDayFunc(date)
	}
	return nil, nil
}

func (m *MockStore) DoublePointRecords(playerID, startDate, endDate string) ([]PlayerMatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DoublePointRecordsFunc != nil {
		return m.DoublePointRecordsFunc(playerID, startDate, endDate)
	}
	return nil, nil
}

func (m *MockStore) QueryLeaderboardRange(startDate, endDate *string) ([]LeaderboardRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryLeaderboardRangeFunc != nil {
		return m.QueryLeaderboardRangeFunc(startDate, endDate)
	}
	return nil, nil
}

func (m *MockStore) QueryBonusPointsRange(startDate, endDate *string) ([]BonusPointsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryBonusPointsRangeFunc != nil {
		return m.QueryBonusPointsRangeFunc(startDate, endDate)
	}
	return nil, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearMatchCalls = append(m.ClearMatchCalls, matchID)
	if m.ClearMatchFunc != nil {
		m.ClearMatchFunc(matchID)
	}
}
