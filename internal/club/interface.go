package club

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	// Players
	UpsertPlayer(player PlayerInfo) error
	GetAllPlayers() ([]PlayerInfo, error)
	GetPlayers(playerIDs []string) ([]PlayerInfo, error)
	IsKnownPlayer(playerID string) bool
	SetPlayerActive(playerID string, active bool) error

	// Matches
	InsertMatch(date, slot string, players [4]string) (*Match, error)
	GetMatch(matchID string) (*Match, error)
	ListMatches(filter MatchFilter) ([]*Match, error)
	BusyPlayers(date, slot string) (map[string]bool, error)
	UpdateMatchOutcome(matchID, scoreText string, winnerTeam int, comeback, tiebreak bool) (*Match, error)
	CancelMatch(matchID string) error

	// Player match records
	UpdatePlayerMatchFlag(matchID, playerID, flag string, value bool) (*PlayerMatchRecord, error)
	GetPlayerMatchRecord(matchID, playerID string) (*PlayerMatchRecord, error)
	RecordsForPlayerDay(playerID, date string) ([]PlayerMatchRecord, error)
	RecordsForPlayerRange(playerID, startDate, endDate string) ([]PlayerMatchRecord, error)
	PlayersForDay(date string) ([]PlayerInfo, error)
	DoublePointRecords(playerID, startDate, endDate string) ([]PlayerMatchRecord, error)

	// Aggregates (the server-side leaderboard collaborator)
	QueryLeaderboardRange(startDate, endDate *string) ([]LeaderboardRow, error)
	QueryBonusPointsRange(startDate, endDate *string) ([]BonusPointsRow, error)

	// Operational
	Clear()
	ClearMatch(matchID string)
}
