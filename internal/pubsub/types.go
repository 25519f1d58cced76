package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchBooked    EventType = "match-booked"
	EventMatchCompleted EventType = "match-completed"
	EventMatchCancelled EventType = "match-cancelled"
	EventFlagUpdated    EventType = "flag-updated"
)

// MatchEvent is the payload published for match lifecycle events.
type MatchEvent struct {
	MatchID    string   `msgpack:"match_id"`
	Date       string   `msgpack:"match_date"`
	Slot       string   `msgpack:"match_time"`
	Status     string   `msgpack:"status"`
	PlayerIDs  []string `msgpack:"player_ids"`
	Score      string   `msgpack:"score,omitempty"`
	WinnerTeam int      `msgpack:"winner_team,omitempty"`
}

// FlagEvent is the payload published when a player flag changes.
type FlagEvent struct {
	MatchID  string `msgpack:"match_id"`
	PlayerID string `msgpack:"player_id"`
	Flag     string `msgpack:"flag"`
	Value    bool   `msgpack:"value"`
}
