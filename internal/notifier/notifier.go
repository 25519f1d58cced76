package notifier

import (
	"github.com/gclub/matchpoint/internal/club"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For new bookings. names maps player ids to display names.
	SendBookingNotification(match *club.Match, names map[string]string, dryRun bool) error
	// For completed matches
	SendResultNotification(match *club.Match, names map[string]string, dryRun bool) error
	// For posting standings on demand
	SendLeaderboard(rows []club.LeaderboardRow, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(rows []club.LeaderboardRow) (any, error)
}
