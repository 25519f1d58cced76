package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/metrics"
	"github.com/gclub/matchpoint/internal/notifier"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	store     metrics.MetricsStore
}

// NewNotifier creates a new Notifier. The store keeps durable notification
// counters across restarts; it may be nil.
func NewNotifier(token, channelID string, metrics metrics.Metrics, store metrics.MetricsStore) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		store:     store,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics, store metrics.MetricsStore) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		store:     store,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		if s.store != nil {
			s.store.Increment("slack_notifications_failed")
		}
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	if s.store != nil {
		s.store.Increment("slack_notifications_sent")
	}
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendBookingNotification(match *club.Match, names map[string]string, dryRun bool) error {
	msg := s.formatBookingNotification(match, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendResultNotification(match *club.Match, names map[string]string, dryRun bool) error {
	msg := s.formatResultNotification(match, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(rows []club.LeaderboardRow, dryRun bool) error {
	msg := s.formatLeaderboard(rows)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(rows []club.LeaderboardRow) (any, error) {
	return s.formatLeaderboard(rows), nil
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func teamName(names map[string]string, a, b string) string {
	return displayName(names, a) + " & " + displayName(names, b)
}

// formatBookingNotification creates the Slack message for a new match booking using Block Kit.
func (s *Notifier) formatBookingNotification(match *club.Match, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "🎾 New match booked! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details - Use newlines for clear separation.
	detailsText := fmt.Sprintf("%s\n%s on %s", club.SlotLabel(match.Slot), match.Slot, match.Date)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	// Teams
	teamsText := fmt.Sprintf("Team 1: %s\nTeam 2: %s",
		teamName(names, match.Team1Player1, match.Team1Player2),
		teamName(names, match.Team2Player1, match.Team2Player2))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", teamsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(match *club.Match, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match finished! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details
	detailsText := fmt.Sprintf("%s (%s) on %s", club.SlotLabel(match.Slot), match.Slot, match.Date)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	// Result
	resultHeaderText := fmt.Sprintf("Result: %s", match.Score)
	switch match.WinnerTeam {
	case 1:
		resultHeaderText = fmt.Sprintf("Result: %s won %s! 🏆",
			teamName(names, match.Team1Player1, match.Team1Player2), match.Score)
	case 2:
		resultHeaderText = fmt.Sprintf("Result: %s won %s! 🏆",
			teamName(names, match.Team2Player1, match.Team2Player2), match.Score)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultHeaderText, true, false), nil, nil))

	// Context - earned bonuses, single-line.
	var bonuses []string
	if match.Comeback {
		bonuses = append(bonuses, "comeback")
	}
	if match.Tiebreak {
		bonuses = append(bonuses, "tiebreak")
	}
	switch {
	case match.Win80:
		bonuses = append(bonuses, "8-0 sweep")
	case match.Win71:
		bonuses = append(bonuses, "7-1")
	case match.Win62:
		bonuses = append(bonuses, "6-2")
	}
	if len(bonuses) > 0 {
		bonusText := slack.NewTextBlockObject("plain_text", "Bonuses: "+strings.Join(bonuses, ", "), true, false)
		blocks = append(blocks, slack.NewContextBlock("", bonusText))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates the Slack message for the standings using Block Kit.
func (s *Notifier) formatLeaderboard(rows []club.LeaderboardRow) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(rows) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("plain_text", "No completed matches yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for _, row := range rows {
		medal := ""
		switch row.Rank {
		case 1:
			medal = " 🥇"
		case 2:
			medal = " 🥈"
		case 3:
			medal = " 🥉"
		}
		lines = append(lines, fmt.Sprintf("%d. %s: %d pts (%d-%d, %d%%)%s",
			row.Rank, row.PlayerName, row.TotalPoints,
			row.Wins+row.DPWins, row.Losses+row.DPLosses, row.WinPct, medal))
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
