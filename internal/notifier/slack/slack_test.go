package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/metrics"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testMatch() *club.Match {
	return &club.Match{
		ID:           "m1",
		Date:         "2026-03-07",
		Slot:         "08:30",
		Status:       club.StatusCompleted,
		Team1Player1: "p1",
		Team1Player2: "p2",
		Team2Player1: "p3",
		Team2Player2: "p4",
		Score:        "8-6",
		WinnerTeam:   1,
	}
}

func testNames() map[string]string {
	return map[string]string{"p1": "Anna", "p2": "Bo", "p3": "Carl", "p4": "Dina"}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics, nil)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metricsMock := metrics.NewMock()
	store := metrics.NewMockStore()
	notifier := NewNotifierWithAPI(api, "C123", metricsMock, store)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metricsMock.SlackNotifSent())
	assert.Equal(t, 0, metricsMock.SlackNotifFailed())
	assert.Equal(t, 1, store.Count("slack_notifications_sent"))
}

func TestSendMessage_Failure(t *testing.T) {
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", errors.New("slack is down")
		},
	}

	metricsMock := metrics.NewMock()
	store := metrics.NewMockStore()
	notifier := NewNotifierWithAPI(api, "C123", metricsMock, store)

	err := notifier.SendBookingNotification(testMatch(), testNames(), false)
	require.Error(t, err)
	assert.Equal(t, 0, metricsMock.SlackNotifSent())
	assert.Equal(t, 1, metricsMock.SlackNotifFailed())
	assert.Equal(t, 0, store.Count("slack_notifications_sent"))
	assert.Equal(t, 1, store.Count("slack_notifications_failed"))
}

func TestFormatBookingNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock(), nil)

	msg := notifier.formatBookingNotification(testMatch(), testNames())
	require.NotEmpty(t, msg.Blocks.BlockSet)

	_, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.True(t, ok, "first block should be a header")
}

func TestFormatResultNotificationNamesWinners(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock(), nil)

	match := testMatch()
	match.Win62 = false
	msg := notifier.formatResultNotification(match, testNames())

	found := false
	for _, block := range msg.Blocks.BlockSet {
		if section, ok := block.(*slackapi.SectionBlock); ok && section.Text != nil {
			if strings.Contains(section.Text.Text, "Anna & Bo") && strings.Contains(section.Text.Text, "8-6") {
				found = true
			}
		}
	}
	assert.True(t, found, "result section should name the winning team and score")
}

func TestFormatLeaderboard(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock(), nil)

	rows := []club.LeaderboardRow{
		{Rank: 1, PlayerID: "p1", PlayerName: "Anna", TotalPoints: 17, Wins: 2, WinPct: 67},
		{Rank: 2, PlayerID: "p2", PlayerName: "Bo", TotalPoints: 11, Wins: 1, WinPct: 33},
	}
	msg := notifier.formatLeaderboard(rows)
	require.Len(t, msg.Blocks.BlockSet, 2)

	empty := notifier.formatLeaderboard(nil)
	require.Len(t, empty.Blocks.BlockSet, 2)
}
