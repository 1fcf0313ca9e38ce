package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service provides interface to Slack API for notifications
type Service interface {
	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	// AuthTest verifies the bot token and returns the bot user ID
	AuthTest(ctx context.Context) (string, error)
}
