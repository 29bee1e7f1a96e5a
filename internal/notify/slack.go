package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	slacklib "github.com/slack-go/slack"
)

// SlackAPI is the subset of the Slack client used for notifications.
// Narrowed for testability.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackChannel posts notifications into a fixed workspace channel,
// mentioning the target user by ID. Per-user DM routing would need a Slack
// user mapping table.
type SlackChannel struct {
	api       SlackAPI
	channelID string
}

// NewSlackChannel creates a SlackChannel posting to the given channel ID.
func NewSlackChannel(api SlackAPI, channelID string) *SlackChannel {
	return &SlackChannel{api: api, channelID: channelID}
}

// Send posts the message to the configured channel.
func (c *SlackChannel) Send(ctx context.Context, userID uuid.UUID, message string) error {
	text := fmt.Sprintf("[%s] %s", userID, message)
	_, _, err := c.api.PostMessageContext(ctx, c.channelID, slacklib.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("notify.SlackChannel.Send: %w", err)
	}
	return nil
}
