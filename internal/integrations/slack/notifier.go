package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"carechat-backend/internal/models"
)

// Notifier posts escalation alerts to a care-team Slack channel so pending
// requests are seen without anyone polling the queue.
type Notifier struct {
	client    *slack.Client
	channelID string
}

// NewNotifier creates a Notifier. Returns nil when the token or channel is
// unset so callers can treat Slack as optional.
func NewNotifier(botToken, channelID string) *Notifier {
	if botToken == "" || channelID == "" {
		return nil
	}
	return &Notifier{
		client:    slack.New(botToken),
		channelID: channelID,
	}
}

// NotifyEscalation posts a short alert for a newly requested escalation.
// The message carries ids and the stated reason, never chat content.
func (n *Notifier) NotifyEscalation(ctx context.Context, esc *models.Escalation) error {
	text := fmt.Sprintf(
		":rotating_light: New support escalation #%d\nConversation: %d\nReason: %s",
		esc.ID, esc.ConversationID, esc.Reason,
	)

	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post escalation alert to Slack channel %s: %w", n.channelID, err)
	}
	return nil
}
