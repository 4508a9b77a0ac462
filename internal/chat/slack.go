package chat

import (
	"context"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// SlackNotifier implements Notifier against the Slack Web API.
type SlackNotifier struct {
	api    *slack.Client
	logger *zap.Logger
}

// NewSlackNotifier builds a notifier from a bot token.
func NewSlackNotifier(botToken string, logger *zap.Logger) *SlackNotifier {
	return &SlackNotifier{
		api:    slack.New(botToken),
		logger: logger,
	}
}

// PostEphemeral sends a reply only the addressed user can see.
func (n *SlackNotifier) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := n.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	if err != nil {
		n.logger.Warn("post ephemeral failed", zap.String("channel", channelID), zap.Error(err))
	}
	return err
}

// PostEphemeralBlocks sends a Block Kit reply only the addressed user can see.
func (n *SlackNotifier) PostEphemeralBlocks(ctx context.Context, channelID, userID, text string, blocks []slack.Block) error {
	_, err := n.api.PostEphemeralContext(ctx, channelID, userID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		n.logger.Warn("post ephemeral blocks failed", zap.String("channel", channelID), zap.Error(err))
	}
	return err
}

// SendDM posts a message into the direct channel with the user.
func (n *SlackNotifier) SendDM(ctx context.Context, userID, text string) error {
	channel, err := n.openDM(ctx, userID)
	if err != nil {
		return err
	}
	_, _, err = n.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	return err
}

// UploadToDM uploads a file into the direct channel with the user.
func (n *SlackNotifier) UploadToDM(ctx context.Context, userID string, file FileUpload) error {
	channel, err := n.openDM(ctx, userID)
	if err != nil {
		return err
	}
	_, err = n.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Channel:  channel,
		Filename: file.Filename,
		Title:    file.Title,
		Content:  string(file.Content),
		FileSize: len(file.Content),
	})
	if err != nil {
		n.logger.Warn("file upload failed", zap.String("user", userID), zap.Error(err))
	}
	return err
}

// PublishHome replaces the user's App Home tab with the given view.
func (n *SlackNotifier) PublishHome(ctx context.Context, userID string, view slack.HomeTabViewRequest) error {
	_, err := n.api.PublishViewContext(ctx, userID, view, "")
	if err != nil {
		n.logger.Warn("home view publish failed", zap.String("user", userID), zap.Error(err))
	}
	return err
}

func (n *SlackNotifier) openDM(ctx context.Context, userID string) (string, error) {
	channel, _, _, err := n.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}
