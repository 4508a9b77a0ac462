// Package chat wraps the outbound side of the Slack collaborator: ephemeral
// replies, DMs and file uploads. Handlers depend on the Notifier interface so
// tests can swap the Web API out.
package chat

import (
	"context"

	"github.com/slack-go/slack"
)

// FileUpload is a rendered file payload destined for a user's DM.
type FileUpload struct {
	Filename string
	Title    string
	Content  []byte
}

// Notifier delivers bot replies to the workspace.
type Notifier interface {
	// PostEphemeral sends a reply only the addressed user can see.
	PostEphemeral(ctx context.Context, channelID, userID, text string) error
	// PostEphemeralBlocks is PostEphemeral with a Block Kit body; text is the
	// notification fallback.
	PostEphemeralBlocks(ctx context.Context, channelID, userID, text string, blocks []slack.Block) error
	// SendDM opens (or reuses) the direct channel with the user and posts.
	SendDM(ctx context.Context, userID, text string) error
	// UploadToDM uploads a file into the direct channel with the user.
	UploadToDM(ctx context.Context, userID string, file FileUpload) error
	// PublishHome replaces the user's App Home tab with the given view.
	PublishHome(ctx context.Context, userID string, view slack.HomeTabViewRequest) error
}
