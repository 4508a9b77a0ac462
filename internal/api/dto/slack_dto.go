package dto

// EventCallback is the envelope Slack posts to the events endpoint.
type EventCallback struct {
	Type      string     `json:"type"`
	Token     string     `json:"token"`
	Challenge string     `json:"challenge,omitempty"`
	EventID   string     `json:"event_id,omitempty"`
	Event     InnerEvent `json:"event"`
}

// InnerEvent carries the union of inner-event fields the bot consumes.
// app_mention events use Text/TS; message events with subtype
// message_deleted use DeletedTS.
type InnerEvent struct {
	Type      string `json:"type"`
	SubType   string `json:"subtype,omitempty"`
	User      string `json:"user,omitempty"`
	BotID     string `json:"bot_id,omitempty"`
	Text      string `json:"text,omitempty"`
	TS        string `json:"ts,omitempty"`
	DeletedTS string `json:"deleted_ts,omitempty"`
	Channel   string `json:"channel,omitempty"`
}

// Envelope callback types.
const (
	CallbackURLVerification = "url_verification"
	CallbackEvent           = "event_callback"
)

// Inner event discriminators.
const (
	EventAppMention       = "app_mention"
	EventMessage          = "message"
	SubTypeMessageDeleted = "message_deleted"
)

// SlashCommand is the form payload of a slash-command invocation.
type SlashCommand struct {
	Command   string
	Text      string
	UserID    string
	ChannelID string
}
