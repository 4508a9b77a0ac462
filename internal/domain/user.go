package domain

import "time"

// User is a lab member registered with the bot. Registration is explicit
// (via the /init command) and the record is immutable afterwards.
type User struct {
	ID          int64
	SlackUserID string
	Name        string
	CreatedAt   time.Time
}
