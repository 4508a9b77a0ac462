package domain

import "time"

// JobCategory is a named RA job a user logs hours against (e.g. "CREST").
// Each category is owned by exactly one user; (user, name) is unique.
type JobCategory struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}
