package domain

import "time"

// TimeCard is one reported work session. The Slack message timestamp of the
// report is the natural key: editing the message updates the same card,
// deleting the message removes it.
type TimeCard struct {
	ID            int64
	JobCategoryID int64
	StartTime     time.Time
	EndTime       time.Time
	Work          HourMinute
	Break         HourMinute
	Description   string
	MessageTS     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
