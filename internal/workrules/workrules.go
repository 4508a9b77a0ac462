// Package workrules implements the advisory checks run after a work record
// is written. Rules never block a write; they only produce warning strings
// appended to the confirmation reply.
package workrules

import (
	"time"

	"github.com/spec-kit/timecard-bot/internal/domain"
)

const (
	maxWorkWithoutRecess = 6 * time.Hour
	minRecess            = time.Hour
	reportDeadline       = 24 * time.Hour
)

const (
	recessWarning = ":warning: Recess hours are too short. If you work more than 6 hours, you must take 1 hour's recess."
	timingWarning = ":stopwatch: More than 24 hours have already passed since you finished your work. Let's try to report on time!"
)

// CheckRecessHours warns when a session longer than 6 hours reports less
// than an hour of recess. Returns "" when the rule is satisfied.
func CheckRecessHours(card *domain.TimeCard) string {
	if card.Work.Duration() > maxWorkWithoutRecess && card.Break.Duration() < minRecess {
		return recessWarning
	}
	return ""
}

// CheckReportTiming warns when the report lands more than 24 hours after the
// work ended. Returns "" when the rule is satisfied.
func CheckReportTiming(card *domain.TimeCard, now time.Time) string {
	if now.Sub(card.EndTime) > reportDeadline {
		return timingWarning
	}
	return ""
}

// Evaluate runs every rule and collects the warnings that fired.
func Evaluate(card *domain.TimeCard, now time.Time) []string {
	var warnings []string
	for _, check := range []func() string{
		func() string { return CheckRecessHours(card) },
		func() string { return CheckReportTiming(card, now) },
	} {
		if warning := check(); warning != "" {
			warnings = append(warnings, warning)
		}
	}
	return warnings
}
