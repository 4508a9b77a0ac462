package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/timecard-bot/internal/domain"
	"github.com/spec-kit/timecard-bot/internal/parser"
	"github.com/spec-kit/timecard-bot/internal/repository"
	"github.com/spec-kit/timecard-bot/internal/workrules"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

// MentionEvent is an inbound work report. Slack emits the same event for a
// newly posted mention and for an edit of one, so the message timestamp is
// the only reliable identity of the report.
type MentionEvent struct {
	SlackUserID string
	ChannelID   string
	Text        string
	MessageTS   string
}

// RecordResult describes a reconciled work record.
type RecordResult struct {
	Card         *domain.TimeCard
	CategoryName string
	Created      bool
	Warnings     []string
}

// TimecardService reconciles mention events against the record store.
type TimecardService struct {
	registry  *RegistryService
	timecards repository.TimeCardRepository
	logger    *zap.Logger
	now       func() time.Time
}

// TimecardDependencies bundles requirements for the timecard service.
type TimecardDependencies struct {
	Registry     *RegistryService
	TimeCardRepo repository.TimeCardRepository
	Logger       *zap.Logger
	// Now overrides the clock used by the late-report rule. Defaults to time.Now.
	Now func() time.Time
}

// NewTimecardService constructs the service.
func NewTimecardService(deps TimecardDependencies) *TimecardService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TimecardService{
		registry:  deps.Registry,
		timecards: deps.TimeCardRepo,
		logger:    deps.Logger,
		now:       now,
	}
}

// RecordMention parses a mention event and creates or updates the work record
// keyed by the event's message timestamp. Parse and lookup failures come back
// as typed domain errors for the handler to render; a store failure rolls the
// write back and surfaces as a persistence error.
func (s *TimecardService) RecordMention(ctx context.Context, event MentionEvent) (*RecordResult, error) {
	report, err := parser.ParseMention(event.Text)
	if err != nil {
		return nil, err
	}

	_, category, err := s.registry.Resolve(ctx, event.SlackUserID, report.CategoryName)
	if err != nil {
		return nil, err
	}

	span, err := parser.ParseDurationExpr(report.DurationExpr)
	if err != nil {
		return nil, err
	}

	card := &domain.TimeCard{
		JobCategoryID: category.ID,
		StartTime:     span.Start,
		EndTime:       span.End,
		Work:          span.Work,
		Break:         span.Break,
		Description:   report.Description,
		MessageTS:     event.MessageTS,
	}

	created, err := s.timecards.UpsertByMessageTS(ctx, card)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	s.logger.Info("reconciled work record",
		zap.String("slack_user_id", event.SlackUserID),
		zap.String("message_ts", event.MessageTS),
		zap.String("category", category.Name),
		zap.Bool("created", created))

	return &RecordResult{
		Card:         card,
		CategoryName: category.Name,
		Created:      created,
		Warnings:     workrules.Evaluate(card, s.now()),
	}, nil
}

// DeleteByMessageTS removes the record tied to a deleted message. A deleted
// message that never was a work record returns (nil, nil) and is not an error.
func (s *TimecardService) DeleteByMessageTS(ctx context.Context, messageTS string) (*domain.TimeCard, error) {
	card, err := s.timecards.DeleteByMessageTS(ctx, messageTS)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if card == nil {
		return nil, nil
	}

	s.logger.Info("deleted work record",
		zap.String("message_ts", messageTS),
		zap.Time("start_time", card.StartTime),
		zap.Time("end_time", card.EndTime))
	return card, nil
}
