package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/timecard-bot/internal/api/dto"
	"github.com/spec-kit/timecard-bot/internal/chat"
	"github.com/spec-kit/timecard-bot/internal/observability"
	"github.com/spec-kit/timecard-bot/internal/persistence"
	"github.com/spec-kit/timecard-bot/internal/service"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

// EventsHandler consumes Slack Events API callbacks: mentions carrying work
// reports and message deletions.
type EventsHandler struct {
	timecards *service.TimecardService
	notifier  chat.Notifier
	dedup     *persistence.Redis
	dedupTTL  time.Duration
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewEventsHandler constructs the handler.
func NewEventsHandler(timecards *service.TimecardService, notifier chat.Notifier, dedup *persistence.Redis, dedupTTL time.Duration, metrics *observability.Metrics, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		timecards: timecards,
		notifier:  notifier,
		dedup:     dedup,
		dedupTTL:  dedupTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle processes POST /slack/events.
func (h *EventsHandler) Handle(c *fiber.Ctx) error {
	var callback dto.EventCallback
	if err := json.Unmarshal(c.Body(), &callback); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid event payload")
	}

	switch callback.Type {
	case dto.CallbackURLVerification:
		return c.JSON(fiber.Map{"challenge": callback.Challenge})
	case dto.CallbackEvent:
	default:
		return c.SendStatus(http.StatusOK)
	}

	ctx := c.UserContext()
	if h.isDuplicate(ctx, callback.EventID) {
		h.metrics.RecordEvent("event", "duplicate")
		return c.SendStatus(http.StatusOK)
	}

	event := callback.Event
	switch {
	case event.Type == dto.EventAppMention:
		return h.handleMention(c, event)
	case event.Type == dto.EventMessage && event.SubType == dto.SubTypeMessageDeleted:
		return h.handleDeleted(c, event)
	}
	return c.SendStatus(http.StatusOK)
}

func (h *EventsHandler) handleMention(c *fiber.Ctx, event dto.InnerEvent) error {
	// Mentions written by bots (including this one echoing itself) are noise.
	if event.BotID != "" || event.User == "" {
		return c.SendStatus(http.StatusOK)
	}

	ctx := c.UserContext()
	result, err := h.timecards.RecordMention(ctx, service.MentionEvent{
		SlackUserID: event.User,
		ChannelID:   event.Channel,
		Text:        event.Text,
		MessageTS:   event.TS,
	})
	if err != nil {
		return h.replyMentionError(c, event, err)
	}

	h.metrics.RecordEvent("mention", "ok")
	_ = h.notifier.PostEphemeral(ctx, event.Channel, event.User, chat.RenderRecordResult(result))
	return c.SendStatus(http.StatusOK)
}

func (h *EventsHandler) replyMentionError(c *fiber.Ctx, event dto.InnerEvent, err error) error {
	ctx := c.UserContext()
	h.metrics.RecordEvent("mention", util.ToDomainError(err).Code)

	if util.HasCode(err, util.CodeMalformedMessage) {
		fallback, blocks := chat.RenderMalformedMessage()
		_ = h.notifier.PostEphemeralBlocks(ctx, event.Channel, event.User, fallback, blocks)
		return c.SendStatus(http.StatusOK)
	}

	_ = h.notifier.PostEphemeral(ctx, event.Channel, event.User, chat.RenderError(err))
	if util.HasCode(err, util.CodePersistenceError) {
		// Propagate so the middleware logs it. The event stays marked as
		// processed, so Slack's retry of the resulting 5xx is dropped rather
		// than re-running the failed transaction.
		return err
	}
	return c.SendStatus(http.StatusOK)
}

func (h *EventsHandler) handleDeleted(c *fiber.Ctx, event dto.InnerEvent) error {
	ctx := c.UserContext()
	card, err := h.timecards.DeleteByMessageTS(ctx, event.DeletedTS)
	if err != nil {
		h.metrics.RecordEvent("delete", util.ToDomainError(err).Code)
		if event.User != "" {
			_ = h.notifier.PostEphemeral(ctx, event.Channel, event.User, chat.RenderError(err))
		}
		return err
	}
	if card == nil {
		// The deleted message was not a work record.
		return c.SendStatus(http.StatusOK)
	}

	h.metrics.RecordEvent("delete", "ok")
	if event.User != "" {
		_ = h.notifier.PostEphemeral(ctx, event.Channel, event.User, chat.RenderDeleted(card))
	}
	return c.SendStatus(http.StatusOK)
}

func (h *EventsHandler) isDuplicate(ctx context.Context, eventID string) bool {
	if eventID == "" || h.dedup == nil {
		return false
	}
	fresh, err := h.dedup.ClaimEvent(ctx, eventID, h.dedupTTL)
	if err != nil {
		// Dedup is best-effort; the upsert keyed by message_ts keeps replays
		// harmless even without it.
		h.logger.Warn("event dedup unavailable", zap.Error(err))
		return false
	}
	return !fresh
}
