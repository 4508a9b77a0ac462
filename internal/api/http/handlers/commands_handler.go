package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/timecard-bot/internal/api/dto"
	"github.com/spec-kit/timecard-bot/internal/auth"
	"github.com/spec-kit/timecard-bot/internal/chat"
	"github.com/spec-kit/timecard-bot/internal/observability"
	"github.com/spec-kit/timecard-bot/internal/service"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

// CommandsHandler dispatches slash-command invocations. Replies go back
// in-band as ephemeral responses; files and welcomes go through the notifier.
type CommandsHandler struct {
	registry *service.RegistryService
	reports  *service.ReportService
	notifier chat.Notifier
	admins   *auth.AdminList
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewCommandsHandler constructs the handler.
func NewCommandsHandler(registry *service.RegistryService, reports *service.ReportService, notifier chat.Notifier, admins *auth.AdminList, metrics *observability.Metrics, logger *zap.Logger) *CommandsHandler {
	return &CommandsHandler{
		registry: registry,
		reports:  reports,
		notifier: notifier,
		admins:   admins,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle processes POST /slack/commands.
func (h *CommandsHandler) Handle(c *fiber.Ctx) error {
	cmd := dto.SlashCommand{
		Command:   c.FormValue("command"),
		Text:      strings.TrimSpace(c.FormValue("text")),
		UserID:    c.FormValue("user_id"),
		ChannelID: c.FormValue("channel_id"),
	}
	if cmd.UserID == "" {
		return fiber.NewError(http.StatusBadRequest, "missing user_id")
	}

	h.metrics.RecordEvent("command", cmd.Command)
	switch cmd.Command {
	case "/init":
		return h.handleInit(c, cmd)
	case "/register_ra":
		return h.handleRegisterRA(c, cmd)
	case "/get_working_hours":
		return h.handleWorkingHours(c, cmd)
	case "/download_csv":
		return h.handleDownloadCSV(c, cmd)
	case "/admin_download_all_records":
		return h.handleAdminDownload(c, cmd)
	}
	return ephemeral(c, ":x: Unknown command.")
}

func (h *CommandsHandler) handleInit(c *fiber.Ctx, cmd dto.SlashCommand) error {
	if cmd.Text == "" {
		return ephemeral(c, ":x: Use this command like `/init <Your Name>`.")
	}

	ctx := c.UserContext()
	user, err := h.registry.RegisterUser(ctx, cmd.UserID, cmd.Text)
	if err != nil {
		if util.HasCode(err, util.CodePersistenceError) {
			return err
		}
		return ephemeral(c, chat.RenderError(err))
	}

	// The usage guide lands on the Home tab first; the welcome DM points at it.
	if pubErr := h.notifier.PublishHome(ctx, cmd.UserID, chat.RenderHomeView()); pubErr != nil {
		h.logger.Warn("home view publish failed", zap.String("slack_user_id", cmd.UserID), zap.Error(pubErr))
	}
	if dmErr := h.notifier.SendDM(ctx, cmd.UserID, chat.RenderUserRegistered(user.Name)); dmErr != nil {
		h.logger.Warn("welcome DM failed", zap.String("slack_user_id", cmd.UserID), zap.Error(dmErr))
	}
	return ephemeral(c, ":email: Check the DM from this bot.")
}

func (h *CommandsHandler) handleRegisterRA(c *fiber.Ctx, cmd dto.SlashCommand) error {
	if cmd.Text == "" {
		return ephemeral(c, ":x: Use this command like `/register_ra <RA Job Name (e.g. CREST, NTT, ...)>`.")
	}

	category, err := h.registry.RegisterJobCategory(c.UserContext(), cmd.UserID, cmd.Text)
	if err != nil {
		if util.HasCode(err, util.CodePersistenceError) {
			return err
		}
		return ephemeral(c, chat.RenderError(err))
	}
	return ephemeral(c, chat.RenderCategoryRegistered(category.Name))
}

func (h *CommandsHandler) handleWorkingHours(c *fiber.Ctx, cmd dto.SlashCommand) error {
	hours, err := h.reports.MonthlyHours(c.UserContext(), cmd.UserID, cmd.Text)
	if err != nil {
		if util.HasCode(err, util.CodeValidationFailed) {
			return ephemeral(c, ":x: Use this command like `/get_working_hours 2023/11`.")
		}
		return err
	}
	return ephemeral(c, chat.RenderMonthlyHours(cmd.Text, hours))
}

func (h *CommandsHandler) handleDownloadCSV(c *fiber.Ctx, cmd dto.SlashCommand) error {
	ctx := c.UserContext()
	export, err := h.reports.MonthlyCSV(ctx, cmd.UserID, cmd.Text)
	if err != nil {
		if util.HasCode(err, util.CodeValidationFailed) {
			return ephemeral(c, ":x: Use this command like `/download_csv 2023/11`.")
		}
		return err
	}
	if export == nil {
		return ephemeral(c, chat.RenderNoRecords(cmd.Text))
	}

	if err := h.notifier.UploadToDM(ctx, cmd.UserID, chat.FileUpload{
		Filename: export.Filename,
		Title:    export.Title,
		Content:  export.Content,
	}); err != nil {
		return ephemeral(c, ":x: Failed to send the CSV file.")
	}
	return ephemeral(c, ":page_facing_up: Sent you a CSV file in DM.")
}

func (h *CommandsHandler) handleAdminDownload(c *fiber.Ctx, cmd dto.SlashCommand) error {
	if !h.admins.IsAdmin(cmd.UserID) {
		h.logger.Info("admin command denied", zap.String("slack_user_id", cmd.UserID))
		return ephemeral(c, ":x: You are not allowed to use this command.")
	}

	ctx := c.UserContext()
	export, err := h.reports.AdminMonthlyCSV(ctx, cmd.Text)
	if err != nil {
		if util.HasCode(err, util.CodeValidationFailed) {
			return ephemeral(c, ":x: Use this command like `/admin_download_all_records 2023/11`.")
		}
		return err
	}
	if export == nil {
		return ephemeral(c, chat.RenderNoRecords(cmd.Text))
	}

	if err := h.notifier.UploadToDM(ctx, cmd.UserID, chat.FileUpload{
		Filename: export.Filename,
		Title:    export.Title,
		Content:  export.Content,
	}); err != nil {
		return ephemeral(c, ":x: Failed to send the CSV file.")
	}
	return ephemeral(c, ":page_facing_up: Sent you a CSV file in DM.")
}

// ephemeral responds to the slash command in-band; Slack renders it only to
// the invoking user.
func ephemeral(c *fiber.Ctx, text string) error {
	return c.JSON(fiber.Map{
		"response_type": "ephemeral",
		"text":          text,
	})
}
