package chat

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/spec-kit/timecard-bot/internal/domain"
	"github.com/spec-kit/timecard-bot/internal/parser"
	"github.com/spec-kit/timecard-bot/internal/service"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

const (
	malformedMessageText  = ":x: Your message is in incorrect format. Write it in the following format:"
	malformedDurationText = ":x: Working Hour is in incorrect format. Please write it in the following format. \"Rxx:xx\" can be omitted if you didn't take a recess.\n`2023/11/18 10:00-18:00 R01:00`"
	editHintText          = ":bulb: You don't need to delete your message and send again. Instead, you can directly edit the message into correct format."
	databaseErrorText     = ":x: The operation failed due to some database error."
)

// RenderMalformedMessage builds the template-reminder reply for a message
// that does not match the report grammar.
func RenderMalformedMessage() (string, []slack.Block) {
	body := fmt.Sprintf("%s\n\n```\n%s\n```", malformedMessageText, parser.Template)
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, body, false, false), nil, nil),
		slack.NewDividerBlock(),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, editHintText, false, false)),
	}
	return malformedMessageText, blocks
}

// RenderRecordResult builds the confirmation for a created or updated record.
func RenderRecordResult(result *service.RecordResult) string {
	verb := "recorded"
	if !result.Created {
		verb = "updated"
	}
	lines := []string{
		fmt.Sprintf(":white_check_mark: Your work was %s.", verb),
		fmt.Sprintf("RA Name: %s", result.CategoryName),
		fmt.Sprintf("Work datetime: %s %s-%s",
			result.Card.StartTime.Format("2006/01/02"),
			result.Card.StartTime.Format("15:04"),
			result.Card.EndTime.Format("15:04")),
		fmt.Sprintf("Work hours: %s", result.Card.Work),
		fmt.Sprintf("Recess hours: %s", result.Card.Break),
		fmt.Sprintf("Description of work: %s", result.Card.Description),
	}
	lines = append(lines, result.Warnings...)
	return strings.Join(lines, "\n")
}

// RenderDeleted builds the confirmation for a removed record.
func RenderDeleted(card *domain.TimeCard) string {
	return fmt.Sprintf(":wastebasket: Deleted the work record from %s to %s.",
		card.StartTime.Format("2006/01/02 15:04"),
		card.EndTime.Format("2006/01/02 15:04"))
}

// RenderHomeView builds the App Home usage guide published when a user
// completes registration.
func RenderHomeView() slack.HomeTabViewRequest {
	guide := strings.Join([]string{
		"*1. Register your RA jobs*",
		"Run `/register_ra <RA Name>` once per job you work on (e.g. `/register_ra CREST`).",
		"",
		"*2. Report your work*",
		"Mention this bot in the channel with the following format. Edit the message to fix a report; delete it to withdraw one.",
		fmt.Sprintf("```%s```", parser.Template),
		"",
		"*3. Look back*",
		"`/get_working_hours [YYYY/MM]` shows your monthly totals per RA; `/download_csv [YYYY/MM]` sends the records as a CSV file in DM.",
	}, "\n")

	return slack.HomeTabViewRequest{
		Type: slack.VTHomeTab,
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "RA Timecard Recorder — How to use", false, false)),
			slack.NewDividerBlock(),
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, guide, false, false), nil, nil),
		}},
	}
}

// RenderUserRegistered builds the welcome DM for a new user.
func RenderUserRegistered(name string) string {
	return fmt.Sprintf(":white_check_mark: Welcome, %s! Your registration is complete.\n:rocket: Open the Home tab above and read the usage guide!", name)
}

// RenderCategoryRegistered builds the confirmation for a new RA job.
func RenderCategoryRegistered(name string) string {
	return fmt.Sprintf(":white_check_mark: RA Job %q has been successfully registered.", name)
}

// RenderMonthlyHours builds the reply for a working-hours query: one line per
// RA job with the net worked total.
func RenderMonthlyHours(yearMonth string, totals []service.CategoryHours) string {
	label := yearMonth
	if label == "" {
		label = "this month"
	}
	if len(totals) == 0 {
		return fmt.Sprintf(":beach_with_umbrella: No working hours in %s.", label)
	}
	lines := make([]string, 0, len(totals)+1)
	lines = append(lines, fmt.Sprintf(":pencil: Your working hours in %s:", label))
	for _, total := range totals {
		lines = append(lines, fmt.Sprintf("%s: %s", total.CategoryName, total.Hours))
	}
	return strings.Join(lines, "\n")
}

// RenderNoRecords builds the empty-month reply for CSV exports.
func RenderNoRecords(yearMonth string) string {
	label := yearMonth
	if label == "" {
		label = "this month"
	}
	return fmt.Sprintf(":beach_with_umbrella: No work records found in %s.", label)
}

// RenderError maps a domain error onto the user-facing reply for it.
// Unrecognized and persistence errors get the generic failure notice.
func RenderError(err error) string {
	domainErr := util.ToDomainError(err)
	switch domainErr.Code {
	case util.CodeMalformedDuration:
		return malformedDurationText
	case util.CodeUserNotRegistered:
		return ":x: You have to register first with `/init <Your Name>`."
	case util.CodeCategoryNotFound:
		name, _ := domainErr.Details["category"].(string)
		return fmt.Sprintf(":x: You've never registered RA named %q, or you've not completed user registration.", name)
	case util.CodeAlreadyRegistered:
		name, _ := domainErr.Details["name"].(string)
		return fmt.Sprintf(":thinking_face: %s, it looks like you are already registered.", name)
	case util.CodeCategoryAlreadyExists:
		name, _ := domainErr.Details["category"].(string)
		return fmt.Sprintf(":x: RA %s is already registered for you.", name)
	case util.CodeValidationFailed:
		return ":x: " + domainErr.Message
	case util.CodeUnauthorized:
		return ":x: You are not allowed to use this command."
	default:
		return databaseErrorText
	}
}
