// Package parser turns the semi-structured mention messages users post into
// structured work reports. The grammar is a fixed template, not best-effort
// extraction: anything that does not match exactly is rejected with a typed
// error carrying the fill-in template for the reply.
package parser

import (
	"regexp"
	"strings"

	"github.com/spec-kit/timecard-bot/pkg/util"
)

// Template is the example report included with malformed-message replies.
const Template = "@RA timecard recorder [arbitrary comment (can be blank)]\n" +
	"• <Your Name> (e.g. Tanaka Taro)\n" +
	"• <RA Name> (e.g. CREST)\n" +
	"• <Working Hour> (e.g. 2023/11/18 10:00-17:00 R01:00) \"R01:00\" means you took an hour recess.\n" +
	"• <Description of work> (e.g. analyzed CICIDS2017 dataset)"

// The first line is the mention itself plus an optional free comment; it is
// required but its content is ignored. The four bullet lines are mandatory.
var mentionPattern = regexp.MustCompile(
	`^<@[^>]+>.*\n` +
		`• (?P<name>.+)\n` +
		`• (?P<category>.+)\n` +
		`• (?P<duration>.+)\n` +
		`• (?P<description>.+)\n?$`)

// WorkReport is the parsed form of a mention message. ReporterName is kept
// for human readability only; the category lookup is keyed by the Slack user.
type WorkReport struct {
	ReporterName string
	CategoryName string
	DurationExpr string
	Description  string
}

// ParseMention extracts a WorkReport from raw mention text.
func ParseMention(text string) (*WorkReport, error) {
	matched := mentionPattern.FindStringSubmatch(text)
	if matched == nil {
		return nil, util.NewMalformedMessage(map[string]any{"template": Template})
	}
	return &WorkReport{
		ReporterName: strings.TrimSpace(matched[1]),
		CategoryName: strings.TrimSpace(matched[2]),
		DurationExpr: strings.TrimSpace(matched[3]),
		Description:  strings.TrimSpace(matched[4]),
	}, nil
}
