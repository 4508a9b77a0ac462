package parser

import (
	"regexp"
	"time"

	"github.com/spec-kit/timecard-bot/internal/domain"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

// Break markers: the ASCII "R" and the legacy localized spelling are both
// accepted. New markers go into this alternation only.
var durationPattern = regexp.MustCompile(
	`^(?P<date>.+) (?P<start>.{5})-(?P<end>.{5})( (?:R|休憩)(?P<break>[0-9:]{5}))?$`)

const clockLayout = "2006/01/02 15:04"

// WorkSpan is a resolved duration expression: absolute start and end instants
// plus the derived work duration and the reported break.
//
// Work may be zero or negative when the reported end does not follow the
// start; that is not a parse error. The store's integrity check rejects such
// spans at write time.
type WorkSpan struct {
	Start time.Time
	End   time.Time
	Work  domain.HourMinute
	Break domain.HourMinute
}

// ParseDurationExpr resolves an expression of the form
// "2023/11/18 10:00-18:00 R01:00" (break segment optional).
func ParseDurationExpr(expr string) (*WorkSpan, error) {
	matched := durationPattern.FindStringSubmatch(expr)
	if matched == nil {
		return nil, util.NewMalformedDuration(expr)
	}

	date := matched[1]
	start, err := time.Parse(clockLayout, date+" "+matched[2])
	if err != nil {
		return nil, util.NewMalformedDuration(expr)
	}
	end, err := time.Parse(clockLayout, date+" "+matched[3])
	if err != nil {
		return nil, util.NewMalformedDuration(expr)
	}

	span := &WorkSpan{
		Start: start,
		End:   end,
		Work:  domain.HourMinuteFromDuration(end.Sub(start)),
	}

	if breakToken := matched[5]; breakToken != "" {
		// The break is an HH:MM time-of-day literal, so 24:00 and beyond are
		// invalid rather than long breaks.
		parsed, err := time.Parse("15:04", breakToken)
		if err != nil {
			return nil, util.NewMalformedDuration(expr)
		}
		span.Break = domain.HourMinuteFromClock(parsed.Hour(), parsed.Minute())
	}

	return span, nil
}
