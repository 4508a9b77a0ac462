package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/spec-kit/timecard-bot/internal/domain"
	"github.com/spec-kit/timecard-bot/internal/repository"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

const monthLayout = "2006/01"

// CSVExport is a rendered CSV payload ready for a file upload.
type CSVExport struct {
	Filename string
	Title    string
	Content  []byte
}

// CategoryHours is the net worked total (work minus break) for one RA job.
type CategoryHours struct {
	CategoryName string
	Hours        domain.HourMinute
}

// ReportService answers working-hour queries and builds CSV exports.
type ReportService struct {
	timecards repository.TimeCardRepository
	logger    *zap.Logger
	now       func() time.Time
}

// ReportDependencies bundles requirements for the report service.
type ReportDependencies struct {
	TimeCardRepo repository.TimeCardRepository
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		timecards: deps.TimeCardRepo,
		logger:    deps.Logger,
		now:       now,
	}
}

// MonthlyHours totals a user's net worked time (work minus break) per RA job
// within the given "YYYY/MM" month, defaulting to the current month when the
// argument is empty. A month with no records returns an empty slice.
func (s *ReportService) MonthlyHours(ctx context.Context, slackUserID, yearMonth string) ([]CategoryHours, error) {
	from, to, err := s.monthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	rows, err := s.timecards.SumWorkByCategory(ctx, slackUserID, from, to)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	totals := make([]CategoryHours, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, CategoryHours{
			CategoryName: row.CategoryName,
			Hours:        domain.HourMinute{Minutes: row.Minutes},
		})
	}
	return totals, nil
}

// MonthlyCSV renders a user's records for the month as UTF-8 CSV. A month
// with no records returns (nil, nil).
func (s *ReportService) MonthlyCSV(ctx context.Context, slackUserID, yearMonth string) (*CSVExport, error) {
	from, to, err := s.monthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	records, err := s.timecards.ListForUserInRange(ctx, slackUserID, from, to)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"category", "date", "start", "end", "break", "description"}); err != nil {
		return nil, err
	}
	for _, record := range records {
		row := []string{
			record.CategoryName,
			record.Card.StartTime.Format("02"),
			record.Card.StartTime.Format("1504"),
			record.Card.EndTime.Format("1504"),
			record.Card.Break.Compact(),
			record.Card.Description,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.logger.Info("built monthly CSV",
		zap.String("slack_user_id", slackUserID),
		zap.Int("records", len(records)))

	return &CSVExport{
		Filename: fmt.Sprintf("%d_%d_working_hours.csv", from.Year(), int(from.Month())),
		Title:    fmt.Sprintf("Work records in %d/%d", from.Year(), int(from.Month())),
		Content:  buf.Bytes(),
	}, nil
}

// AdminMonthlyCSV renders every user's records for the month, Shift_JIS
// encoded for the accounting tooling that consumes it. A month with no
// records returns (nil, nil).
func (s *ReportService) AdminMonthlyCSV(ctx context.Context, yearMonth string) (*CSVExport, error) {
	from, to, err := s.monthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	records, err := s.timecards.ListAllInRange(ctx, from, to)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	encoded := transform.NewWriter(&buf, japanese.ShiftJIS.NewEncoder())
	writer := csv.NewWriter(encoded)
	header := []string{"name", "category", "start_timestamp", "end_timestamp", "work_duration", "break_duration", "description"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, record := range records {
		// Work duration is re-derived from the stored span, matching how it
		// was computed at write time.
		work := domain.HourMinuteFromDuration(record.Card.EndTime.Sub(record.Card.StartTime))
		row := []string{
			record.UserName,
			record.CategoryName,
			record.Card.StartTime.Format("2006/01/02 15:04:05"),
			record.Card.EndTime.Format("2006/01/02 15:04:05"),
			work.String(),
			record.Card.Break.String(),
			record.Card.Description,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	if err := encoded.Close(); err != nil {
		return nil, err
	}

	s.logger.Info("built admin CSV", zap.Int("records", len(records)))

	return &CSVExport{
		Filename: fmt.Sprintf("%d_%d_all_working_records.csv", from.Year(), int(from.Month())),
		Title:    fmt.Sprintf("Work records of all users in %d/%d", from.Year(), int(from.Month())),
		Content:  buf.Bytes(),
	}, nil
}

func (s *ReportService) monthRange(yearMonth string) (time.Time, time.Time, error) {
	base := s.now()
	if yearMonth != "" {
		parsed, err := time.Parse(monthLayout, yearMonth)
		if err != nil {
			return time.Time{}, time.Time{}, util.NewValidationError("month must look like 2023/11", map[string]any{"month": yearMonth})
		}
		base = parsed
	}
	from := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	return from, from.AddDate(0, 1, 0), nil
}
