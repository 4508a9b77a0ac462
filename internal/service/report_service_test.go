package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/spec-kit/timecard-bot/internal/domain"
	"github.com/spec-kit/timecard-bot/internal/repository"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

func newReportFixture(now time.Time) (*ReportService, *fakeTimeCardRepo) {
	timecards := newFakeTimeCardRepo()
	svc := NewReportService(ReportDependencies{
		TimeCardRepo: timecards,
		Logger:       zap.NewNop(),
		Now:          func() time.Time { return now },
	})
	return svc, timecards
}

func monthlyRecord(userName, categoryName string, start, end time.Time, breakTime domain.HourMinute, description string) repository.MonthlyRecord {
	return repository.MonthlyRecord{
		UserName:     userName,
		CategoryName: categoryName,
		Card: domain.TimeCard{
			StartTime:   start,
			EndTime:     end,
			Work:        domain.HourMinuteFromDuration(end.Sub(start)),
			Break:       breakTime,
			Description: description,
		},
	}
}

func addCard(timecards *fakeTimeCardRepo, categoryID int64, categoryName string, start, end time.Time, breakTime domain.HourMinute) {
	timecards.categoryNames[categoryID] = categoryName
	timecards.nextID++
	ts := fmt.Sprintf("%d.000000", timecards.nextID)
	timecards.cards[ts] = &domain.TimeCard{
		ID:            timecards.nextID,
		JobCategoryID: categoryID,
		StartTime:     start,
		EndTime:       end,
		Work:          domain.HourMinuteFromDuration(end.Sub(start)),
		Break:         breakTime,
		MessageTS:     ts,
	}
}

func TestMonthlyHoursNetOfBreakPerCategory(t *testing.T) {
	now := time.Date(2023, 11, 25, 12, 0, 0, 0, time.UTC)
	svc, timecards := newReportFixture(now)
	// An 8h session with a 1h recess counts as 7h of work.
	addCard(timecards, 1, "CREST",
		time.Date(2023, 11, 18, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 11, 18, 18, 0, 0, 0, time.UTC),
		domain.HourMinuteFromClock(1, 0))
	addCard(timecards, 2, "JST",
		time.Date(2023, 11, 20, 13, 0, 0, 0, time.UTC),
		time.Date(2023, 11, 20, 15, 30, 0, 0, time.UTC),
		domain.HourMinute{})
	// December falls outside the queried month.
	addCard(timecards, 1, "CREST",
		time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 1, 12, 0, 0, 0, time.UTC),
		domain.HourMinute{})

	totals, err := svc.MonthlyHours(context.Background(), "U1", "2023/11")
	if err != nil {
		t.Fatalf("MonthlyHours error: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d totals, want 2: %+v", len(totals), totals)
	}
	if totals[0].CategoryName != "CREST" || totals[0].Hours.String() != "07:00" {
		t.Errorf("totals[0] = %s %s, want CREST 07:00", totals[0].CategoryName, totals[0].Hours)
	}
	if totals[1].CategoryName != "JST" || totals[1].Hours.String() != "02:30" {
		t.Errorf("totals[1] = %s %s, want JST 02:30", totals[1].CategoryName, totals[1].Hours)
	}

	wantFrom := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	if !timecards.gotFrom.Equal(wantFrom) || !timecards.gotTo.Equal(wantTo) {
		t.Errorf("queried range [%s, %s), want [%s, %s)", timecards.gotFrom, timecards.gotTo, wantFrom, wantTo)
	}
}

func TestMonthlyHoursDefaultsToCurrentMonth(t *testing.T) {
	now := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	svc, timecards := newReportFixture(now)

	totals, err := svc.MonthlyHours(context.Background(), "U1", "")
	if err != nil {
		t.Fatalf("MonthlyHours error: %v", err)
	}
	if len(totals) != 0 {
		t.Errorf("totals = %+v, want none", totals)
	}

	wantFrom := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !timecards.gotFrom.Equal(wantFrom) || !timecards.gotTo.Equal(wantTo) {
		t.Errorf("queried range [%s, %s), want [%s, %s)", timecards.gotFrom, timecards.gotTo, wantFrom, wantTo)
	}
}

func TestMonthlyHoursRejectsBadMonth(t *testing.T) {
	svc, _ := newReportFixture(time.Now())

	for _, month := range []string{"November", "2023-11", "2023/13"} {
		if _, err := svc.MonthlyHours(context.Background(), "U1", month); !util.HasCode(err, util.CodeValidationFailed) {
			t.Errorf("month %q: err = %v, want VALIDATION_FAILED", month, err)
		}
	}
}

func TestMonthlyCSV(t *testing.T) {
	now := time.Date(2023, 11, 25, 12, 0, 0, 0, time.UTC)
	svc, timecards := newReportFixture(now)
	timecards.userRecords = []repository.MonthlyRecord{
		monthlyRecord("Taro", "CREST",
			time.Date(2023, 11, 18, 10, 0, 0, 0, time.UTC),
			time.Date(2023, 11, 18, 18, 0, 0, 0, time.UTC),
			domain.HourMinuteFromClock(1, 0), "dataset review"),
		monthlyRecord("Taro", "CREST",
			time.Date(2023, 11, 20, 9, 30, 0, 0, time.UTC),
			time.Date(2023, 11, 20, 12, 0, 0, 0, time.UTC),
			domain.HourMinute{}, "paper reading"),
	}

	export, err := svc.MonthlyCSV(context.Background(), "U1", "2023/11")
	if err != nil {
		t.Fatalf("MonthlyCSV error: %v", err)
	}
	if export.Filename != "2023_11_working_hours.csv" {
		t.Errorf("Filename = %q", export.Filename)
	}
	if export.Title != "Work records in 2023/11" {
		t.Errorf("Title = %q, want %q", export.Title, "Work records in 2023/11")
	}

	rows, err := csv.NewReader(bytes.NewReader(export.Content)).ReadAll()
	if err != nil {
		t.Fatalf("re-reading CSV: %v", err)
	}
	want := [][]string{
		{"category", "date", "start", "end", "break", "description"},
		{"CREST", "18", "1000", "1800", "0100", "dataset review"},
		{"CREST", "20", "0930", "1200", "0000", "paper reading"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestMonthlyCSVEmptyMonth(t *testing.T) {
	svc, _ := newReportFixture(time.Now())

	export, err := svc.MonthlyCSV(context.Background(), "U1", "2023/11")
	if err != nil {
		t.Fatalf("MonthlyCSV error: %v", err)
	}
	if export != nil {
		t.Errorf("export = %+v, want nil for an empty month", export)
	}
}

func TestAdminMonthlyCSV(t *testing.T) {
	now := time.Date(2023, 11, 25, 12, 0, 0, 0, time.UTC)
	svc, timecards := newReportFixture(now)
	timecards.allRecords = []repository.MonthlyRecord{
		monthlyRecord("Taro", "CREST",
			time.Date(2023, 11, 18, 10, 0, 0, 0, time.UTC),
			time.Date(2023, 11, 18, 18, 0, 0, 0, time.UTC),
			domain.HourMinuteFromClock(1, 0), "データセット確認"),
		monthlyRecord("Hanako", "JST",
			time.Date(2023, 11, 19, 13, 0, 0, 0, time.UTC),
			time.Date(2023, 11, 19, 17, 30, 0, 0, time.UTC),
			domain.HourMinute{}, "meeting"),
	}

	export, err := svc.AdminMonthlyCSV(context.Background(), "2023/11")
	if err != nil {
		t.Fatalf("AdminMonthlyCSV error: %v", err)
	}
	if export.Filename != "2023_11_all_working_records.csv" {
		t.Errorf("Filename = %q", export.Filename)
	}

	// The payload is Shift_JIS encoded; decode before reading it back.
	decoded := transform.NewReader(bytes.NewReader(export.Content), japanese.ShiftJIS.NewDecoder())
	rows, err := csv.NewReader(decoded).ReadAll()
	if err != nil {
		t.Fatalf("re-reading CSV: %v", err)
	}
	want := [][]string{
		{"name", "category", "start_timestamp", "end_timestamp", "work_duration", "break_duration", "description"},
		{"Taro", "CREST", "2023/11/18 10:00:00", "2023/11/18 18:00:00", "08:00", "01:00", "データセット確認"},
		{"Hanako", "JST", "2023/11/19 13:00:00", "2023/11/19 17:30:00", "04:30", "00:00", "meeting"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestAdminMonthlyCSVEmptyMonth(t *testing.T) {
	svc, _ := newReportFixture(time.Now())

	export, err := svc.AdminMonthlyCSV(context.Background(), "2023/11")
	if err != nil {
		t.Fatalf("AdminMonthlyCSV error: %v", err)
	}
	if export != nil {
		t.Errorf("export = %+v, want nil for an empty month", export)
	}
}
