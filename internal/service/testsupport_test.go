package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/timecard-bot/internal/domain"
	"github.com/spec-kit/timecard-bot/internal/repository"
)

// In-memory repository fakes mirroring the Postgres constraints the real
// implementations rely on (unique keys, the end-after-start check).

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.SlackUserID]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "bot_users_slack_user_id_key"}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	clone := *user
	f.users[user.SlackUserID] = &clone
	return nil
}

func (f *fakeUserRepo) GetBySlackID(_ context.Context, slackUserID string) (*domain.User, error) {
	user, ok := f.users[slackUserID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

type fakeCategoryRepo struct {
	users      *fakeUserRepo
	categories []*domain.JobCategory
	nextID     int64
}

func newFakeCategoryRepo(users *fakeUserRepo) *fakeCategoryRepo {
	return &fakeCategoryRepo{users: users}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.JobCategory) error {
	for _, existing := range f.categories {
		if existing.UserID == category.UserID && existing.Name == category.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "job_categories_user_name_unique"}
		}
	}
	f.nextID++
	category.ID = f.nextID
	category.CreatedAt = time.Now()
	clone := *category
	f.categories = append(f.categories, &clone)
	return nil
}

func (f *fakeCategoryRepo) GetByUserAndName(_ context.Context, userID int64, name string) (*domain.JobCategory, error) {
	for _, category := range f.categories {
		if category.UserID == userID && category.Name == name {
			clone := *category
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCategoryRepo) ResolveForSlackUser(ctx context.Context, slackUserID, name string) (*domain.User, *domain.JobCategory, error) {
	user, err := f.users.GetBySlackID(ctx, slackUserID)
	if err != nil {
		return nil, nil, err
	}
	category, err := f.GetByUserAndName(ctx, user.ID, name)
	if err != nil {
		return nil, nil, err
	}
	return user, category, nil
}

type fakeTimeCardRepo struct {
	cards  map[string]*domain.TimeCard
	nextID int64

	// categoryNames resolves job_category_id to its name for the grouped
	// sums, the way the real query joins job_categories.
	categoryNames map[int64]string
	userRecords   []repository.MonthlyRecord
	allRecords    []repository.MonthlyRecord
	gotFrom       time.Time
	gotTo         time.Time
}

func newFakeTimeCardRepo() *fakeTimeCardRepo {
	return &fakeTimeCardRepo{
		cards:         make(map[string]*domain.TimeCard),
		categoryNames: make(map[int64]string),
	}
}

func (f *fakeTimeCardRepo) UpsertByMessageTS(_ context.Context, card *domain.TimeCard) (bool, error) {
	if !card.EndTime.After(card.StartTime) {
		return false, &pgconn.PgError{Code: "23514", ConstraintName: "time_integrity"}
	}
	if existing, ok := f.cards[card.MessageTS]; ok {
		card.ID = existing.ID
		card.CreatedAt = existing.CreatedAt
		card.UpdatedAt = time.Now()
		clone := *card
		f.cards[card.MessageTS] = &clone
		return false, nil
	}
	f.nextID++
	card.ID = f.nextID
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	clone := *card
	f.cards[card.MessageTS] = &clone
	return true, nil
}

func (f *fakeTimeCardRepo) DeleteByMessageTS(_ context.Context, messageTS string) (*domain.TimeCard, error) {
	card, ok := f.cards[messageTS]
	if !ok {
		return nil, nil
	}
	delete(f.cards, messageTS)
	clone := *card
	return &clone, nil
}

func (f *fakeTimeCardRepo) SumWorkByCategory(_ context.Context, _ string, from, to time.Time) ([]repository.CategoryMinutes, error) {
	f.gotFrom, f.gotTo = from, to

	totals := make(map[string]int)
	for _, card := range f.cards {
		if card.StartTime.Before(from) || !card.EndTime.Before(to) {
			continue
		}
		name := f.categoryNames[card.JobCategoryID]
		totals[name] += card.Work.Minutes - card.Break.Minutes
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]repository.CategoryMinutes, 0, len(names))
	for _, name := range names {
		result = append(result, repository.CategoryMinutes{CategoryName: name, Minutes: totals[name]})
	}
	return result, nil
}

func (f *fakeTimeCardRepo) ListForUserInRange(_ context.Context, _ string, from, to time.Time) ([]repository.MonthlyRecord, error) {
	f.gotFrom, f.gotTo = from, to
	return f.userRecords, nil
}

func (f *fakeTimeCardRepo) ListAllInRange(_ context.Context, from, to time.Time) ([]repository.MonthlyRecord, error) {
	f.gotFrom, f.gotTo = from, to
	return f.allRecords, nil
}
