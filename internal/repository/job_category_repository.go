package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/timecard-bot/internal/domain"
)

// JobCategoryRepository defines persistence access for RA job categories.
type JobCategoryRepository interface {
	Create(ctx context.Context, category *domain.JobCategory) error
	GetByUserAndName(ctx context.Context, userID int64, name string) (*domain.JobCategory, error)
	// ResolveForSlackUser joins users and categories to find the category a
	// Slack user reports against. pgx.ErrNoRows means either the user or the
	// category is missing.
	ResolveForSlackUser(ctx context.Context, slackUserID, name string) (*domain.User, *domain.JobCategory, error)
}

type jobCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewJobCategoryRepository returns a Postgres-backed implementation.
func NewJobCategoryRepository(pool *pgxpool.Pool) JobCategoryRepository {
	return &jobCategoryRepository{pool: pool}
}

func (r *jobCategoryRepository) Create(ctx context.Context, category *domain.JobCategory) error {
	const query = `
        INSERT INTO job_categories (user_id, name)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		category.UserID,
		category.Name,
	).Scan(&category.ID, &category.CreatedAt)
}

func (r *jobCategoryRepository) GetByUserAndName(ctx context.Context, userID int64, name string) (*domain.JobCategory, error) {
	const query = `
        SELECT id, user_id, name, created_at
        FROM job_categories WHERE user_id=$1 AND name=$2`

	var category domain.JobCategory
	if err := r.pool.QueryRow(ctx, query, userID, name).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *jobCategoryRepository) ResolveForSlackUser(ctx context.Context, slackUserID, name string) (*domain.User, *domain.JobCategory, error) {
	const query = `
        SELECT u.id, u.slack_user_id, u.name, u.created_at,
               c.id, c.user_id, c.name, c.created_at
        FROM bot_users u
        JOIN job_categories c ON c.user_id = u.id
        WHERE u.slack_user_id=$1 AND c.name=$2`

	var (
		user     domain.User
		category domain.JobCategory
	)
	if err := r.pool.QueryRow(ctx, query, slackUserID, name).Scan(
		&user.ID,
		&user.SlackUserID,
		&user.Name,
		&user.CreatedAt,
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.CreatedAt,
	); err != nil {
		return nil, nil, err
	}
	return &user, &category, nil
}
