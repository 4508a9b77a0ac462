package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/timecard-bot/internal/domain"
)

// UserRepository defines persistence access for registered lab members.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetBySlackID(ctx context.Context, slackUserID string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO bot_users (slack_user_id, name)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		user.SlackUserID,
		user.Name,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetBySlackID(ctx context.Context, slackUserID string) (*domain.User, error) {
	const query = `
        SELECT id, slack_user_id, name, created_at
        FROM bot_users WHERE slack_user_id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, slackUserID).Scan(
		&user.ID,
		&user.SlackUserID,
		&user.Name,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
