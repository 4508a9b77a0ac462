package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/timecard-bot/internal/domain"
)

// MonthlyRecord is a timecard joined with its category and owner, the row
// shape the CSV exports consume.
type MonthlyRecord struct {
	UserName     string
	CategoryName string
	Card         domain.TimeCard
}

// CategoryMinutes is the net worked total for one RA job: work minus break,
// in whole minutes.
type CategoryMinutes struct {
	CategoryName string
	Minutes      int
}

// TimeCardRepository defines persistence access for work records.
//
// UpsertByMessageTS and DeleteByMessageTS each run inside a single
// transaction: the lookup by message timestamp and the following write commit
// or roll back together, which keeps concurrent edits of the same message
// from racing past each other (multiple bot instances may share the store).
type TimeCardRepository interface {
	UpsertByMessageTS(ctx context.Context, card *domain.TimeCard) (created bool, err error)
	// DeleteByMessageTS removes the record for a deleted message and returns
	// it. A nil record with nil error means no record carried that timestamp.
	DeleteByMessageTS(ctx context.Context, messageTS string) (*domain.TimeCard, error)
	// SumWorkByCategory totals net worked minutes per RA job within the
	// half-open [from, to) range, ordered by category name.
	SumWorkByCategory(ctx context.Context, slackUserID string, from, to time.Time) ([]CategoryMinutes, error)
	ListForUserInRange(ctx context.Context, slackUserID string, from, to time.Time) ([]MonthlyRecord, error)
	ListAllInRange(ctx context.Context, from, to time.Time) ([]MonthlyRecord, error)
}

type timeCardRepository struct {
	pool *pgxpool.Pool
}

// NewTimeCardRepository returns a Postgres-backed implementation.
func NewTimeCardRepository(pool *pgxpool.Pool) TimeCardRepository {
	return &timeCardRepository{pool: pool}
}

func (r *timeCardRepository) UpsertByMessageTS(ctx context.Context, card *domain.TimeCard) (bool, error) {
	const lockQuery = `
        SELECT id FROM timecards WHERE message_ts=$1 FOR UPDATE`
	const insertQuery = `
        INSERT INTO timecards (job_category_id, start_time, end_time, work_minutes, break_minutes, description, message_ts)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	const updateQuery = `
        UPDATE timecards SET start_time=$1, end_time=$2, work_minutes=$3, break_minutes=$4, description=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING created_at, updated_at`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existingID int64
	err = tx.QueryRow(ctx, lockQuery, card.MessageTS).Scan(&existingID)

	created := false
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		created = true
		err = tx.QueryRow(ctx, insertQuery,
			card.JobCategoryID,
			card.StartTime,
			card.EndTime,
			card.Work.Minutes,
			card.Break.Minutes,
			card.Description,
			card.MessageTS,
		).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	case err == nil:
		// Edited message: overwrite the reported fields in place. The owning
		// category and the message timestamp never change.
		card.ID = existingID
		err = tx.QueryRow(ctx, updateQuery,
			card.StartTime,
			card.EndTime,
			card.Work.Minutes,
			card.Break.Minutes,
			card.Description,
			card.ID,
		).Scan(&card.CreatedAt, &card.UpdatedAt)
	}
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return created, nil
}

func (r *timeCardRepository) DeleteByMessageTS(ctx context.Context, messageTS string) (*domain.TimeCard, error) {
	const lockQuery = `
        SELECT id, job_category_id, start_time, end_time, work_minutes, break_minutes, description, message_ts, created_at, updated_at
        FROM timecards WHERE message_ts=$1 FOR UPDATE`
	const deleteQuery = `
        DELETE FROM timecards WHERE id=$1`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var card domain.TimeCard
	err = tx.QueryRow(ctx, lockQuery, messageTS).Scan(
		&card.ID,
		&card.JobCategoryID,
		&card.StartTime,
		&card.EndTime,
		&card.Work.Minutes,
		&card.Break.Minutes,
		&card.Description,
		&card.MessageTS,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// The deleted message never was a work record.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, deleteQuery, card.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *timeCardRepository) SumWorkByCategory(ctx context.Context, slackUserID string, from, to time.Time) ([]CategoryMinutes, error) {
	const query = `
        SELECT c.name, SUM(t.work_minutes - t.break_minutes)
        FROM timecards t
        JOIN job_categories c ON c.id = t.job_category_id
        JOIN bot_users u ON u.id = c.user_id
        WHERE u.slack_user_id=$1 AND t.start_time >= $2 AND t.end_time < $3
        GROUP BY c.name
        ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query, slackUserID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryMinutes
	for rows.Next() {
		var total CategoryMinutes
		if err := rows.Scan(&total.CategoryName, &total.Minutes); err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

func (r *timeCardRepository) ListForUserInRange(ctx context.Context, slackUserID string, from, to time.Time) ([]MonthlyRecord, error) {
	const query = `
        SELECT u.name, c.name,
               t.id, t.job_category_id, t.start_time, t.end_time, t.work_minutes, t.break_minutes, t.description, t.message_ts, t.created_at, t.updated_at
        FROM timecards t
        JOIN job_categories c ON c.id = t.job_category_id
        JOIN bot_users u ON u.id = c.user_id
        WHERE u.slack_user_id=$1 AND t.start_time >= $2 AND t.end_time < $3
        ORDER BY t.start_time`

	rows, err := r.pool.Query(ctx, query, slackUserID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMonthlyRecords(rows)
}

func (r *timeCardRepository) ListAllInRange(ctx context.Context, from, to time.Time) ([]MonthlyRecord, error) {
	const query = `
        SELECT u.name, c.name,
               t.id, t.job_category_id, t.start_time, t.end_time, t.work_minutes, t.break_minutes, t.description, t.message_ts, t.created_at, t.updated_at
        FROM timecards t
        JOIN job_categories c ON c.id = t.job_category_id
        JOIN bot_users u ON u.id = c.user_id
        WHERE t.start_time >= $1 AND t.end_time < $2
        ORDER BY c.name, u.id, t.start_time`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMonthlyRecords(rows)
}

func scanMonthlyRecords(rows pgx.Rows) ([]MonthlyRecord, error) {
	var result []MonthlyRecord
	for rows.Next() {
		var record MonthlyRecord
		if err := rows.Scan(
			&record.UserName,
			&record.CategoryName,
			&record.Card.ID,
			&record.Card.JobCategoryID,
			&record.Card.StartTime,
			&record.Card.EndTime,
			&record.Card.Work.Minutes,
			&record.Card.Break.Minutes,
			&record.Card.Description,
			&record.Card.MessageTS,
			&record.Card.CreatedAt,
			&record.Card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
