package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

// Times are rendered as HH:MM so they round-trip through the API unchanged.
const sessionColumns = `s.id, s.trainer_id, s.session_date, to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
		s.session_type, s.price, s.notes, s.status, s.created_at`

// SessionPostgres is a PostgreSQL implementation of repository.SessionRepository.
type SessionPostgres struct {
	db *sql.DB
}

// NewSessionPostgres creates a new SessionPostgres repository.
func NewSessionPostgres(db *sql.DB) *SessionPostgres {
	return &SessionPostgres{db: db}
}

var _ repository.SessionRepository = (*SessionPostgres)(nil)

func sessionDest(s *model.TrainingSession) []any {
	return []any{
		&s.ID,
		&s.TrainerID,
		&s.SessionDate,
		&s.StartTime,
		&s.EndTime,
		&s.SessionType,
		&s.Price,
		&s.Notes,
		&s.Status,
		&s.CreatedAt,
	}
}

// Create inserts a new training session and returns the stored record.
func (r *SessionPostgres) Create(ctx context.Context, s *model.TrainingSession) (*model.TrainingSession, error) {
	const q = `
		INSERT INTO training_sessions AS s
			(id, trainer_id, session_date, start_time, end_time, session_type, price, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + sessionColumns
	var out model.TrainingSession
	if err := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.TrainerID,
		s.SessionDate,
		s.StartTime,
		s.EndTime,
		s.SessionType,
		s.Price,
		s.Notes,
		s.Status,
		s.CreatedAt,
	).Scan(sessionDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single training session by its ID.
func (r *SessionPostgres) FindByID(ctx context.Context, id string) (*model.TrainingSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM training_sessions s WHERE s.id = $1`
	var out model.TrainingSession
	if err := r.db.QueryRowContext(ctx, q, id).Scan(sessionDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAvailable returns available sessions with their trainer, soonest first.
func (r *SessionPostgres) ListAvailable(ctx context.Context, page repository.PageQuery) (*repository.PageResult[model.SessionListing], error) {
	const qCount = `SELECT COUNT(*) FROM training_sessions WHERE status = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, model.SessionAvailable).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + sessionColumns + `, t.name, t.specialties, t.hourly_rate
		FROM training_sessions s
		JOIN trainers t ON t.id = s.trainer_id
		WHERE s.status = $1
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, model.SessionAvailable, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SessionListing, 0)
	for rows.Next() {
		var l model.SessionListing
		dest := append(sessionDest(&l.TrainingSession),
			&l.Trainer.Name,
			pq.Array(&l.Trainer.Specialties),
			&l.Trainer.HourlyRate,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.SessionListing]{
		Items: items,
		Total: total,
	}, nil
}

// ListByTrainer returns all sessions owned by a trainer ordered by date.
func (r *SessionPostgres) ListByTrainer(ctx context.Context, trainerID string) ([]model.TrainingSession, error) {
	const q = `
		SELECT ` + sessionColumns + `
		FROM training_sessions s
		WHERE s.trainer_id = $1
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TrainingSession, 0)
	for rows.Next() {
		var s model.TrainingSession
		if err := rows.Scan(sessionDest(&s)...); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus sets the status of a session; cancelling also cancels its active bookings.
func (r *SessionPostgres) UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE training_sessions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if status == model.SessionCancelled {
		const q = `UPDATE bookings SET status = $2 WHERE session_id = $1 AND status <> $2`
		if _, err := tx.ExecContext(ctx, q, id, model.BookingCancelled); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
