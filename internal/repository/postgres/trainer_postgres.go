package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

const trainerColumns = `id, user_id, name, email, phone, specialties, bio, hourly_rate, photo_path, created_at`

// TrainerPostgres is a PostgreSQL implementation of repository.TrainerRepository.
type TrainerPostgres struct {
	db *sql.DB
}

// NewTrainerPostgres creates a new TrainerPostgres repository.
func NewTrainerPostgres(db *sql.DB) *TrainerPostgres {
	return &TrainerPostgres{db: db}
}

var _ repository.TrainerRepository = (*TrainerPostgres)(nil)

func scanTrainer(row rowScanner) (*model.Trainer, error) {
	var t model.Trainer
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Email,
		&t.Phone,
		pq.Array(&t.Specialties),
		&t.Bio,
		&t.HourlyRate,
		&t.PhotoPath,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByID fetches a trainer by its ID.
func (r *TrainerPostgres) FindByID(ctx context.Context, id string) (*model.Trainer, error) {
	const q = `SELECT ` + trainerColumns + ` FROM trainers WHERE id = $1`
	return scanTrainer(r.db.QueryRowContext(ctx, q, id))
}

// FindByUserID fetches the trainer profile attached to a user.
func (r *TrainerPostgres) FindByUserID(ctx context.Context, userID string) (*model.Trainer, error) {
	const q = `SELECT ` + trainerColumns + ` FROM trainers WHERE user_id = $1`
	return scanTrainer(r.db.QueryRowContext(ctx, q, userID))
}

// List returns trainers using LIMIT/OFFSET pagination and a total count.
func (r *TrainerPostgres) List(ctx context.Context, page repository.PageQuery) (*repository.PageResult[model.Trainer], error) {
	const qCount = `SELECT COUNT(*) FROM trainers`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + trainerColumns + `
		FROM trainers
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Trainer, 0)
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Trainer]{
		Items: items,
		Total: total,
	}, nil
}

// UpdatePhoto stores the object key of the trainer's photo and returns the key
// it replaced. The old value is read under the row lock taken by the update.
func (r *TrainerPostgres) UpdatePhoto(ctx context.Context, id, photoPath string) (string, error) {
	const q = `
		UPDATE trainers t SET photo_path = $2
		FROM (SELECT id, photo_path FROM trainers WHERE id = $1 FOR UPDATE) prev
		WHERE t.id = prev.id
		RETURNING COALESCE(prev.photo_path, '')
	`
	var previous string
	if err := r.db.QueryRowContext(ctx, q, id, photoPath).Scan(&previous); err != nil {
		return "", err
	}
	return previous, nil
}
