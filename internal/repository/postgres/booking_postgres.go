package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

const bookingColumns = `b.id, b.session_id, b.client_id, b.status, b.booking_date, b.created_at`

// BookingPostgres is a PostgreSQL implementation of repository.BookingRepository.
type BookingPostgres struct {
	db *sql.DB
}

// NewBookingPostgres creates a new BookingPostgres repository.
func NewBookingPostgres(db *sql.DB) *BookingPostgres {
	return &BookingPostgres{db: db}
}

var _ repository.BookingRepository = (*BookingPostgres)(nil)

func bookingDest(b *model.Booking) []any {
	return []any{
		&b.ID,
		&b.SessionID,
		&b.ClientID,
		&b.Status,
		&b.BookingDate,
		&b.CreatedAt,
	}
}

// Create inserts a booking row and returns the stored record. The session row
// is share-locked by the insert, so a concurrent session cancel either runs
// first and makes the insert a no-op or waits and then cascades to the new row.
func (r *BookingPostgres) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	const q = `
		INSERT INTO bookings AS b (id, session_id, client_id, status, booking_date, created_at)
		SELECT $1, s.id, $3, $4, $5, $6
		FROM training_sessions s
		WHERE s.id = $2 AND s.status = $7
		FOR SHARE
		RETURNING ` + bookingColumns
	var out model.Booking
	if err := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.SessionID,
		b.ClientID,
		b.Status,
		b.BookingDate,
		b.CreatedAt,
		model.SessionAvailable,
	).Scan(bookingDest(&out)...); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStateConflict
		}
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single booking by its ID.
func (r *BookingPostgres) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`
	var out model.Booking
	if err := r.db.QueryRowContext(ctx, q, id).Scan(bookingDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByTrainer returns bookings against the trainer's sessions with client details.
func (r *BookingPostgres) ListByTrainer(ctx context.Context, trainerID string) ([]model.BookingWithClient, error) {
	const q = `
		SELECT ` + bookingColumns + `, u.full_name, u.email
		FROM bookings b
		JOIN training_sessions s ON s.id = b.session_id
		JOIN users u ON u.id = b.client_id
		WHERE s.trainer_id = $1
		ORDER BY b.booking_date ASC, b.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BookingWithClient, 0)
	for rows.Next() {
		var b model.BookingWithClient
		dest := append(bookingDest(&b.Booking), &b.Client.FullName, &b.Client.Email)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByClient returns the client's bookings with their session and trainer name, newest first.
func (r *BookingPostgres) ListByClient(ctx context.Context, clientID string) ([]model.ClientBooking, error) {
	const q = `
		SELECT ` + bookingColumns + `, ` + sessionColumns + `, t.name
		FROM bookings b
		JOIN training_sessions s ON s.id = b.session_id
		JOIN trainers t ON t.id = s.trainer_id
		WHERE b.client_id = $1
		ORDER BY b.booking_date DESC, b.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ClientBooking, 0)
	for rows.Next() {
		var cb model.ClientBooking
		dest := append(bookingDest(&cb.Booking), sessionDest(&cb.Session)...)
		dest = append(dest, &cb.TrainerName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus sets the status of a booking whose current status is one of from.
func (r *BookingPostgres) UpdateStatus(ctx context.Context, id string, status model.BookingStatus, from ...model.BookingStatus) error {
	accepted := make([]string, len(from))
	for i, st := range from {
		accepted[i] = string(st)
	}

	const q = `UPDATE bookings SET status = $2 WHERE id = $1 AND status = ANY($3)`
	res, err := r.db.ExecContext(ctx, q, id, status, pq.Array(accepted))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if err := expectAffected(res); !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}
	return repository.ErrStateConflict
}
