package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

var sessionCols = []string{"id", "trainer_id", "session_date", "start_time", "end_time", "session_type", "price", "notes", "status", "created_at"}

func sessionRow(id, trainerID string, date time.Time, start, end string) []driver.Value {
	return []driver.Value{id, trainerID, date, start, end, "personal", "50.00", "", "available", time.Now()}
}

func TestSessionPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	s := &model.TrainingSession{
		ID:          "session-1",
		TrainerID:   "trainer-1",
		SessionDate: date,
		StartTime:   "09:00",
		EndTime:     "10:00",
		SessionType: model.SessionPersonal,
		Price:       50,
		Status:      model.SessionAvailable,
		CreatedAt:   now,
	}

	mock.ExpectQuery("INSERT INTO training_sessions").
		WithArgs(s.ID, s.TrainerID, date, "09:00", "10:00", "personal", 50.0, "", "available", now).
		WillReturnRows(sqlmock.NewRows(sessionCols).AddRow(sessionRow(s.ID, s.TrainerID, date, "09:00", "10:00")...))

	got, err := NewSessionPostgres(db).Create(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, "session-1", got.ID)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, 50.0, got.Price)
	assert.Equal(t, model.SessionAvailable, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM training_sessions s WHERE s.id = ?").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, got)
}

func TestSessionPostgres_ListAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cols := append(append([]string{}, sessionCols...), "name", "specialties", "hourly_rate")

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM training_sessions WHERE status = ?").
		WithArgs("available").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("JOIN trainers t (.+) ORDER BY s.session_date ASC, s.start_time ASC").
		WithArgs("available", 10, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(append(sessionRow("s-1", "t-1", date, "08:00", "09:00"), "Tom", "{yoga,hiit}", "40")...).
			AddRow(append(sessionRow("s-2", "t-2", date, "10:00", "11:00"), "Ana", "{}", "35.5")...))

	res, err := NewSessionPostgres(db).ListAvailable(context.Background(), repository.PageQuery{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Tom", res.Items[0].Trainer.Name)
	assert.Equal(t, []string{"yoga", "hiit"}, res.Items[0].Trainer.Specialties)
	assert.Equal(t, 35.5, res.Items[1].Trainer.HourlyRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPostgres_ListByTrainer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM training_sessions s WHERE s.trainer_id = ?").
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows(sessionCols).AddRow(sessionRow("s-1", "t-1", date, "07:30", "08:30")...))

	items, err := NewSessionPostgres(db).ListByTrainer(context.Background(), "t-1")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "07:30", items[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPostgres_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel cascades to bookings", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE training_sessions SET status").
			WithArgs("s-1", "cancelled").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("s-1", "cancelled").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		assert.NoError(t, NewSessionPostgres(db).UpdateStatus(ctx, "s-1", model.SessionCancelled))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("complete leaves bookings alone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE training_sessions SET status").
			WithArgs("s-1", "completed").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, NewSessionPostgres(db).UpdateStatus(ctx, "s-1", model.SessionCompleted))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing session", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE training_sessions SET status").
			WithArgs("missing", "cancelled").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = NewSessionPostgres(db).UpdateStatus(ctx, "missing", model.SessionCancelled)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking cascade failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE training_sessions SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE bookings SET status").
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		err = NewSessionPostgres(db).UpdateStatus(ctx, "s-1", model.SessionCancelled)

		assert.EqualError(t, err, "deadlock detected")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
