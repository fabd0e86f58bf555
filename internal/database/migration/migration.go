package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is the last table created by steps; its presence means the schema is in place.
const sentinelTable = "public.revoked_tokens"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email              TEXT        NOT NULL UNIQUE,
  password_hash      TEXT        NOT NULL,
  full_name          TEXT        NOT NULL DEFAULT '',
  confirmation_token TEXT        UNIQUE,
  email_confirmed_at TIMESTAMPTZ,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_trainers",
		SQL: `CREATE TABLE IF NOT EXISTS trainers (
  id          UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id     UUID          NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,
  name        TEXT          NOT NULL,
  email       TEXT          NOT NULL,
  phone       TEXT          NOT NULL DEFAULT '',
  specialties TEXT[]        NOT NULL DEFAULT '{}',
  bio         TEXT          NOT NULL DEFAULT '',
  hourly_rate NUMERIC(10,2) NOT NULL CHECK (hourly_rate >= 0),
  photo_path  TEXT,
  created_at  TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_training_sessions",
		SQL: `CREATE TABLE IF NOT EXISTS training_sessions (
  id           UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  trainer_id   UUID          NOT NULL REFERENCES trainers (id) ON DELETE CASCADE,
  session_date DATE          NOT NULL,
  start_time   TIME          NOT NULL,
  end_time     TIME          NOT NULL CHECK (end_time > start_time),
  session_type TEXT          NOT NULL CHECK (session_type IN ('personal', 'group', 'virtual')),
  price        NUMERIC(10,2) NOT NULL CHECK (price >= 0),
  notes        TEXT          NOT NULL DEFAULT '',
  status       TEXT          NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'cancelled', 'completed')),
  created_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_training_sessions_status_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_training_sessions_status_date ON training_sessions (status, session_date, start_time);`,
	},
	{
		Name: "create_index_training_sessions_trainer",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_training_sessions_trainer ON training_sessions (trainer_id, session_date);`,
	},
	{
		Name: "create_table_bookings",
		SQL: `CREATE TABLE IF NOT EXISTS bookings (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  session_id   UUID        NOT NULL REFERENCES training_sessions (id) ON DELETE CASCADE,
  client_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  status       TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled')),
  booking_date TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_bookings_active_client_session",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_client_session
  ON bookings (session_id, client_id) WHERE status <> 'cancelled';`,
	},
	{
		Name: "create_index_bookings_client",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings (client_id, booking_date);`,
	},
	{
		Name: "create_table_revoked_tokens",
		SQL: `CREATE TABLE IF NOT EXISTS revoked_tokens (
  jti        TEXT        PRIMARY KEY,
  expires_at TIMESTAMPTZ NOT NULL
);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
