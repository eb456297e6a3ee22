package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umut/fairline/internal/pkg/logger"
)

// Migrator manages database migrations
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// migration is a versioned schema change applied exactly once.
type migration struct {
	version string
	stmts   []string
}

var allMigrations = []migration{
	{
		version: "001",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				email VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				full_name VARCHAR(255) NOT NULL,
				role VARCHAR(20) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS job_fairs (
				id BIGSERIAL PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				starts_at TIMESTAMPTZ NOT NULL,
				ends_at TIMESTAMPTZ NOT NULL,
				organizer_id BIGINT NOT NULL REFERENCES users(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS booths (
				id BIGSERIAL PRIMARY KEY,
				job_fair_id BIGINT NOT NULL REFERENCES job_fairs(id),
				company_id BIGINT NOT NULL REFERENCES users(id),
				company_name VARCHAR(255) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS booth_slots (
				booth_id BIGINT NOT NULL REFERENCES booths(id),
				slot_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (booth_id, slot_at)
			)`,
			`CREATE TABLE IF NOT EXISTS appointments (
				id BIGSERIAL PRIMARY KEY,
				reference UUID NOT NULL UNIQUE,
				student_id BIGINT NOT NULL REFERENCES users(id),
				student_name VARCHAR(255) NOT NULL,
				company_id BIGINT NOT NULL,
				company_name VARCHAR(255) NOT NULL,
				job_fair_id BIGINT NOT NULL,
				booth_id BIGINT NOT NULL,
				scheduled_at TIMESTAMPTZ NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			// Partial so a cancelled appointment does not block rebooking the
			// instant once the booth owner re-opens it.
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_active_slot
				ON appointments(booth_id, scheduled_at)
				WHERE status <> 'cancelled'`,
			`CREATE TABLE IF NOT EXISTS qna_sessions (
				id BIGSERIAL PRIMARY KEY,
				recruiter_id BIGINT NOT NULL REFERENCES users(id),
				recruiter_name VARCHAR(255) NOT NULL,
				company_id BIGINT NOT NULL,
				topic VARCHAR(255) NOT NULL,
				scheduled_at TIMESTAMPTZ NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS qna_questions (
				id BIGSERIAL PRIMARY KEY,
				session_id BIGINT NOT NULL REFERENCES qna_sessions(id),
				student_id BIGINT NOT NULL REFERENCES users(id),
				student_name VARCHAR(255) NOT NULL,
				question_text TEXT NOT NULL,
				asked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				is_answered BOOLEAN NOT NULL DEFAULT FALSE,
				answer_text TEXT
			)`,
		},
	},
	{
		version: "002",
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_booths_job_fair ON booths(job_fair_id)`,
			`CREATE INDEX IF NOT EXISTS idx_appointments_job_fair ON appointments(job_fair_id)`,
			`CREATE INDEX IF NOT EXISTS idx_appointments_student ON appointments(student_id)`,
			`CREATE INDEX IF NOT EXISTS idx_appointments_company ON appointments(company_id)`,
			`CREATE INDEX IF NOT EXISTS idx_questions_session ON qna_questions(session_id, is_answered, asked_at)`,
		},
	},
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := m.db.Exec(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	err := m.db.QueryRow(ctx, query, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// recordMigration marks a migration as applied
func (m *Migrator) recordMigration(ctx context.Context, version string) error {
	_, err := m.db.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		version, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// Run applies all pending migrations in order.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	for _, mig := range allMigrations {
		applied, err := m.isMigrationApplied(ctx, mig.version)
		if err != nil {
			return err
		}
		if applied {
			logger.Debug().Str("version", mig.version).Msg("Migration already applied, skipping")
			continue
		}

		for _, stmt := range mig.stmts {
			if _, err := m.db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s failed: %w", mig.version, err)
			}
		}

		if err := m.recordMigration(ctx, mig.version); err != nil {
			return err
		}
		logger.Info().Str("version", mig.version).Msg("Migration applied")
	}

	return nil
}
