package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx, dialect) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx, d dialect) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS incomes (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					amount {{REAL}} NOT NULL,
					frequency TEXT NOT NULL,
					last_received {{TIMESTAMP}},
					currency TEXT NOT NULL DEFAULT 'USD',
					source TEXT NOT NULL DEFAULT '',
					created_at {{TIMESTAMP}} DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_incomes_user ON incomes(user_id)`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					amount {{REAL}} NOT NULL,
					category TEXT NOT NULL,
					recurrence TEXT NOT NULL,
					is_fixed BOOLEAN NOT NULL DEFAULT FALSE,
					currency TEXT NOT NULL DEFAULT 'USD',
					created_at {{TIMESTAMP}} DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id)`,

				`CREATE TABLE IF NOT EXISTS recurring_payments (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					amount {{REAL}} NOT NULL,
					due_date {{TIMESTAMP}} NOT NULL,
					recurrence TEXT NOT NULL,
					type TEXT NOT NULL,
					priority_hint INTEGER NOT NULL DEFAULT 0,
					currency TEXT NOT NULL DEFAULT 'USD',
					description TEXT NOT NULL DEFAULT '',
					created_at {{TIMESTAMP}} DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_recurring_payments_user_due ON recurring_payments(user_id, due_date)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					user_id TEXT NOT NULL,
					amount {{REAL}} NOT NULL,
					category TEXT NOT NULL,
					vendor TEXT NOT NULL DEFAULT '',
					timestamp {{TIMESTAMP}} NOT NULL,
					currency TEXT NOT NULL DEFAULT 'USD',
					account_id TEXT NOT NULL DEFAULT '',
					is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
					created_at {{TIMESTAMP}} DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_user_timestamp ON transactions(user_id, timestamp)`,

				`CREATE TABLE IF NOT EXISTS balance_snapshots (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					timestamp {{TIMESTAMP}} NOT NULL,
					balance {{REAL}} NOT NULL,
					currency TEXT NOT NULL DEFAULT 'USD',
					account_id TEXT NOT NULL DEFAULT '',
					created_at {{TIMESTAMP}} DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_balance_snapshots_user_timestamp ON balance_snapshots(user_id, timestamp)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(d.ddl(query)); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add outflow index for burn rate and anomaly windows",
		Up: func(tx *sql.Tx, d dialect) error {
			_, err := tx.Exec(d.ddl(`CREATE INDEX IF NOT EXISTS idx_transactions_user_amount ON transactions(user_id, amount)`))
			return err
		},
	},
}

// versioner reads and writes the schema version for a dialect.
type versioner interface {
	current(ctx context.Context, db *sql.DB) (int, error)
	set(tx *sql.Tx, version int) error
}

// migrate applies all pending migrations and verifies the final version.
func migrate(ctx context.Context, db *sql.DB, d dialect, v versioner) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := v.current(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx, d); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if setErr := v.set(tx, migration.Version); setErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", setErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"driver", d.name,
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := v.current(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// ddl expands the type placeholders used in migration statements.
func (d dialect) ddl(query string) string {
	return strings.NewReplacer(
		"{{REAL}}", d.realType,
		"{{TIMESTAMP}}", d.timestampType,
	).Replace(query)
}
