package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/Mujtaba19938/FINDASH/internal/service"
)

var _ service.Storage = (*PostgresStorage)(nil)

// PostgresStorage implements the Storage interface on PostgreSQL.
type PostgresStorage struct {
	*sqlStore
}

// NewPostgresStorage connects to PostgreSQL using a lib/pq DSN or URL.
func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(dsn, "dsn"); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStorage{
		sqlStore: &sqlStore{db: db, dialect: postgresDialect},
	}, nil
}

// Migrate runs all pending database migrations.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	return migrate(ctx, p.db, postgresDialect, postgresVersioner{})
}

// Close closes the connection pool.
func (p *PostgresStorage) Close() error {
	return p.db.Close()
}

// postgresVersioner tracks the schema version in a single-row table.
type postgresVersioner struct{}

func (postgresVersioner) current(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, err
	}

	var version int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	return version, err
}

func (postgresVersioner) set(tx *sql.Tx, version int) error {
	if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
		return err
	}
	_, err := tx.Exec(`INSERT INTO schema_version (version) VALUES ($1)`, version)
	return err
}
