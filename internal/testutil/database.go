// Package testutil provides a migrated SQLite database and record fixtures for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Mujtaba19938/FINDASH/internal/service"
	"github.com/Mujtaba19938/FINDASH/internal/storage"
)

// TestDB is a migrated in-memory SQLite database scoped to one test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Fixture        Fixture
	SkipMigrations bool
}

// SetupTestDB creates a migrated in-memory database seeded with fixture.
// The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewFixture("u1").
//		WithIncome(3000, model.RecurrenceMonthly).
//		WithBalance(5000, now).
//		Build())
func SetupTestDB(t *testing.T, fixture Fixture) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Fixture: fixture})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := &TestDB{Storage: store, t: t}
	db.Seed(opts.Fixture)

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}
	return db
}

// Seed writes every record in fixture or fails the test.
func (db *TestDB) Seed(fixture Fixture) {
	db.t.Helper()
	if err := fixture.Apply(context.Background(), db.Storage); err != nil {
		db.t.Fatalf("failed to seed fixture: %v", err)
	}
}
