// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

//go:generate mockgen -destination=mock_store.go -package=service . RecordStore

// TransactionFilter narrows a transaction query. Zero value means "all transactions, newest first".
type TransactionFilter struct {
	// Since is an inclusive lower bound on Timestamp.
	Since *time.Time
	// Until is an upper bound on Timestamp, inclusive unless UntilExclusive is set.
	Until          *time.Time
	Limit          int
	UntilExclusive bool
	// OutflowsOnly keeps only negative amounts.
	OutflowsOnly bool
	// Ascending orders oldest first.
	Ascending bool
}

// PaymentFilter narrows a recurring payment query.
type PaymentFilter struct {
	// DueFrom is an inclusive lower bound on DueDate.
	DueFrom *time.Time
}

// RecordStore is the read contract the analytics engine consumes. Every read is
// scoped to a single user.
type RecordStore interface {
	ListIncomes(ctx context.Context, userID string) ([]model.Income, error)
	ListExpenses(ctx context.Context, userID string) ([]model.Expense, error)
	// ListRecurringPayments returns payments ordered by due date ascending.
	ListRecurringPayments(ctx context.Context, userID string, filter PaymentFilter) ([]model.RecurringPayment, error)
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]model.Transaction, error)
	// LatestBalance returns common.ErrNotFound when the user has no snapshots.
	LatestBalance(ctx context.Context, userID string) (*model.BalanceSnapshot, error)
}

// RecordWriter persists user records. Used by importers and the CLI, never by the engine.
type RecordWriter interface {
	SaveIncome(ctx context.Context, income *model.Income) error
	SaveExpense(ctx context.Context, expense *model.Expense) error
	SaveRecurringPayment(ctx context.Context, payment *model.RecurringPayment) error
	// SaveTransactions skips transactions that were already imported.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	SaveBalanceSnapshot(ctx context.Context, snapshot *model.BalanceSnapshot) error
}

// Storage is a full persistence backend.
type Storage interface {
	RecordStore
	RecordWriter

	Migrate(ctx context.Context) error
	Close() error
}
