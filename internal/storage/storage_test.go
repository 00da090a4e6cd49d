package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// backends returns every Storage implementation that can run without external services.
func backends(t *testing.T) map[string]service.Storage {
	t.Helper()

	sqlite, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(context.Background()))
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]service.Storage{
		"sqlite": sqlite,
		"memory": NewMemoryStorage(),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestStorage_Incomes(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			received := day(2026, time.September, 30)

			require.NoError(t, store.SaveIncome(ctx, &model.Income{
				ID: "inc-1", UserID: "u1", Amount: 5000, Frequency: model.RecurrenceMonthly,
				LastReceived: &received, Source: "Acme",
			}))
			require.NoError(t, store.SaveIncome(ctx, &model.Income{
				ID: "inc-2", UserID: "u2", Amount: 100, Frequency: model.RecurrenceWeekly,
			}))

			incomes, err := store.ListIncomes(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, incomes, 1)
			assert.Equal(t, 5000.0, incomes[0].Amount)
			assert.Equal(t, model.RecurrenceMonthly, incomes[0].Frequency)
			assert.Equal(t, "USD", incomes[0].Currency)
			require.NotNil(t, incomes[0].LastReceived)
			assert.True(t, received.Equal(*incomes[0].LastReceived))

			incomes, err = store.ListIncomes(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, incomes)
		})
	}
}

func TestStorage_SaveIncomeReplaces(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			income := &model.Income{ID: "inc-1", UserID: "u1", Amount: 5000, Frequency: model.RecurrenceMonthly}
			require.NoError(t, store.SaveIncome(ctx, income))

			income.Amount = 5500
			require.NoError(t, store.SaveIncome(ctx, income))

			incomes, err := store.ListIncomes(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, incomes, 1)
			assert.Equal(t, 5500.0, incomes[0].Amount)
		})
	}
}

func TestStorage_Expenses(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			expense := &model.Expense{UserID: "u1", Amount: 1200, Category: "rent", Recurrence: model.RecurrenceMonthly, IsFixed: true}
			require.NoError(t, store.SaveExpense(ctx, expense))
			assert.NotEmpty(t, expense.ID, "ID should be assigned")

			expenses, err := store.ListExpenses(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, expenses, 1)
			assert.True(t, expenses[0].IsFixed)
			assert.Equal(t, "rent", expenses[0].Category)
		})
	}
}

func TestStorage_RecurringPayments(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			payments := []model.RecurringPayment{
				{ID: "p-late", UserID: "u1", Amount: 50, DueDate: day(2026, time.November, 1), Recurrence: model.RecurrenceMonthly, Type: model.PaymentTypeSubscription},
				{ID: "p-early", UserID: "u1", Amount: 900, DueDate: day(2026, time.October, 20), Recurrence: model.RecurrenceMonthly, Type: model.PaymentTypeDebt},
				{ID: "p-past", UserID: "u1", Amount: 75, DueDate: day(2026, time.October, 1), Recurrence: model.RecurrenceMonthly},
			}
			for i := range payments {
				require.NoError(t, store.SaveRecurringPayment(ctx, &payments[i]))
			}

			all, err := store.ListRecurringPayments(ctx, "u1", service.PaymentFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "p-past", all[0].ID)
			assert.Equal(t, model.PaymentTypeOther, all[0].Type, "empty type defaults to other")

			from := day(2026, time.October, 17)
			upcoming, err := store.ListRecurringPayments(ctx, "u1", service.PaymentFilter{DueFrom: &from})
			require.NoError(t, err)
			require.Len(t, upcoming, 2)
			assert.Equal(t, "p-early", upcoming[0].ID)
			assert.Equal(t, "p-late", upcoming[1].ID)
		})
	}
}

func TestStorage_ListTransactions(t *testing.T) {
	txns := []model.Transaction{
		{ID: "t1", UserID: "u1", Amount: -100, Category: "groceries", Vendor: "Market", Timestamp: day(2026, time.January, 10)},
		{ID: "t2", UserID: "u1", Amount: 3000, Category: "salary", Vendor: "Acme", Timestamp: day(2026, time.February, 1)},
		{ID: "t3", UserID: "u1", Amount: -40, Category: "dining", Vendor: "Cafe", Timestamp: day(2026, time.March, 5)},
		{ID: "t4", UserID: "u2", Amount: -999, Category: "dining", Vendor: "Cafe", Timestamp: day(2026, time.March, 5)},
	}
	since := day(2026, time.February, 1)
	until := day(2026, time.March, 5)

	tests := []struct {
		name    string
		filter  service.TransactionFilter
		wantIDs []string
	}{
		{name: "all newest first", filter: service.TransactionFilter{}, wantIDs: []string{"t3", "t2", "t1"}},
		{name: "ascending", filter: service.TransactionFilter{Ascending: true}, wantIDs: []string{"t1", "t2", "t3"}},
		{name: "since inclusive", filter: service.TransactionFilter{Since: &since}, wantIDs: []string{"t3", "t2"}},
		{name: "until inclusive", filter: service.TransactionFilter{Until: &until}, wantIDs: []string{"t3", "t2", "t1"}},
		{name: "until exclusive", filter: service.TransactionFilter{Until: &until, UntilExclusive: true}, wantIDs: []string{"t2", "t1"}},
		{name: "outflows only", filter: service.TransactionFilter{OutflowsOnly: true}, wantIDs: []string{"t3", "t1"}},
		{name: "limit", filter: service.TransactionFilter{Limit: 1}, wantIDs: []string{"t3"}},
	}

	for name, store := range backends(t) {
		ctx := context.Background()
		seed := append([]model.Transaction(nil), txns...)
		n, err := store.SaveTransactions(ctx, seed)
		require.NoError(t, err)
		require.Equal(t, 4, n)

		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := store.ListTransactions(ctx, "u1", tt.filter)
				require.NoError(t, err)

				ids := make([]string, 0, len(got))
				for _, txn := range got {
					ids = append(ids, txn.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			})
		}
	}
}

func TestStorage_SaveTransactionsDeduplicates(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			txn := model.Transaction{ID: "FITID-1", UserID: "u1", Amount: -12.5, Category: "dining", Vendor: "Cafe", Timestamp: day(2026, time.May, 1)}

			n, err := store.SaveTransactions(ctx, []model.Transaction{txn})
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			// A re-import carrying the same external ID is the same transaction.
			again := txn
			again.Vendor = "CAFE #12"
			n, err = store.SaveTransactions(ctx, []model.Transaction{again})
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			got, err := store.ListTransactions(ctx, "u1", service.TransactionFilter{})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Cafe", got[0].Vendor)
		})
	}
}

func TestStorage_SaveTransactionsKeepsIdenticalEntries(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			coffee := model.Transaction{UserID: "u1", Amount: -4.5, Category: "dining", Vendor: "Cafe", Timestamp: day(2026, time.May, 1)}

			n, err := store.SaveTransactions(ctx, []model.Transaction{coffee, coffee})
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			n, err = store.SaveTransactions(ctx, []model.Transaction{coffee})
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			// Distinct bank IDs on otherwise equal rows are distinct charges.
			n, err = store.SaveTransactions(ctx, []model.Transaction{
				{ID: "FITID-A", UserID: "u1", Amount: -4.5, Category: "dining", Vendor: "Cafe", Timestamp: day(2026, time.May, 2)},
				{ID: "FITID-B", UserID: "u1", Amount: -4.5, Category: "dining", Vendor: "Cafe", Timestamp: day(2026, time.May, 2)},
			})
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			got, err := store.ListTransactions(ctx, "u1", service.TransactionFilter{})
			require.NoError(t, err)
			assert.Len(t, got, 5)
		})
	}
}

func TestStorage_LatestBalance(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.LatestBalance(ctx, "u1")
			require.ErrorIs(t, err, common.ErrNotFound)

			require.NoError(t, store.SaveBalanceSnapshot(ctx, &model.BalanceSnapshot{
				UserID: "u1", Balance: 1000, Timestamp: day(2026, time.August, 1),
			}))
			require.NoError(t, store.SaveBalanceSnapshot(ctx, &model.BalanceSnapshot{
				UserID: "u1", Balance: 2500, Timestamp: day(2026, time.September, 1),
			}))

			latest, err := store.LatestBalance(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 2500.0, latest.Balance)
		})
	}
}

func TestStorage_Validation(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			//nolint:staticcheck // nil context is the point of the test
			_, err := store.ListIncomes(nil, "u1")
			assert.ErrorIs(t, err, ErrNilContext)

			_, err = store.ListExpenses(ctx, "  ")
			assert.ErrorIs(t, err, ErrEmptyString)

			err = store.SaveExpense(ctx, &model.Expense{UserID: "u1", Recurrence: model.RecurrenceMonthly})
			assert.ErrorIs(t, err, ErrInvalidRecord)

			_, err = store.SaveTransactions(ctx, []model.Transaction{{UserID: "u1", Category: "x"}})
			assert.ErrorIs(t, err, ErrInvalidTransaction)

			since := day(2026, time.March, 1)
			until := day(2026, time.February, 1)
			_, err = store.ListTransactions(ctx, "u1", service.TransactionFilter{Since: &since, Until: &until})
			assert.ErrorIs(t, err, ErrInvalidDateRange)
		})
	}
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	version, err := sqliteVersioner{}.current(ctx, store.db)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	var tables int
	require.NoError(t, store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('incomes', 'expenses', 'recurring_payments', 'transactions', 'balance_snapshots')
	`).Scan(&tables))
	assert.Equal(t, 5, tables)
}
