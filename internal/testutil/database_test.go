package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestSetupTestDB_Seeds(t *testing.T) {
	fixture := NewFixture("u1").
		WithIncome(3000, model.RecurrenceMonthly).
		WithExpense("rent", 1200, model.RecurrenceMonthly, true).
		WithPayment("Card", 250, model.PaymentTypeDebt, now.AddDate(0, 0, 5)).
		WithTransaction("dining", "Cafe", -42.5, now.AddDate(0, 0, -2)).
		WithBalance(5000, now).
		Build()

	db := SetupTestDB(t, fixture)
	ctx := context.Background()

	incomes, err := db.Storage.ListIncomes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.NotEmpty(t, incomes[0].ID)
	assert.Equal(t, 3000.0, incomes[0].Amount)

	expenses, err := db.Storage.ListExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].IsFixed)

	payments, err := db.Storage.ListRecurringPayments(ctx, "u1", service.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, model.PaymentTypeDebt, payments[0].Type)

	txns, err := db.Storage.ListTransactions(ctx, "u1", service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Cafe", txns[0].Vendor)

	balance, err := db.Storage.LatestBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, balance.Balance)
}

func TestSetupTestDB_Isolated(t *testing.T) {
	db := SetupTestDB(t, Merge(StableScenario("u1", now), StableScenario("u2", now)))
	other := SetupTestDB(t, Fixture{})
	ctx := context.Background()

	incomes, err := db.Storage.ListIncomes(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, incomes, 1)

	incomes, err = other.Storage.ListIncomes(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, incomes)
}

func TestSetupTestDBWithOptions_CustomSetup(t *testing.T) {
	called := false
	db := SetupTestDBWithOptions(t, TestDBOptions{
		Fixture: StableScenario("u1", now),
		CustomSetup: func(ctx context.Context, s service.Storage) error {
			called = true
			return s.SaveBalanceSnapshot(ctx, &model.BalanceSnapshot{UserID: "u1", Balance: 7000, Timestamp: now})
		},
	})

	require.True(t, called)
	balance, err := db.Storage.LatestBalance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7000.0, balance.Balance)
}

func TestFixture_Empty(t *testing.T) {
	assert.True(t, Fixture{}.Empty())
	assert.False(t, StableScenario("u1", now).Empty())
}
