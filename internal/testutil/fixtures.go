package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// Fixture is a set of records for one or more users.
type Fixture struct {
	Incomes      []model.Income
	Expenses     []model.Expense
	Payments     []model.RecurringPayment
	Transactions []model.Transaction
	Balances     []model.BalanceSnapshot
}

// Empty reports whether the fixture holds no records.
func (f Fixture) Empty() bool {
	return len(f.Incomes)+len(f.Expenses)+len(f.Payments)+len(f.Transactions)+len(f.Balances) == 0
}

// Apply writes the fixture through w.
func (f Fixture) Apply(ctx context.Context, w service.RecordWriter) error {
	for i := range f.Incomes {
		if err := w.SaveIncome(ctx, &f.Incomes[i]); err != nil {
			return fmt.Errorf("failed to save income: %w", err)
		}
	}
	for i := range f.Expenses {
		if err := w.SaveExpense(ctx, &f.Expenses[i]); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
	}
	for i := range f.Payments {
		if err := w.SaveRecurringPayment(ctx, &f.Payments[i]); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
	}
	if len(f.Transactions) > 0 {
		if _, err := w.SaveTransactions(ctx, f.Transactions); err != nil {
			return fmt.Errorf("failed to save transactions: %w", err)
		}
	}
	for i := range f.Balances {
		if err := w.SaveBalanceSnapshot(ctx, &f.Balances[i]); err != nil {
			return fmt.Errorf("failed to save balance: %w", err)
		}
	}
	return nil
}

// FixtureBuilder assembles a Fixture for one user with a fluent API.
type FixtureBuilder struct {
	userID  string
	fixture Fixture
}

// NewFixture starts a fixture for userID.
func NewFixture(userID string) *FixtureBuilder {
	return &FixtureBuilder{userID: userID}
}

// WithIncome adds an income.
func (b *FixtureBuilder) WithIncome(amount float64, frequency model.Recurrence) *FixtureBuilder {
	b.fixture.Incomes = append(b.fixture.Incomes, model.Income{
		UserID:    b.userID,
		Amount:    amount,
		Frequency: frequency,
		Currency:  "USD",
	})
	return b
}

// WithExpense adds a budgeted expense.
func (b *FixtureBuilder) WithExpense(category string, amount float64, recurrence model.Recurrence, fixed bool) *FixtureBuilder {
	b.fixture.Expenses = append(b.fixture.Expenses, model.Expense{
		UserID:     b.userID,
		Category:   category,
		Amount:     amount,
		Recurrence: recurrence,
		IsFixed:    fixed,
		Currency:   "USD",
	})
	return b
}

// WithPayment adds an upcoming monthly obligation.
func (b *FixtureBuilder) WithPayment(description string, amount float64, kind model.PaymentType, due time.Time) *FixtureBuilder {
	b.fixture.Payments = append(b.fixture.Payments, model.RecurringPayment{
		UserID:      b.userID,
		Description: description,
		Amount:      amount,
		Type:        kind,
		DueDate:     due,
		Recurrence:  model.RecurrenceMonthly,
		Currency:    "USD",
	})
	return b
}

// WithTransaction adds a transaction. Negative amounts are outflows.
func (b *FixtureBuilder) WithTransaction(category, vendor string, amount float64, at time.Time) *FixtureBuilder {
	b.fixture.Transactions = append(b.fixture.Transactions, model.Transaction{
		UserID:    b.userID,
		Category:  category,
		Vendor:    vendor,
		Amount:    amount,
		Timestamp: at,
		Currency:  "USD",
	})
	return b
}

// WithBalance adds a balance snapshot.
func (b *FixtureBuilder) WithBalance(balance float64, at time.Time) *FixtureBuilder {
	b.fixture.Balances = append(b.fixture.Balances, model.BalanceSnapshot{
		UserID:    b.userID,
		Balance:   balance,
		Timestamp: at,
		Currency:  "USD",
	})
	return b
}

// Build returns the assembled fixture.
func (b *FixtureBuilder) Build() Fixture {
	return b.fixture
}

// Merge combines fixtures, e.g. for several users.
func Merge(fixtures ...Fixture) Fixture {
	var out Fixture
	for _, f := range fixtures {
		out.Incomes = append(out.Incomes, f.Incomes...)
		out.Expenses = append(out.Expenses, f.Expenses...)
		out.Payments = append(out.Payments, f.Payments...)
		out.Transactions = append(out.Transactions, f.Transactions...)
		out.Balances = append(out.Balances, f.Balances...)
	}
	return out
}

// StableScenario is a user earning 3000 and spending 1000 a month with 5000
// in the bank as of now.
func StableScenario(userID string, now time.Time) Fixture {
	return NewFixture(userID).
		WithIncome(3000, model.RecurrenceMonthly).
		WithExpense("rent", 1000, model.RecurrenceMonthly, true).
		WithBalance(5000, now.Add(-time.Hour)).
		Build()
}
