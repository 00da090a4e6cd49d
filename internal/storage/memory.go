package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

var _ service.Storage = (*MemoryStorage)(nil)

// MemoryStorage is a process-local Storage used for demos and tests.
type MemoryStorage struct {
	incomes      map[string]model.Income
	expenses     map[string]model.Expense
	payments     map[string]model.RecurringPayment
	transactions map[string]model.Transaction // keyed by dedup hash
	snapshots    map[string]model.BalanceSnapshot
	mu           sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		incomes:      make(map[string]model.Income),
		expenses:     make(map[string]model.Expense),
		payments:     make(map[string]model.RecurringPayment),
		transactions: make(map[string]model.Transaction),
		snapshots:    make(map[string]model.BalanceSnapshot),
	}
}

// Migrate is a no-op for the in-memory store.
func (m *MemoryStorage) Migrate(ctx context.Context) error {
	return validateContext(ctx)
}

// Close is a no-op for the in-memory store.
func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) ListIncomes(ctx context.Context, userID string) ([]model.Income, error) {
	if err := validateUserRead(ctx, userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Income
	for _, income := range m.incomes {
		if income.UserID == userID {
			out = append(out, income)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStorage) ListExpenses(ctx context.Context, userID string) ([]model.Expense, error) {
	if err := validateUserRead(ctx, userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Expense
	for _, expense := range m.expenses {
		if expense.UserID == userID {
			out = append(out, expense)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStorage) ListRecurringPayments(ctx context.Context, userID string, filter service.PaymentFilter) ([]model.RecurringPayment, error) {
	if err := validateUserRead(ctx, userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.RecurringPayment
	for _, payment := range m.payments {
		if payment.UserID != userID {
			continue
		}
		if filter.DueFrom != nil && payment.DueDate.Before(*filter.DueFrom) {
			continue
		}
		out = append(out, payment)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStorage) ListTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateUserRead(ctx, userID); err != nil {
		return nil, err
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, ErrInvalidDateRange
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Transaction
	for _, txn := range m.transactions {
		if txn.UserID != userID {
			continue
		}
		if filter.Since != nil && txn.Timestamp.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil {
			if filter.UntilExclusive && !txn.Timestamp.Before(*filter.Until) {
				continue
			}
			if !filter.UntilExclusive && txn.Timestamp.After(*filter.Until) {
				continue
			}
		}
		if filter.OutflowsOnly && !txn.IsOutflow() {
			continue
		}
		out = append(out, txn)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if filter.Ascending {
			a, b = b, a
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryStorage) LatestBalance(ctx context.Context, userID string) (*model.BalanceSnapshot, error) {
	if err := validateUserRead(ctx, userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.BalanceSnapshot
	for _, snapshot := range m.snapshots {
		if snapshot.UserID != userID {
			continue
		}
		if latest == nil || snapshot.Timestamp.After(latest.Timestamp) ||
			(snapshot.Timestamp.Equal(latest.Timestamp) && snapshot.ID > latest.ID) {
			s := snapshot
			latest = &s
		}
	}
	if latest == nil {
		return nil, common.ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStorage) SaveIncome(ctx context.Context, income *model.Income) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIncome(income); err != nil {
		return err
	}
	if income.ID == "" {
		income.ID = uuid.NewString()
	}
	income.Currency = defaultCurrency(income.Currency)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.incomes[income.ID] = *income
	return nil
}

func (m *MemoryStorage) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	expense.Currency = defaultCurrency(expense.Currency)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = *expense
	return nil
}

func (m *MemoryStorage) SaveRecurringPayment(ctx context.Context, payment *model.RecurringPayment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePayment(payment); err != nil {
		return err
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Type == "" {
		payment.Type = model.PaymentTypeOther
	}
	payment.Currency = defaultCurrency(payment.Currency)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = *payment
	return nil
}

func (m *MemoryStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return 0, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for i := range transactions {
		txn := &transactions[i]
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		hash := txn.GenerateHash()
		if _, seen := m.transactions[hash]; seen {
			continue
		}
		txn.Currency = defaultCurrency(txn.Currency)
		m.transactions[hash] = *txn
		inserted++
	}
	return inserted, nil
}

func (m *MemoryStorage) SaveBalanceSnapshot(ctx context.Context, snapshot *model.BalanceSnapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	snapshot.Currency = defaultCurrency(snapshot.Currency)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.ID] = *snapshot
	return nil
}

func validateUserRead(ctx context.Context, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return validateString(userID, "userID")
}
