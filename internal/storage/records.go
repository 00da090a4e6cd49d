package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// sqlStore implements the record queries shared by every SQL backend.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

var (
	incomeColumns      = []string{"id", "user_id", "amount", "frequency", "last_received", "currency", "source"}
	expenseColumns     = []string{"id", "user_id", "amount", "category", "recurrence", "is_fixed", "currency"}
	paymentColumns     = []string{"id", "user_id", "amount", "due_date", "recurrence", "type", "priority_hint", "currency", "description"}
	transactionColumns = []string{"id", "hash", "user_id", "amount", "category", "vendor", "timestamp", "currency", "account_id", "is_recurring"}
	snapshotColumns    = []string{"id", "user_id", "timestamp", "balance", "currency", "account_id"}
)

// ListIncomes returns every income record for the user.
func (s *sqlStore) ListIncomes(ctx context.Context, userID string) ([]model.Income, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT id, user_id, amount, frequency, last_received, currency, source
		FROM incomes
		WHERE user_id = ?
		ORDER BY id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var incomes []model.Income
	for rows.Next() {
		var (
			income       model.Income
			frequency    string
			lastReceived sql.NullTime
		)
		if err := rows.Scan(&income.ID, &income.UserID, &income.Amount, &frequency,
			&lastReceived, &income.Currency, &income.Source); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		income.Frequency = model.Recurrence(frequency)
		if lastReceived.Valid {
			t := lastReceived.Time
			income.LastReceived = &t
		}
		incomes = append(incomes, income)
	}

	return incomes, rows.Err()
}

// ListExpenses returns every expense record for the user.
func (s *sqlStore) ListExpenses(ctx context.Context, userID string) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT id, user_id, amount, category, recurrence, is_fixed, currency
		FROM expenses
		WHERE user_id = ?
		ORDER BY id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		var (
			expense    model.Expense
			recurrence string
		)
		if err := rows.Scan(&expense.ID, &expense.UserID, &expense.Amount, &expense.Category,
			&recurrence, &expense.IsFixed, &expense.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Recurrence = model.Recurrence(recurrence)
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// ListRecurringPayments returns the user's recurring payments ordered by due date.
func (s *sqlStore) ListRecurringPayments(ctx context.Context, userID string, filter service.PaymentFilter) ([]model.RecurringPayment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, amount, due_date, recurrence, type, priority_hint, currency, description
		FROM recurring_payments
		WHERE user_id = ?`
	args := []any{userID}
	if filter.DueFrom != nil {
		query += ` AND due_date >= ?`
		args = append(args, filter.DueFrom.UTC())
	}
	query += ` ORDER BY due_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring payments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var payments []model.RecurringPayment
	for rows.Next() {
		var (
			payment     model.RecurringPayment
			recurrence  string
			paymentType string
		)
		if err := rows.Scan(&payment.ID, &payment.UserID, &payment.Amount, &payment.DueDate,
			&recurrence, &paymentType, &payment.PriorityHint, &payment.Currency,
			&payment.Description); err != nil {
			return nil, fmt.Errorf("failed to scan recurring payment: %w", err)
		}
		payment.Recurrence = model.Recurrence(recurrence)
		payment.Type = model.PaymentType(paymentType)
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// ListTransactions returns the user's transactions matching the filter.
func (s *sqlStore) ListTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, ErrInvalidDateRange
	}

	var (
		conditions = []string{"user_id = ?"}
		args       = []any{userID}
	)
	if filter.Since != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Until != nil {
		if filter.UntilExclusive {
			conditions = append(conditions, "timestamp < ?")
		} else {
			conditions = append(conditions, "timestamp <= ?")
		}
		args = append(args, filter.Until.UTC())
	}
	if filter.OutflowsOnly {
		conditions = append(conditions, "amount < 0")
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}

	query := `
		SELECT id, user_id, amount, category, vendor, timestamp, currency, account_id, is_recurring
		FROM transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY timestamp ` + order + `, id ` + order
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Category, &txn.Vendor,
			&txn.Timestamp, &txn.Currency, &txn.AccountID, &txn.IsRecurring); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

// LatestBalance returns the most recent balance snapshot for the user.
func (s *sqlStore) LatestBalance(ctx context.Context, userID string) (*model.BalanceSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var snapshot model.BalanceSnapshot
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, user_id, timestamp, balance, currency, account_id
		FROM balance_snapshots
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`), userID).Scan(&snapshot.ID, &snapshot.UserID, &snapshot.Timestamp, &snapshot.Balance,
		&snapshot.Currency, &snapshot.AccountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query balance snapshot: %w", err)
	}

	return &snapshot, nil
}

// SaveIncome inserts or replaces an income record.
func (s *sqlStore) SaveIncome(ctx context.Context, income *model.Income) error {
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

	var lastReceived any
	if income.LastReceived != nil {
		lastReceived = income.LastReceived.UTC()
	}

	_, err := s.db.ExecContext(ctx, s.dialect.upsert("incomes", incomeColumns),
		income.ID, income.UserID, income.Amount, string(income.Frequency), lastReceived,
		income.Currency, income.Source)
	if err != nil {
		return fmt.Errorf("failed to save income: %w", err)
	}
	return nil
}

// SaveExpense inserts or replaces an expense record.
func (s *sqlStore) SaveExpense(ctx context.Context, expense *model.Expense) error {
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

	_, err := s.db.ExecContext(ctx, s.dialect.upsert("expenses", expenseColumns),
		expense.ID, expense.UserID, expense.Amount, expense.Category, string(expense.Recurrence),
		expense.IsFixed, expense.Currency)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

// SaveRecurringPayment inserts or replaces a recurring payment.
func (s *sqlStore) SaveRecurringPayment(ctx context.Context, payment *model.RecurringPayment) error {
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

	_, err := s.db.ExecContext(ctx, s.dialect.upsert("recurring_payments", paymentColumns),
		payment.ID, payment.UserID, payment.Amount, payment.DueDate.UTC(), string(payment.Recurrence),
		string(payment.Type), payment.PriorityHint, payment.Currency, payment.Description)
	if err != nil {
		return fmt.Errorf("failed to save recurring payment: %w", err)
	}
	return nil
}

// SaveTransactions stores transactions, skipping any whose hash already exists.
// Transactions without an ID get a fresh one, so only entries sharing an
// external ID collapse. It returns the number of rows actually inserted.
func (s *sqlStore) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return 0, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, s.dialect.insertIgnore("transactions", "hash", transactionColumns))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range transactions {
		txn := &transactions[i]
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		txn.Currency = defaultCurrency(txn.Currency)

		var result sql.Result
		result, err = stmt.ExecContext(ctx,
			txn.ID, txn.GenerateHash(), txn.UserID, txn.Amount, txn.Category, txn.Vendor,
			txn.Timestamp.UTC(), txn.Currency, txn.AccountID, txn.IsRecurring)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}

		affected, affErr := result.RowsAffected()
		if affErr == nil {
			inserted += int(affected)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// SaveBalanceSnapshot records a point-in-time balance.
func (s *sqlStore) SaveBalanceSnapshot(ctx context.Context, snapshot *model.BalanceSnapshot) error {
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

	_, err := s.db.ExecContext(ctx, s.dialect.upsert("balance_snapshots", snapshotColumns),
		snapshot.ID, snapshot.UserID, snapshot.Timestamp.UTC(), snapshot.Balance,
		snapshot.Currency, snapshot.AccountID)
	if err != nil {
		return fmt.Errorf("failed to save balance snapshot: %w", err)
	}
	return nil
}
