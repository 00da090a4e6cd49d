// Package storage provides the data persistence layer for findash.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidRecord      = errors.New("invalid record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if strings.TrimSpace(txn.UserID) == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	return nil
}

func validateIncome(income *model.Income) error {
	if income == nil {
		return fmt.Errorf("%w: income", ErrNilParameter)
	}
	if strings.TrimSpace(income.UserID) == "" {
		return fmt.Errorf("%w: income missing user ID", ErrInvalidRecord)
	}
	if income.Frequency == "" {
		return fmt.Errorf("%w: income missing frequency", ErrInvalidRecord)
	}
	return nil
}

func validateExpense(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if strings.TrimSpace(expense.UserID) == "" {
		return fmt.Errorf("%w: expense missing user ID", ErrInvalidRecord)
	}
	if strings.TrimSpace(expense.Category) == "" {
		return fmt.Errorf("%w: expense missing category", ErrInvalidRecord)
	}
	if expense.Recurrence == "" {
		return fmt.Errorf("%w: expense missing recurrence", ErrInvalidRecord)
	}
	return nil
}

func validatePayment(payment *model.RecurringPayment) error {
	if payment == nil {
		return fmt.Errorf("%w: recurring payment", ErrNilParameter)
	}
	if strings.TrimSpace(payment.UserID) == "" {
		return fmt.Errorf("%w: payment missing user ID", ErrInvalidRecord)
	}
	if payment.DueDate.IsZero() {
		return fmt.Errorf("%w: payment missing due date", ErrInvalidRecord)
	}
	return nil
}

func validateSnapshot(snapshot *model.BalanceSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: balance snapshot", ErrNilParameter)
	}
	if strings.TrimSpace(snapshot.UserID) == "" {
		return fmt.Errorf("%w: snapshot missing user ID", ErrInvalidRecord)
	}
	if snapshot.Timestamp.IsZero() {
		return fmt.Errorf("%w: snapshot missing timestamp", ErrInvalidRecord)
	}
	return nil
}

func defaultCurrency(currency string) string {
	if currency == "" {
		return "USD"
	}
	return strings.ToUpper(currency)
}
