// Package analytics computes personal-finance metrics from a user's stored records.
//
// Every operation reads a fresh snapshot through service.RecordStore and returns
// a model.MetricResult (or a richer result embedding one). Nothing is cached or
// written back.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// Engine computes metrics on demand. It holds no per-user state and is safe
// for concurrent use.
type Engine struct {
	store  service.RecordStore
	now    func() time.Time
	logger *slog.Logger
	policy Policy
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for observation windows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPolicy replaces the default thresholds.
func WithPolicy(policy Policy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// New creates an engine reading from store.
func New(store service.RecordStore, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		logger: common.ComponentLogger(slog.Default(), "analytics"),
		policy: DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the thresholds in effect.
func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) monthsAgo(months int) time.Time {
	return e.now().AddDate(0, -months, 0)
}

func (e *Engine) today() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func validateUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidUserID
	}
	return nil
}

func (e *Engine) fetchIncomes(ctx context.Context, userID string) ([]model.Income, error) {
	incomes, err := e.store.ListIncomes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incomes: %w", err)
	}
	return incomes, nil
}

func (e *Engine) fetchExpenses(ctx context.Context, userID string) ([]model.Expense, error) {
	expenses, err := e.store.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	return expenses, nil
}

// fetchOutflows returns negative transactions in [now - months, now].
func (e *Engine) fetchOutflows(ctx context.Context, userID string, months int, what string) ([]model.Transaction, error) {
	now := e.now()
	since := now.AddDate(0, -months, 0)
	txns, err := e.store.ListTransactions(ctx, userID, service.TransactionFilter{
		Since:        &since,
		Until:        &now,
		OutflowsOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	return txns, nil
}

// currentBalance resolves the user's balance from the latest snapshot, falling
// back to the sum of every transaction. ok is false when neither exists.
func (e *Engine) currentBalance(ctx context.Context, userID string) (balance float64, ok bool, err error) {
	snapshot, err := e.store.LatestBalance(ctx, userID)
	switch {
	case err == nil:
		return snapshot.Balance, true, nil
	case !errors.Is(err, common.ErrNotFound):
		return 0, false, fmt.Errorf("failed to fetch balance: %w", err)
	}

	txns, err := e.store.ListTransactions(ctx, userID, service.TransactionFilter{Ascending: true})
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	if len(txns) == 0 {
		return 0, false, nil
	}

	for _, txn := range txns {
		balance += txn.Amount
	}
	return balance, true, nil
}

// inputOr returns a numeric input or fallback when it is absent.
func inputOr(result *model.MetricResult, name string, fallback float64) float64 {
	if v, ok := result.Input(name); ok {
		return v
	}
	return fallback
}

// numberOr returns the numeric value or fallback when it is not a number.
func numberOr(result *model.MetricResult, fallback float64) float64 {
	if v, ok := result.Number(); ok {
		return v
	}
	return fallback
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
