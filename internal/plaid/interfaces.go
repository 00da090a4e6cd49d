package plaid

import (
	"context"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// Fetcher reads a user's linked accounts. Transactions come back with
// FINDASH sign conventions (negative = outflow).
type Fetcher interface {
	GetTransactions(ctx context.Context, userID string, startDate, endDate time.Time) ([]model.Transaction, error)
	GetBalances(ctx context.Context, userID string) ([]model.BalanceSnapshot, error)
}
