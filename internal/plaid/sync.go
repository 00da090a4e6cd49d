package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// SyncResult counts what one sync stored.
type SyncResult struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	Balances int `json:"balances"`
}

// Syncer copies Plaid data into the record store.
type Syncer struct {
	fetcher Fetcher
	store   service.RecordWriter
	logger  *slog.Logger
}

// NewSyncer creates a syncer writing to store.
func NewSyncer(fetcher Fetcher, store service.RecordWriter) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		logger:  common.ComponentLogger(nil, "plaid"),
	}
}

// Sync imports transactions in [start, end] and a balance snapshot per
// account. Transactions seen before are skipped by the store.
func (s *Syncer) Sync(ctx context.Context, userID string, start, end time.Time) (*SyncResult, error) {
	if userID == "" {
		return nil, common.NewValidationError("user ID is required")
	}

	transactions, err := s.fetcher.GetTransactions(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plaid transactions: %w", err)
	}

	imported, err := s.store.SaveTransactions(ctx, transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	snapshots, err := s.fetcher.GetBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plaid balances: %w", err)
	}
	for i := range snapshots {
		if err := s.store.SaveBalanceSnapshot(ctx, &snapshots[i]); err != nil {
			return nil, fmt.Errorf("failed to save balance for account %s: %w", snapshots[i].AccountID, err)
		}
	}

	result := &SyncResult{
		Fetched:  len(transactions),
		Imported: imported,
		Balances: len(snapshots),
	}
	s.logger.Info("Plaid sync complete",
		"user_id", userID,
		"fetched", result.Fetched,
		"imported", result.Imported,
		"balances", result.Balances)

	return result, nil
}
