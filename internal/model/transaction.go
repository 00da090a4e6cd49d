package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single realized money movement.
// Amount is signed: negative values are outflows, positive values are inflows.
type Transaction struct {
	Timestamp   time.Time `json:"timestamp"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Category    string    `json:"category"`
	Vendor      string    `json:"vendor,omitempty"`
	Currency    string    `json:"currency"`
	AccountID   string    `json:"account_id,omitempty"`
	Amount      float64   `json:"amount"`
	IsRecurring bool      `json:"is_recurring_flag"`
}

// IsOutflow reports whether money left the account.
func (t *Transaction) IsOutflow() bool {
	return t.Amount < 0
}

// GenerateHash creates the key used for duplicate detection across imports.
// Transactions carrying an ID (bank FITID, Plaid transaction ID) are keyed
// on it, so distinct entries with equal content are all kept. Without an ID
// the key falls back to the day, amount, vendor and account.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%s:%s",
		t.UserID,
		t.Timestamp.Format("2006-01-02"),
		t.Amount,
		t.Vendor,
		t.AccountID)
	if t.ID != "" {
		data = fmt.Sprintf("%s:id:%s", t.UserID, t.ID)
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
