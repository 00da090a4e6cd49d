package model

import "time"

// Income is a recurring or one-off source of money for a user.
type Income struct {
	LastReceived *time.Time `json:"last_received,omitempty"`
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Frequency    Recurrence `json:"frequency"`
	Currency     string     `json:"currency"`
	Source       string     `json:"source,omitempty"`
	Amount       float64    `json:"amount"`
}

// Expense is a budgeted expense. IsFixed is authoritative for classification.
type Expense struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Category   string     `json:"category"`
	Recurrence Recurrence `json:"recurrence"`
	Currency   string     `json:"currency"`
	Amount     float64    `json:"amount"`
	IsFixed    bool       `json:"is_fixed"`
}

// RecurringPayment is an upcoming obligation with a due date.
type RecurringPayment struct {
	DueDate      time.Time   `json:"due_date"`
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Recurrence   Recurrence  `json:"recurrence"`
	Type         PaymentType `json:"type"`
	Currency     string      `json:"currency"`
	Description  string      `json:"description,omitempty"`
	Amount       float64     `json:"amount"`
	PriorityHint int         `json:"priority_hint"`
}

// BalanceSnapshot records an account balance at a point in time.
type BalanceSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Currency  string    `json:"currency"`
	AccountID string    `json:"account_id,omitempty"`
	Balance   float64   `json:"balance"`
}
