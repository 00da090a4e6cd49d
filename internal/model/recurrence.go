// Package model defines the core domain models used throughout the application.
package model

// Recurrence describes how often a monetary amount repeats.
type Recurrence string

// Recurrence labels understood by the normalizer. Anything else passes through unchanged.
const (
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceBiweekly Recurrence = "biweekly"
	RecurrenceMonthly  Recurrence = "monthly"
	RecurrenceYearly   Recurrence = "yearly"
	RecurrenceOneTime  Recurrence = "one-time"
)

// Recurrences returns all known recurrence labels in ascending period order.
func Recurrences() []Recurrence {
	return []Recurrence{
		RecurrenceDaily,
		RecurrenceWeekly,
		RecurrenceBiweekly,
		RecurrenceMonthly,
		RecurrenceYearly,
		RecurrenceOneTime,
	}
}

// IsKnown reports whether r is one of the recognized labels.
func (r Recurrence) IsKnown() bool {
	for _, known := range Recurrences() {
		if r == known {
			return true
		}
	}
	return false
}

// PaymentType classifies an upcoming obligation.
type PaymentType string

// Payment types, in descending urgency.
const (
	PaymentTypeDebt         PaymentType = "debt"
	PaymentTypeBill         PaymentType = "bill"
	PaymentTypeSubscription PaymentType = "subscription"
	PaymentTypeOther        PaymentType = "other"
)

// IsKnown reports whether t is one of the four payment types.
func (t PaymentType) IsKnown() bool {
	switch t {
	case PaymentTypeDebt, PaymentTypeBill, PaymentTypeSubscription, PaymentTypeOther:
		return true
	default:
		return false
	}
}

// RiskLevel is attached to every computed metric.
type RiskLevel string

// Risk levels from least to most severe.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Severity orders risk levels; unknown levels sort below low.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether r is as severe as other or more.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.Severity() >= other.Severity()
}

// IsKnown reports whether r is one of the four risk levels.
func (r RiskLevel) IsKnown() bool {
	return r.Severity() > 0
}
