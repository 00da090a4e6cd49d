package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// PaymentPriorityResult is the payment priority metric with the ordered payments.
type PaymentPriorityResult struct {
	model.MetricResult
	Payments     []model.RecurringPayment `json:"payments"`
	TotalAmount  float64                  `json:"-"`
	OverdueCount int                      `json:"-"`
}

// PaymentPriority orders the user's upcoming payments by due date, then
// payment type (debt, bill, subscription, other), then amount descending.
func (e *Engine) PaymentPriority(ctx context.Context, userID string) (*PaymentPriorityResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	result, err := e.paymentPriority(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment priority: %w", err)
	}
	return result, nil
}

func (e *Engine) paymentPriority(ctx context.Context, userID string) (*PaymentPriorityResult, error) {
	today := e.today()
	payments, err := e.store.ListRecurringPayments(ctx, userID, service.PaymentFilter{DueFrom: &today})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	if len(payments) == 0 {
		return &PaymentPriorityResult{
			MetricResult: model.MetricResult{
				Metric:      "payment_priority",
				Value:       0.0,
				Risk:        model.RiskLow,
				Explanation: "No upcoming payments found.",
				Inputs: map[string]any{
					"payment_count": 0.0,
				},
			},
			Payments: []model.RecurringPayment{},
		}, nil
	}

	sorted := make([]model.RecurringPayment, len(payments))
	copy(sorted, payments)
	SortPayments(sorted)

	total := 0.0
	overdue := 0
	for _, payment := range sorted {
		total += payment.Amount
		// Always zero while the store filters on DueFrom.
		if payment.DueDate.Before(today) {
			overdue++
		}
	}

	risk := e.policy.PaymentTotal.Level(total)
	if overdue > 0 {
		risk = model.RiskCritical
	}

	return &PaymentPriorityResult{
		MetricResult: model.MetricResult{
			Metric: "payment_priority",
			Value:  float64(len(sorted)),
			Risk:   risk,
			Explanation: fmt.Sprintf("Found %d upcoming payment(s) totaling %s. Payments are prioritized by due date, type (debt > bill > subscription), and amount.",
				len(sorted), money(total)),
			Inputs: map[string]any{
				"payment_count": float64(len(sorted)),
				"total_amount":  total,
				"overdue_count": float64(overdue),
			},
		},
		Payments:     sorted,
		TotalAmount:  total,
		OverdueCount: overdue,
	}, nil
}

// SortPayments orders payments in place by priority.
func SortPayments(payments []model.RecurringPayment) {
	sort.SliceStable(payments, func(i, j int) bool {
		a, b := payments[i], payments[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if ra, rb := paymentTypeRank(a.Type), paymentTypeRank(b.Type); ra != rb {
			return ra < rb
		}
		return a.Amount > b.Amount
	})
}
