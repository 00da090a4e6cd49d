package analytics

import (
	"context"
	"fmt"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// BurnRate returns the user's monthly outflow: recurring expenses normalized to
// a month plus the average monthly spend over the trailing three months.
func (e *Engine) BurnRate(ctx context.Context, userID string) (*model.MetricResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	result, err := e.burnRate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate burn rate: %w", err)
	}
	return result, nil
}

func (e *Engine) burnRate(ctx context.Context, userID string) (*model.MetricResult, error) {
	expenses, err := e.fetchExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns, err := e.fetchOutflows(ctx, userID, BurnWindowMonths, "transactions")
	if err != nil {
		return nil, err
	}

	recurring := monthlyExpenses(expenses)
	avgTransactions := totalOutflow(txns) / BurnWindowMonths
	burn := recurring + avgTransactions

	e.logger.Debug("Calculated burn rate",
		"user_id", userID,
		"expenses", len(expenses),
		"transactions", len(txns),
		"burn_rate", burn)

	return &model.MetricResult{
		Metric: "burn_rate",
		Value:  round2(burn),
		Risk:   e.policy.BurnRate.Level(burn),
		Explanation: fmt.Sprintf("Monthly burn rate is %s, calculated from recurring expenses (%s/month) and average transaction spending (%s/month over the last %d months)",
			money(burn), money(recurring), money(avgTransactions), BurnWindowMonths),
		Inputs: map[string]any{
			"expense_count":            float64(len(expenses)),
			"transaction_count":        float64(len(txns)),
			"monthly_expenses":         recurring,
			"avg_monthly_transactions": avgTransactions,
		},
	}, nil
}
