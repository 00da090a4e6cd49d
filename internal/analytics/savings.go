package analytics

import (
	"context"
	"fmt"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// SavingsRate returns the share of monthly income left after the burn rate, as a percentage.
func (e *Engine) SavingsRate(ctx context.Context, userID string) (*model.MetricResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	result, err := e.savingsRate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate savings rate: %w", err)
	}
	return result, nil
}

func (e *Engine) savingsRate(ctx context.Context, userID string) (*model.MetricResult, error) {
	incomes, err := e.fetchIncomes(ctx, userID)
	if err != nil {
		return nil, err
	}
	income := monthlyIncome(incomes)

	burn, err := e.BurnRate(ctx, userID)
	if err != nil {
		return nil, err
	}
	outcome := numberOr(burn, 0)

	if income == 0 {
		return &model.MetricResult{
			Metric:      "savings_rate",
			Value:       0.0,
			Risk:        model.RiskCritical,
			Explanation: "No income data found. Cannot calculate savings rate.",
			Inputs: map[string]any{
				"monthly_income":  0.0,
				"monthly_outcome": outcome,
			},
		}, nil
	}

	savings := income - outcome
	rate := savings / income * 100

	return &model.MetricResult{
		Metric: "savings_rate",
		Value:  round2(rate),
		Risk:   e.policy.SavingsRate.Level(rate),
		Explanation: fmt.Sprintf("Savings rate is %.2f%% (saving %s/month from %s/month income)",
			rate, money(savings), money(income)),
		Inputs: map[string]any{
			"monthly_income":  income,
			"monthly_outcome": outcome,
			"monthly_savings": savings,
		},
	}, nil
}
