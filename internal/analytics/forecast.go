package analytics

import (
	"context"
	"fmt"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// ForecastPoint is the projected position at the end of one month.
type ForecastPoint struct {
	Month             string  `json:"month"`
	ProjectedBalance  float64 `json:"projected_balance"`
	ProjectedIncome   float64 `json:"projected_income"`
	ProjectedExpenses float64 `json:"projected_expenses"`
}

// ForecastResult is the cashflow forecast metric with one point per month.
type ForecastResult struct {
	model.MetricResult
	Forecast []ForecastPoint `json:"forecast"`
}

// Forecast projects the balance forward months months with a constant net
// monthly cashflow. months must be between 1 and 24.
func (e *Engine) Forecast(ctx context.Context, userID string, months int) (*ForecastResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if months < MinForecastMonths || months > MaxForecastMonths {
		return nil, ErrInvalidMonths
	}

	result, err := e.forecast(ctx, userID, months)
	if err != nil {
		return nil, fmt.Errorf("failed to generate cashflow forecast: %w", err)
	}
	return result, nil
}

func (e *Engine) forecast(ctx context.Context, userID string, months int) (*ForecastResult, error) {
	balance, _, err := e.currentBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	incomes, err := e.fetchIncomes(ctx, userID)
	if err != nil {
		return nil, err
	}
	income := monthlyIncome(incomes)

	txns, err := e.fetchOutflows(ctx, userID, ForecastWindowMonths, "transactions")
	if err != nil {
		return nil, err
	}
	avgSpend := totalOutflow(txns) / ForecastWindowMonths

	expenses, err := e.fetchExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	expense := avgSpend + monthlyExpenses(expenses)
	net := income - expense

	now := e.now()
	points := make([]ForecastPoint, 0, months)
	projected := balance
	for i := 1; i <= months; i++ {
		projected += net
		points = append(points, ForecastPoint{
			Month:             now.AddDate(0, i, 0).Format("Jan 2006"),
			ProjectedBalance:  round2(projected),
			ProjectedIncome:   income,
			ProjectedExpenses: expense,
		})
	}

	final := points[len(points)-1].ProjectedBalance

	return &ForecastResult{
		MetricResult: model.MetricResult{
			Metric: "cashflow_forecast",
			Value:  float64(months),
			Risk:   e.policy.ForecastBalance.Level(final),
			Explanation: fmt.Sprintf("Projected balance after %d months: %s. Based on monthly income of %s and expenses of %s (net: %s/month)",
				months, money(final), money(income), money(expense), money(net)),
			Inputs: map[string]any{
				"current_balance":  balance,
				"monthly_income":   income,
				"monthly_expenses": expense,
				"net_cashflow":     net,
				"forecast_months":  float64(months),
			},
		},
		Forecast: points,
	}, nil
}
