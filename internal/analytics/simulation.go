package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// PurchaseImpact is the payload of a purchase simulation.
type PurchaseImpact struct {
	PurchaseAmount         float64    `json:"purchase_amount"`
	NewBalance             float64    `json:"new_balance"`
	NewRunwayDays          RunwayDays `json:"new_runway_days"`
	RunwayReductionDays    RunwayDays `json:"runway_reduction_days"`
	RunwayReductionPercent float64    `json:"runway_reduction_percent"`
}

// IncomeChangeImpact is the payload of an income change simulation.
type IncomeChangeImpact struct {
	PercentChange    float64    `json:"percent_change"`
	NewMonthlyIncome float64    `json:"new_monthly_income"`
	NewNetCashflow   float64    `json:"new_net_cashflow"`
	NewRunwayDays    RunwayDays `json:"new_runway_days"`
}

// ExpenseChangeImpact is the payload of an expense change simulation.
type ExpenseChangeImpact struct {
	PercentChange      float64    `json:"percent_change"`
	NewMonthlyBurnRate float64    `json:"new_monthly_burn_rate"`
	NewNetCashflow     float64    `json:"new_net_cashflow"`
	NewRunwayDays      RunwayDays `json:"new_runway_days"`
}

// SimulatePurchase reports how a one-off purchase of amount would shorten the runway.
func (e *Engine) SimulatePurchase(ctx context.Context, userID string, amount float64) (*model.MetricResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if !(amount > 0) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	result, err := e.simulatePurchase(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate purchase: %w", err)
	}
	return result, nil
}

func (e *Engine) simulatePurchase(ctx context.Context, userID string, amount float64) (*model.MetricResult, error) {
	runway, err := e.Runway(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance := inputOr(runway, "balance", 0)

	burn, err := e.BurnRate(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthlyBurn := numberOr(burn, 0)
	dailyBurn := monthlyBurn / daysPerMonth

	newBalance := balance - amount
	newRunway := math.Inf(1)
	if dailyBurn > 0 {
		newRunway = newBalance / dailyBurn
	}
	currentRunway := inputOr(runway, "runway_days", math.Inf(1))

	reduction := currentRunway - newRunway
	if math.IsNaN(reduction) {
		reduction = 0
	}
	reductionPercent := 0.0
	if currentRunway > 0 && finite(currentRunway) {
		reductionPercent = reduction / currentRunway * 100
	}

	risk := e.policy.PurchaseImpact.Level(reductionPercent)
	if newBalance < 0 {
		risk = model.RiskCritical
	}

	inputs := map[string]any{
		"current_balance":   balance,
		"monthly_burn_rate": monthlyBurn,
		"purchase_amount":   amount,
	}
	if finite(currentRunway) {
		inputs["current_runway_days"] = currentRunway
	}

	return &model.MetricResult{
		Metric: "purchase_simulation",
		Value: PurchaseImpact{
			PurchaseAmount:         amount,
			NewBalance:             round2(newBalance),
			NewRunwayDays:          RunwayDays(newRunway),
			RunwayReductionDays:    RunwayDays(reduction),
			RunwayReductionPercent: round2(reductionPercent),
		},
		Risk: risk,
		Explanation: fmt.Sprintf("Purchase of %s would reduce runway by %s (%.1f%%), resulting in %s remaining",
			money(amount), RunwayDays(reduction), reductionPercent, RunwayDays(newRunway)),
		Inputs: inputs,
	}, nil
}

// SimulateIncomeChange reports the cashflow and runway if monthly income changed by percent.
func (e *Engine) SimulateIncomeChange(ctx context.Context, userID string, percent float64) (*model.MetricResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}

	result, err := e.simulateIncomeChange(ctx, userID, percent)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate income change: %w", err)
	}
	return result, nil
}

func (e *Engine) simulateIncomeChange(ctx context.Context, userID string, percent float64) (*model.MetricResult, error) {
	incomes, err := e.fetchIncomes(ctx, userID)
	if err != nil {
		return nil, err
	}
	income := monthlyIncome(incomes)

	burn, err := e.BurnRate(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthlyBurn := numberOr(burn, 0)

	runway, err := e.Runway(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance := inputOr(runway, "balance", 0)

	newIncome := income * (1 + percent/100)
	net := newIncome - monthlyBurn
	newRunway := cashflowRunway(balance, net)

	return &model.MetricResult{
		Metric: "income_change_simulation",
		Value: IncomeChangeImpact{
			PercentChange:    percent,
			NewMonthlyIncome: round2(newIncome),
			NewNetCashflow:   round2(net),
			NewRunwayDays:    RunwayDays(newRunway),
		},
		Risk:        e.cashflowRisk(net, newRunway),
		Explanation: describeChange("Income", percent, net),
		Inputs: map[string]any{
			"current_monthly_income": income,
			"percent_change":         percent,
			"monthly_burn_rate":      monthlyBurn,
			"current_balance":        balance,
		},
	}, nil
}

// SimulateExpenseChange reports the cashflow and runway if the burn rate changed by percent.
func (e *Engine) SimulateExpenseChange(ctx context.Context, userID string, percent float64) (*model.MetricResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}

	result, err := e.simulateExpenseChange(ctx, userID, percent)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate expense change: %w", err)
	}
	return result, nil
}

func (e *Engine) simulateExpenseChange(ctx context.Context, userID string, percent float64) (*model.MetricResult, error) {
	burn, err := e.BurnRate(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthlyBurn := numberOr(burn, 0)

	incomes, err := e.fetchIncomes(ctx, userID)
	if err != nil {
		return nil, err
	}
	income := monthlyIncome(incomes)

	runway, err := e.Runway(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance := inputOr(runway, "balance", 0)

	newBurn := monthlyBurn * (1 + percent/100)
	net := income - newBurn
	newRunway := cashflowRunway(balance, net)

	return &model.MetricResult{
		Metric: "expense_change_simulation",
		Value: ExpenseChangeImpact{
			PercentChange:      percent,
			NewMonthlyBurnRate: round2(newBurn),
			NewNetCashflow:     round2(net),
			NewRunwayDays:      RunwayDays(newRunway),
		},
		Risk:        e.cashflowRisk(net, newRunway),
		Explanation: describeChange("Expense", percent, net),
		Inputs: map[string]any{
			"current_monthly_burn_rate": monthlyBurn,
			"percent_change":            percent,
			"monthly_income":            income,
			"current_balance":           balance,
		},
	}, nil
}

func validatePercent(percent float64) error {
	if math.IsNaN(percent) || percent < MinPercentChange || percent > MaxPercentChange {
		return ErrInvalidPercent
	}
	return nil
}

// cashflowRunway is the days until balance runs out at a net monthly
// cashflow; unbounded when cashflow is not negative.
func cashflowRunway(balance, netMonthly float64) float64 {
	dailyNet := netMonthly / daysPerMonth
	if dailyNet < 0 {
		return balance / math.Abs(dailyNet)
	}
	return math.Inf(1)
}

func (e *Engine) cashflowRisk(net, runwayDays float64) model.RiskLevel {
	if net >= 0 {
		return model.RiskLow
	}
	if level := e.policy.CashflowRunway.Level(runwayDays); level != model.RiskLow {
		return level
	}
	return model.RiskMedium
}

func describeChange(subject string, percent, net float64) string {
	direction := "increase"
	if percent < 0 {
		direction = "decrease"
	}
	sign := "positive"
	if net < 0 {
		sign = "negative"
	}
	return fmt.Sprintf("%s %s of %v%% would result in %s cashflow of %s/month",
		subject, direction, math.Abs(percent), sign, money(math.Abs(net)))
}
