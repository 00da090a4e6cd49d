package analytics

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// Runway values that are not a day count.
const (
	RunwayUnknown  = "N/A"
	RunwayInfinite = "Infinite"
)

// Runway returns how long the current balance lasts at the current burn rate.
// Without any balance data the value is "N/A" with critical risk; with zero
// burn it is "Infinite" with low risk.
func (e *Engine) Runway(ctx context.Context, userID string) (*model.MetricResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	result, err := e.runway(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate runway: %w", err)
	}
	return result, nil
}

func (e *Engine) runway(ctx context.Context, userID string) (*model.MetricResult, error) {
	balance, ok, err := e.currentBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &model.MetricResult{
			Metric:      "runway",
			Value:       RunwayUnknown,
			Risk:        model.RiskCritical,
			Explanation: "No balance data found. Cannot calculate runway.",
			Inputs: map[string]any{
				"balance":   0.0,
				"burn_rate": 0.0,
			},
		}, nil
	}

	burn, err := e.BurnRate(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthlyBurn := numberOr(burn, 0)

	if monthlyBurn == 0 {
		return &model.MetricResult{
			Metric:      "runway",
			Value:       RunwayInfinite,
			Risk:        model.RiskLow,
			Explanation: "No expenses found. Runway is effectively infinite.",
			Inputs: map[string]any{
				"balance":           balance,
				"monthly_burn_rate": 0.0,
			},
		}, nil
	}

	dailyBurn := monthlyBurn / daysPerMonth
	runwayDays := balance / dailyBurn
	formatted := FormatRunway(runwayDays)

	return &model.MetricResult{
		Metric: "runway",
		Value:  formatted,
		Risk:   e.policy.Runway.Level(runwayDays),
		Explanation: fmt.Sprintf("Current balance of %s provides %s of runway at the current burn rate of %s/month (%s/day)",
			money(balance), formatted, money(monthlyBurn), money(dailyBurn)),
		Inputs: map[string]any{
			"balance":           balance,
			"monthly_burn_rate": monthlyBurn,
			"daily_burn_rate":   dailyBurn,
			"runway_days":       runwayDays,
		},
	}, nil
}

// FormatRunway renders a day count as whole months from a year onwards and as
// whole days below that.
func FormatRunway(days float64) string {
	if days >= runwayInMonthsDays {
		return fmt.Sprintf("%.0f months", math.Round(days/daysPerMonth))
	}
	return fmt.Sprintf("%.0f days", math.Round(days))
}

// RunwayDays is a day count that may be unbounded. It encodes to JSON as a
// number rounded to cents, or as "Infinite".
type RunwayDays float64

// Infinite reports whether the runway is unbounded.
func (d RunwayDays) Infinite() bool {
	return math.IsInf(float64(d), 0)
}

func (d RunwayDays) String() string {
	if d.Infinite() {
		return RunwayInfinite
	}
	return fmt.Sprintf("%.0f days", math.Round(float64(d)))
}

// MarshalJSON implements json.Marshaler.
func (d RunwayDays) MarshalJSON() ([]byte, error) {
	if d.Infinite() {
		return []byte(`"` + RunwayInfinite + `"`), nil
	}
	if math.IsNaN(float64(d)) {
		return []byte("0"), nil
	}
	return []byte(strconv.FormatFloat(round2(float64(d)), 'f', -1, 64)), nil
}
