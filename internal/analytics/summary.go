package analytics

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// FinancialState is the headline position in a Summary.
type FinancialState struct {
	Runway    string          `json:"runway"`
	RiskLevel model.RiskLevel `json:"risk_level"`
	Balance   float64         `json:"balance"`
	Income    float64         `json:"income"`
	BurnRate  float64         `json:"burn_rate"`
}

// Insight is a condensed metric for display.
type Insight struct {
	Value       any             `json:"value"`
	Metric      string          `json:"metric"`
	Risk        model.RiskLevel `json:"risk"`
	Explanation string          `json:"explanation"`
}

// Summary is the advisory overview of a user's finances.
type Summary struct {
	Insights        []Insight       `json:"insights"`
	Simulations     []any           `json:"simulations"`
	Anomalies       []Anomaly       `json:"anomalies"`
	Forecast        []ForecastPoint `json:"forecast"`
	Recommendations []string        `json:"recommendations"`
	State           FinancialState  `json:"financial_state"`
}

// Recommendation messages.
const (
	RecommendCriticalRunway = "CRITICAL: Very low runway. Consider reducing expenses immediately or increasing income."
	RecommendMonitorRunway  = "Monitor cashflow closely. Consider building emergency fund."
	RecommendHighRisk       = "High financial risk detected. Review spending patterns and consider financial planning."
	RecommendManyPayments   = "Multiple upcoming payments. Consider prioritizing high-interest debt and critical bills."
	RecommendHighBurn       = "High monthly burn rate. Review recurring expenses and subscriptions."
)

// Summary gathers the core metrics, a six month forecast and recent anomalies
// into one overview with heuristic recommendations.
func (e *Engine) Summary(ctx context.Context, userID string) (*Summary, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	summary, err := e.summary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate financial summary: %w", err)
	}
	return summary, nil
}

func (e *Engine) summary(ctx context.Context, userID string) (*Summary, error) {
	var (
		burn      *model.MetricResult
		savings   *model.MetricResult
		runway    *model.MetricResult
		risk      *RiskScoreResult
		payments  *PaymentPriorityResult
		forecast  *ForecastResult
		anomalies *AnomalyResult
		incomes   []model.Income
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { burn, err = e.BurnRate(gctx, userID); return err })
	g.Go(func() (err error) { savings, err = e.SavingsRate(gctx, userID); return err })
	g.Go(func() (err error) { runway, err = e.Runway(gctx, userID); return err })
	g.Go(func() (err error) { risk, err = e.RiskScore(gctx, userID); return err })
	g.Go(func() (err error) { payments, err = e.PaymentPriority(gctx, userID); return err })
	g.Go(func() (err error) { forecast, err = e.Forecast(gctx, userID, DefaultForecastMonths); return err })
	g.Go(func() (err error) { anomalies, err = e.Anomalies(gctx, userID); return err })
	g.Go(func() (err error) { incomes, err = e.fetchIncomes(gctx, userID); return err })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	burnRate := numberOr(burn, 0)
	runwayLabel, ok := runway.Value.(string)
	if !ok {
		runwayLabel = RunwayUnknown
	}

	return &Summary{
		State: FinancialState{
			Balance:   inputOr(runway, "balance", 0),
			Income:    monthlyIncome(incomes),
			BurnRate:  burnRate,
			Runway:    runwayLabel,
			RiskLevel: risk.Level,
		},
		Insights: []Insight{
			insight(burn),
			insight(savings),
			insight(runway),
			insight(&payments.MetricResult),
		},
		Simulations:     []any{},
		Anomalies:       anomalies.Anomalies,
		Forecast:        forecast.Forecast,
		Recommendations: e.recommend(burnRate, runway, len(payments.Payments), risk.Level),
	}, nil
}

func insight(result *model.MetricResult) Insight {
	return Insight{
		Metric:      result.Metric,
		Value:       result.Value,
		Risk:        result.Risk,
		Explanation: result.Explanation,
	}
}

func (e *Engine) recommend(burnRate float64, runway *model.MetricResult, paymentCount int, level model.RiskLevel) []string {
	p := e.policy
	recommendations := []string{}

	runwayDays := inputOr(runway, "runway_days", math.Inf(1))
	switch {
	case runwayDays < p.VeryShortRunwayDays:
		recommendations = append(recommendations, RecommendCriticalRunway)
	case runwayDays < p.ShortRunwayDays:
		recommendations = append(recommendations, RecommendMonitorRunway)
	}
	if level.AtLeast(model.RiskHigh) {
		recommendations = append(recommendations, RecommendHighRisk)
	}
	if paymentCount > p.CrowdedPayments {
		recommendations = append(recommendations, RecommendManyPayments)
	}
	if burnRate > p.HighBurn {
		recommendations = append(recommendations, RecommendHighBurn)
	}
	return recommendations
}
