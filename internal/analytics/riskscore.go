package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// RiskScoreResult is the composite risk metric.
type RiskScoreResult struct {
	model.MetricResult
	// Level duplicates Risk under the name API clients expect.
	Level model.RiskLevel `json:"risk_score"`
	// Score is the clamped score in [0, 1].
	Score float64 `json:"-"`
}

// riskFactors are the raw figures behind a risk score.
type riskFactors struct {
	runwayDays  float64
	burnRate    float64
	upcoming    float64
	balance     float64
	incomeCount int
	stability   float64
	obligations float64
}

// RiskScore combines runway, upcoming obligations, burn rate and income
// stability into one weighted score. A negative balance forces the maximum.
func (e *Engine) RiskScore(ctx context.Context, userID string) (*RiskScoreResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	result, err := e.riskScore(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate risk score: %w", err)
	}
	return result, nil
}

func (e *Engine) riskScore(ctx context.Context, userID string) (*RiskScoreResult, error) {
	var (
		runway   *model.MetricResult
		burn     *model.MetricResult
		payments *PaymentPriorityResult
		incomes  []model.Income
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		runway, err = e.Runway(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		burn, err = e.BurnRate(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = e.PaymentPriority(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = e.fetchIncomes(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := riskFactors{
		runwayDays:  inputOr(runway, "runway_days", math.Inf(1)),
		burnRate:    numberOr(burn, 0),
		upcoming:    inputOr(&payments.MetricResult, "total_amount", 0),
		balance:     inputOr(runway, "balance", 0),
		incomeCount: len(incomes),
	}
	score := e.score(&f)
	level := e.policy.Score.Level(score)

	inputs := map[string]any{
		"monthly_burn_rate":       f.burnRate,
		"upcoming_payments_total": f.upcoming,
		"income_source_count":     float64(f.incomeCount),
		"income_stability":        f.stability,
		"current_balance":         f.balance,
		"risk_score":              score,
	}
	if finite(f.runwayDays) {
		inputs["runway_days"] = f.runwayDays
	}

	e.logger.Debug("Calculated risk score",
		"user_id", userID,
		"score", score,
		"level", level)

	return &RiskScoreResult{
		MetricResult: model.MetricResult{
			Metric:      "risk_score",
			Value:       math.Round(score * 100),
			Risk:        level,
			Explanation: e.explainRisk(level, &f),
			Inputs:      inputs,
		},
		Level: level,
		Score: score,
	}, nil
}

// score computes the clamped composite score and fills the derived factors.
func (e *Engine) score(f *riskFactors) float64 {
	p := e.policy

	f.stability = p.UnstableIncome
	if f.incomeCount > 1 {
		f.stability = p.StableIncome
	}
	if f.burnRate > 0 {
		f.obligations = f.upcoming / f.burnRate
	}
	score := p.RunwayWeight.Weight(f.runwayDays) +
		p.ObligationWeight.Weight(f.obligations) +
		p.BurnWeight.Weight(f.burnRate) +
		(1-f.stability)*p.IncomeInstabilityWeight

	if f.balance < 0 {
		score = 1.0
	}
	return math.Max(0, math.Min(1, score))
}

func (e *Engine) explainRisk(level model.RiskLevel, f *riskFactors) string {
	p := e.policy
	var factors []string

	if f.balance < 0 {
		factors = append(factors, "negative balance")
	}
	switch {
	case f.runwayDays < p.VeryShortRunwayDays:
		factors = append(factors, fmt.Sprintf("very short runway (%.0f days)", math.Round(f.runwayDays)))
	case f.runwayDays < p.ShortRunwayDays:
		factors = append(factors, fmt.Sprintf("short runway (%.0f days)", math.Round(f.runwayDays)))
	}
	if f.upcoming > f.burnRate*p.ObligationsFactor {
		factors = append(factors, "high upcoming payment obligations")
	}
	if f.incomeCount <= 1 {
		factors = append(factors, "single income source (low stability)")
	}
	if f.burnRate > p.HighBurn {
		factors = append(factors, "high monthly burn rate")
	}

	explanation := fmt.Sprintf("Overall financial risk is %s.", level)
	if len(factors) > 0 {
		explanation += " Risk factors: " + strings.Join(factors, ", ") + "."
	}
	return explanation
}
