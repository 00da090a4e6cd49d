package intent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// Analytics is the subset of the engine the router dispatches to.
type Analytics interface {
	BurnRate(ctx context.Context, userID string) (*model.MetricResult, error)
	SavingsRate(ctx context.Context, userID string) (*model.MetricResult, error)
	Runway(ctx context.Context, userID string) (*model.MetricResult, error)
	RiskScore(ctx context.Context, userID string) (*analytics.RiskScoreResult, error)
	Forecast(ctx context.Context, userID string, months int) (*analytics.ForecastResult, error)
	Anomalies(ctx context.Context, userID string) (*analytics.AnomalyResult, error)
	PaymentPriority(ctx context.Context, userID string) (*analytics.PaymentPriorityResult, error)
	SimulatePurchase(ctx context.Context, userID string, amount float64) (*model.MetricResult, error)
	SimulateIncomeChange(ctx context.Context, userID string, percent float64) (*model.MetricResult, error)
	SimulateExpenseChange(ctx context.Context, userID string, percent float64) (*model.MetricResult, error)
}

var _ Analytics = (*analytics.Engine)(nil)

// Request is a question from one user.
type Request struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
}

// Response carries the detected intent and every result it produced.
type Response struct {
	AggregatedResults map[string]any `json:"aggregated_results"`
	Intent            Intent         `json:"intent"`
	CalledFunctions   []string       `json:"called_functions"`
}

var (
	monthsPattern  = regexp.MustCompile(`(?i)(\d+)\s*months?`)
	amountPattern  = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)
	percentPattern = regexp.MustCompile(`(\d+)\s*%`)
)

// plannedForecastMonths is the horizon used for planning questions.
const plannedForecastMonths = 3

// call is one analytics invocation in a bundle.
type call struct {
	run      func(ctx context.Context) (any, error)
	function string
	key      string
}

// Router answers free-text questions by running the bundle for their intent.
type Router struct {
	engine Analytics
	logger *slog.Logger
}

// NewRouter creates a router over engine.
func NewRouter(engine Analytics) *Router {
	return &Router{
		engine: engine,
		logger: common.ComponentLogger(slog.Default(), "intent"),
	}
}

// Route detects the query's intent and runs its bundle concurrently. Any
// failing call fails the whole request.
func (r *Router) Route(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, analytics.ErrInvalidUserID
	}

	in := DetectIntent(req.Query)
	calls := r.plan(in, req)

	results := make([]any, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range calls {
		i, c := i, c
		g.Go(func() error {
			result, err := c.run(gctx)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to route intent: %w", err)
	}

	resp := &Response{
		Intent:            in,
		CalledFunctions:   make([]string, 0, len(calls)),
		AggregatedResults: make(map[string]any, len(calls)),
	}
	for i, c := range calls {
		resp.CalledFunctions = append(resp.CalledFunctions, c.function)
		resp.AggregatedResults[c.key] = results[i]
	}

	r.logger.Debug("Routed intent",
		"user_id", req.UserID,
		"intent", in,
		"functions", resp.CalledFunctions)

	return resp, nil
}

// plan returns the calls for an intent in their fixed order.
func (r *Router) plan(in Intent, req Request) []call {
	e, user := r.engine, req.UserID

	burnRate := call{function: "getBurnRate", key: "burn_rate", run: func(ctx context.Context) (any, error) {
		return e.BurnRate(ctx, user)
	}}
	runway := call{function: "getRunway", key: "runway", run: func(ctx context.Context) (any, error) {
		return e.Runway(ctx, user)
	}}
	forecast := func(months int) call {
		return call{function: "getCashflowForecast", key: "forecast", run: func(ctx context.Context) (any, error) {
			return e.Forecast(ctx, user, months)
		}}
	}

	switch in {
	case Forecasting:
		return []call{forecast(parseMonths(req.Query)), runway}

	case Simulation:
		return r.planSimulation(req)

	case Anomaly:
		return []call{{function: "detectSpendingAnomalies", key: "anomalies", run: func(ctx context.Context) (any, error) {
			return e.Anomalies(ctx, user)
		}}}

	case Planning:
		return []call{
			{function: "getPaymentPriority", key: "payment_priority", run: func(ctx context.Context) (any, error) {
				return e.PaymentPriority(ctx, user)
			}},
			runway,
			forecast(plannedForecastMonths),
		}

	default:
		return []call{
			burnRate,
			{function: "getSavingsRate", key: "savings_rate", run: func(ctx context.Context) (any, error) {
				return e.SavingsRate(ctx, user)
			}},
			runway,
			{function: "calculateRiskScore", key: "risk_score", run: func(ctx context.Context) (any, error) {
				return e.RiskScore(ctx, user)
			}},
		}
	}
}

// planSimulation picks a purchase, income or expense simulation. Queries
// without a usable number produce no call.
func (r *Router) planSimulation(req Request) []call {
	e, user := r.engine, req.UserID
	lower := strings.ToLower(req.Query)

	switch {
	case containsAny(lower, []string{"purchase", "buy", "spend"}):
		amount := firstNumber(amountPattern, req.Query)
		if amount <= 0 {
			return nil
		}
		return []call{{function: "simulatePurchase", key: "purchase_simulation", run: func(ctx context.Context) (any, error) {
			return e.SimulatePurchase(ctx, user, amount)
		}}}

	case strings.Contains(lower, "income"):
		percent := firstNumber(percentPattern, req.Query)
		if percent == 0 {
			return nil
		}
		return []call{{function: "simulateIncomeChange", key: "income_simulation", run: func(ctx context.Context) (any, error) {
			return e.SimulateIncomeChange(ctx, user, percent)
		}}}

	case strings.Contains(lower, "expense"):
		percent := firstNumber(percentPattern, req.Query)
		if percent == 0 {
			return nil
		}
		return []call{{function: "simulateExpenseChange", key: "expense_simulation", run: func(ctx context.Context) (any, error) {
			return e.SimulateExpenseChange(ctx, user, percent)
		}}}
	}
	return nil
}

// parseMonths reads "N months" from a query, defaulting to six months. An
// unparseable count is passed through as zero so the engine rejects it.
func parseMonths(query string) int {
	m := monthsPattern.FindStringSubmatch(query)
	if m == nil {
		return analytics.DefaultForecastMonths
	}
	months, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return months
}

func firstNumber(pattern *regexp.Regexp, query string) float64 {
	m := pattern.FindStringSubmatch(query)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
