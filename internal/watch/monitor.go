// Package watch evaluates risk scores on a schedule and raises alerts.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// RiskScorer computes a user's composite risk.
type RiskScorer interface {
	RiskScore(ctx context.Context, userID string) (*analytics.RiskScoreResult, error)
}

// Alerter delivers a risk alert.
type Alerter interface {
	RiskAlert(ctx context.Context, userID string, risk *analytics.RiskScoreResult) error
}

// Result is the outcome of checking one user.
type Result struct {
	Err     error
	UserID  string
	Level   model.RiskLevel
	Score   float64
	Alerted bool
}

// Monitor checks configured users against an alert threshold. A user is
// alerted once per level; the record resets when the level drops below the
// threshold.
type Monitor struct {
	scorer    RiskScorer
	alerter   Alerter
	logger    *slog.Logger
	alerted   map[string]model.RiskLevel
	users     []string
	threshold model.RiskLevel
	mu        sync.Mutex
}

// NewMonitor creates a monitor. alerter may be nil, in which case breaches
// are only logged.
func NewMonitor(scorer RiskScorer, alerter Alerter, users []string, threshold model.RiskLevel, logger *slog.Logger) (*Monitor, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no users to watch", common.ErrMissingConfig)
	}
	if !threshold.IsKnown() {
		return nil, fmt.Errorf("%w: unknown alert level %q", common.ErrInvalidConfig, threshold)
	}
	return &Monitor{
		scorer:    scorer,
		alerter:   alerter,
		users:     users,
		threshold: threshold,
		alerted:   make(map[string]model.RiskLevel),
		logger:    common.ComponentLogger(logger, "watch"),
	}, nil
}

// Check scores every user once. Failures are reported per user.
func (m *Monitor) Check(ctx context.Context) []Result {
	results := make([]Result, 0, len(m.users))
	for _, userID := range m.users {
		if ctx.Err() != nil {
			break
		}
		results = append(results, m.checkUser(ctx, userID))
	}
	return results
}

func (m *Monitor) checkUser(ctx context.Context, userID string) Result {
	result := Result{UserID: userID}

	risk, err := m.scorer.RiskScore(ctx, userID)
	if err != nil {
		result.Err = err
		m.logger.Error("Failed to score risk", "user", userID, "error", err)
		return result
	}
	result.Level = risk.Level
	result.Score = risk.Score

	if !risk.Level.AtLeast(m.threshold) {
		m.forget(userID)
		m.logger.Debug("Risk below threshold", "user", userID, "level", risk.Level)
		return result
	}

	if !m.shouldAlert(userID, risk.Level) {
		m.logger.Debug("Risk alert already sent", "user", userID, "level", risk.Level)
		return result
	}

	m.logger.Warn("Risk threshold reached", "user", userID, "level", risk.Level, "threshold", m.threshold)
	if m.alerter == nil {
		m.remember(userID, risk.Level)
		return result
	}

	if err := m.alerter.RiskAlert(ctx, userID, risk); err != nil {
		result.Err = err
		return result
	}
	m.remember(userID, risk.Level)
	result.Alerted = true
	return result
}

func (m *Monitor) shouldAlert(userID string, level model.RiskLevel) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.alerted[userID]
	return !ok || last != level
}

func (m *Monitor) remember(userID string, level model.RiskLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerted[userID] = level
}

func (m *Monitor) forget(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.alerted, userID)
}

// ValidateSchedule checks a standard five-field cron spec.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w: invalid schedule %q: %w", common.ErrInvalidConfig, spec, err)
	}
	return nil
}

// Run checks on schedule until ctx is canceled. A check still running when
// the next one is due is skipped.
func (m *Monitor) Run(ctx context.Context, schedule string) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	logger := cron.PrintfLogger(slog.NewLogLogger(m.logger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(schedule, func() {
		results := m.Check(ctx)
		m.logger.Info("Risk check complete", "users", len(results), "alerts", countAlerts(results))
	}); err != nil {
		return fmt.Errorf("failed to schedule risk check: %w", err)
	}

	m.logger.Info("Watching risk", "schedule", schedule, "users", len(m.users), "threshold", m.threshold)
	c.Start()
	<-ctx.Done()

	<-c.Stop().Done()
	return nil
}

func countAlerts(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Alerted {
			n++
		}
	}
	return n
}
