package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

type fakeScorer struct {
	levels map[string]model.RiskLevel
	errs   map[string]error
	calls  int
	mu     sync.Mutex
}

func (f *fakeScorer) RiskScore(_ context.Context, userID string) (*analytics.RiskScoreResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[userID]; err != nil {
		return nil, err
	}
	level := f.levels[userID]
	return &analytics.RiskScoreResult{
		MetricResult: model.MetricResult{Metric: "risk_score", Risk: level},
		Level:        level,
		Score:        float64(level.Severity()) / 4,
	}, nil
}

func (f *fakeScorer) set(userID string, level model.RiskLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels[userID] = level
}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAlerter struct {
	err  error
	sent []string
}

func (f *fakeAlerter) RiskAlert(_ context.Context, userID string, _ *analytics.RiskScoreResult) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, userID)
	return nil
}

func TestNewMonitor_Validation(t *testing.T) {
	scorer := &fakeScorer{}

	_, err := NewMonitor(scorer, nil, nil, model.RiskHigh, nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewMonitor(scorer, nil, []string{"u1"}, model.RiskLevel("severe"), nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	m, err := NewMonitor(scorer, nil, []string{"u1"}, model.RiskMedium, nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestMonitor_Check(t *testing.T) {
	tests := []struct {
		name        string
		threshold   model.RiskLevel
		levels      map[string]model.RiskLevel
		wantAlerted []string
	}{
		{
			name:        "only users at or above threshold",
			threshold:   model.RiskHigh,
			levels:      map[string]model.RiskLevel{"u1": model.RiskLow, "u2": model.RiskHigh, "u3": model.RiskCritical},
			wantAlerted: []string{"u2", "u3"},
		},
		{
			name:        "medium threshold includes medium",
			threshold:   model.RiskMedium,
			levels:      map[string]model.RiskLevel{"u1": model.RiskMedium, "u2": model.RiskLow, "u3": model.RiskLow},
			wantAlerted: []string{"u1"},
		},
		{
			name:      "nobody at risk",
			threshold: model.RiskCritical,
			levels:    map[string]model.RiskLevel{"u1": model.RiskHigh, "u2": model.RiskMedium, "u3": model.RiskLow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerter := &fakeAlerter{}
			m, err := NewMonitor(&fakeScorer{levels: tt.levels}, alerter, []string{"u1", "u2", "u3"}, tt.threshold, nil)
			require.NoError(t, err)

			results := m.Check(context.Background())

			require.Len(t, results, 3)
			assert.Equal(t, tt.wantAlerted, alerter.sent)
			for _, r := range results {
				assert.Equal(t, tt.levels[r.UserID], r.Level)
				assert.NoError(t, r.Err)
			}
		})
	}
}

func TestMonitor_AlertsOncePerLevel(t *testing.T) {
	scorer := &fakeScorer{levels: map[string]model.RiskLevel{"u1": model.RiskHigh}}
	alerter := &fakeAlerter{}
	m, err := NewMonitor(scorer, alerter, []string{"u1"}, model.RiskHigh, nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, m.Check(ctx)[0].Alerted)
	assert.False(t, m.Check(ctx)[0].Alerted, "same level is not re-sent")

	scorer.set("u1", model.RiskCritical)
	assert.True(t, m.Check(ctx)[0].Alerted, "escalation alerts again")

	scorer.set("u1", model.RiskLow)
	assert.False(t, m.Check(ctx)[0].Alerted)

	scorer.set("u1", model.RiskCritical)
	assert.True(t, m.Check(ctx)[0].Alerted, "recovery resets the record")

	assert.Equal(t, []string{"u1", "u1", "u1"}, alerter.sent)
}

func TestMonitor_Failures(t *testing.T) {
	boom := errors.New("store offline")
	scorer := &fakeScorer{
		levels: map[string]model.RiskLevel{"u2": model.RiskCritical},
		errs:   map[string]error{"u1": boom},
	}
	alerter := &fakeAlerter{err: errors.New("smtp down")}
	m, err := NewMonitor(scorer, alerter, []string{"u1", "u2"}, model.RiskHigh, nil)
	require.NoError(t, err)

	results := m.Check(context.Background())

	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.EqualError(t, results[1].Err, "smtp down")
	assert.False(t, results[1].Alerted)

	alerter.err = nil
	results = m.Check(context.Background())
	assert.True(t, results[1].Alerted, "failed alert is retried on the next check")
}

func TestMonitor_NoAlerter(t *testing.T) {
	scorer := &fakeScorer{levels: map[string]model.RiskLevel{"u1": model.RiskCritical}}
	m, err := NewMonitor(scorer, nil, []string{"u1"}, model.RiskHigh, nil)
	require.NoError(t, err)

	results := m.Check(context.Background())

	require.Len(t, results, 1)
	assert.False(t, results[0].Alerted)
	assert.NoError(t, results[0].Err)
}

func TestMonitor_CheckStopsWhenCanceled(t *testing.T) {
	scorer := &fakeScorer{levels: map[string]model.RiskLevel{}}
	m, err := NewMonitor(scorer, nil, []string{"u1", "u2"}, model.RiskHigh, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, m.Check(ctx))
	assert.Zero(t, scorer.callCount())
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 8 * * *"))
	assert.NoError(t, ValidateSchedule("@every 1h"))
	assert.ErrorIs(t, ValidateSchedule("every morning"), common.ErrInvalidConfig)
	assert.ErrorIs(t, ValidateSchedule("0 0 8 * * *"), common.ErrInvalidConfig)
}

func TestMonitor_Run(t *testing.T) {
	scorer := &fakeScorer{levels: map[string]model.RiskLevel{"u1": model.RiskLow}}
	m, err := NewMonitor(scorer, nil, []string{"u1"}, model.RiskHigh, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, "@every 1s") }()

	require.Eventually(t, func() bool { return scorer.callCount() > 0 }, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestMonitor_RunRejectsBadSchedule(t *testing.T) {
	m, err := NewMonitor(&fakeScorer{}, nil, []string{"u1"}, model.RiskHigh, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Run(context.Background(), "nope"), common.ErrInvalidConfig)
}
