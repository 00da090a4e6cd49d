package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

func validConfig() Config {
	return Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "alerts",
		Password: "secret",
		From:     "findash@example.com",
		To:       []string{"me@example.com"},
	}
}

func highRisk() *analytics.RiskScoreResult {
	return &analytics.RiskScoreResult{
		MetricResult: model.MetricResult{
			Metric:      "risk_score",
			Risk:        model.RiskHigh,
			Explanation: "Runway is short and obligations are heavy.",
			Inputs:      map[string]any{"runway_days": 40.0, "burn_rate": 2500.0},
		},
		Level: model.RiskHigh,
		Score: 0.72,
	}
}

type capturedSend struct {
	email *email.Email
	auth  smtp.Auth
	addr  string
	calls int
}

func newTestMailer(t *testing.T, failures int) (*Mailer, *capturedSend) {
	t.Helper()
	m, err := NewMailer(validConfig(), nil)
	require.NoError(t, err)

	captured := &capturedSend{}
	m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		captured.calls++
		if captured.calls <= failures {
			return errors.New("connection refused")
		}
		captured.email, captured.addr, captured.auth = e, addr, auth
		return nil
	}
	m.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	m.retry = common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return m, captured
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		modify  func(*Config)
		wantErr error
		name    string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing host", modify: func(c *Config) { c.Host = "" }, wantErr: common.ErrMissingConfig},
		{name: "missing from", modify: func(c *Config) { c.From = "" }, wantErr: common.ErrMissingConfig},
		{name: "no recipients", modify: func(c *Config) { c.To = nil }, wantErr: common.ErrMissingConfig},
		{name: "bad port", modify: func(c *Config) { c.Port = 0 }, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewMailer_InvalidConfig(t *testing.T) {
	_, err := NewMailer(Config{}, nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestMailer_RiskAlert(t *testing.T) {
	m, captured := newTestMailer(t, 0)

	require.NoError(t, m.RiskAlert(context.Background(), "u1", highRisk()))

	require.NotNil(t, captured.email)
	assert.Equal(t, "smtp.example.com:587", captured.addr)
	assert.NotNil(t, captured.auth)
	assert.Equal(t, "findash@example.com", captured.email.From)
	assert.Equal(t, []string{"me@example.com"}, captured.email.To)
	assert.Equal(t, "[FINDASH] HIGH financial risk for u1", captured.email.Subject)

	body := string(captured.email.Text)
	assert.Contains(t, body, "Risk assessment for u1 at 2024-03-01 08:00 UTC")
	assert.Contains(t, body, "Score: 0.72")
	assert.Contains(t, body, "Runway is short")
	assert.Less(t, strings.Index(body, "burn_rate"), strings.Index(body, "runway_days"))
}

func TestMailer_RiskAlertRetries(t *testing.T) {
	m, captured := newTestMailer(t, 2)

	require.NoError(t, m.RiskAlert(context.Background(), "u1", highRisk()))
	assert.Equal(t, 3, captured.calls)
}

func TestMailer_RiskAlertGivesUp(t *testing.T) {
	m, captured := newTestMailer(t, 5)

	err := m.RiskAlert(context.Background(), "u1", highRisk())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 3, captured.calls)
}

func TestMailer_CanceledContext(t *testing.T) {
	m, captured := newTestMailer(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.RiskAlert(ctx, "u1", highRisk()), context.Canceled)
	assert.Zero(t, captured.calls)
}

func TestConfig_AuthWithoutUsername(t *testing.T) {
	cfg := validConfig()
	cfg.Username = ""
	assert.Nil(t, cfg.auth())
}
