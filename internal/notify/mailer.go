// Package notify sends risk alerts by e-mail.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jordan-wright/email"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Username string
	Password string
	From     string
	To       []string
	Port     int
}

// Validate checks that the mailer can send.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: smtp host is required", common.ErrMissingConfig)
	}
	if c.From == "" {
		return fmt.Errorf("%w: sender address is required", common.ErrMissingConfig)
	}
	if len(c.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", common.ErrMissingConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid smtp port %d", common.ErrInvalidConfig, c.Port)
	}
	return nil
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) auth() smtp.Auth {
	if c.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", c.Username, c.Password, c.Host)
}

// sendFunc delivers one message.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

func smtpSend(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

// Mailer sends alert e-mail.
type Mailer struct {
	send   sendFunc
	logger *slog.Logger
	now    func() time.Time
	config Config
	retry  common.RetryOptions
}

// NewMailer creates a mailer from a validated config.
func NewMailer(cfg Config, logger *slog.Logger) (*Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Mailer{
		config: cfg,
		send:   smtpSend,
		logger: common.ComponentLogger(logger, "notify"),
		now:    time.Now,
		retry:  common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2},
	}, nil
}

// RiskAlert e-mails the risk score for userID.
func (m *Mailer) RiskAlert(ctx context.Context, userID string, risk *analytics.RiskScoreResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.config.From
	e.To = m.config.To
	e.Subject = AlertSubject(userID, risk)
	e.Text = []byte(AlertBody(userID, risk, m.now()))

	err := common.WithRetry(ctx, func() error {
		if err := m.send(e, m.config.addr(), m.config.auth()); err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		return nil
	}, m.retry)
	if err != nil {
		m.logger.Error("Failed to send risk alert", "user", userID, "error", err)
		return fmt.Errorf("failed to send risk alert: %w", err)
	}

	m.logger.Info("Risk alert sent", "user", userID, "level", risk.Level, "recipients", len(e.To))
	return nil
}

// AlertSubject is the subject line of a risk alert.
func AlertSubject(userID string, risk *analytics.RiskScoreResult) string {
	return fmt.Sprintf("[FINDASH] %s financial risk for %s", strings.ToUpper(string(risk.Level)), userID)
}

// AlertBody is the plain-text body of a risk alert.
func AlertBody(userID string, risk *analytics.RiskScoreResult, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk assessment for %s at %s\n\n", userID, at.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Level: %s\n", risk.Level)
	fmt.Fprintf(&b, "Score: %.2f\n\n", risk.Score)
	b.WriteString(risk.Explanation)
	b.WriteString("\n")

	if len(risk.Inputs) > 0 {
		keys := make([]string, 0, len(risk.Inputs))
		for k := range risk.Inputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\nInputs:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %v\n", k, risk.Inputs[k])
		}
	}
	return b.String()
}
