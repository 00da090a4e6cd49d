// Package sheets exports financial summaries to Google Sheets.
package sheets

import (
	"fmt"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/common"
)

// AuthMethod names how the writer obtains Google credentials.
type AuthMethod string

// Supported auth methods.
const (
	AuthServiceAccount AuthMethod = "service_account"
	AuthOAuth2         AuthMethod = "oauth2"
)

// Config describes the target spreadsheet and how to reach it. Exactly one
// of ServiceAccountPath or the OAuth2 triple must be set.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	// SpreadsheetID targets an existing spreadsheet; empty creates one.
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string
	// CurrencyPattern formats the money cells of the state block.
	CurrencyPattern string
	Retry           common.RetryOptions
	Formatting      bool
}

// DefaultConfig returns the export defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName: "FINDASH Summary",
		TimeZone:        "UTC",
		CurrencyPattern: "$#,##0.00",
		Formatting:      true,
		Retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2,
		},
	}
}

// Auth reports the configured auth method.
func (c *Config) Auth() (AuthMethod, error) {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	serviceAccount := c.ServiceAccountPath != ""

	switch {
	case oauth && serviceAccount:
		return "", fmt.Errorf("%w: configure either sheets.service_account_path or OAuth2 credentials, not both", common.ErrInvalidConfig)
	case serviceAccount:
		return AuthServiceAccount, nil
	case oauth:
		return AuthOAuth2, nil
	default:
		return "", fmt.Errorf("%w: no Google credentials configured", common.ErrMissingConfig)
	}
}

// Validate checks the configuration before any network call.
func (c *Config) Validate() error {
	if _, err := c.Auth(); err != nil {
		return err
	}
	if c.SpreadsheetID == "" && c.SpreadsheetName == "" {
		return fmt.Errorf("%w: spreadsheet name is required when no spreadsheet ID is set", common.ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", common.ErrInvalidConfig, c.TimeZone)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
