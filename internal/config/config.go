// Package config holds the explicit configuration assembled at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/notify"
	"github.com/Mujtaba19938/FINDASH/internal/plaid"
	"github.com/Mujtaba19938/FINDASH/internal/sheets"
)

// EnvPrefix prefixes environment overrides, e.g. FINDASH_DATABASE_DRIVER.
const EnvPrefix = "FINDASH"

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full application configuration.
type Config struct {
	Plaid       PlaidConfig    `mapstructure:"plaid"`
	Sheets      SheetsConfig   `mapstructure:"sheets"`
	SMTP        SMTPConfig     `mapstructure:"smtp"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	Database    DatabaseConfig `mapstructure:"database"`
	DefaultUser string         `mapstructure:"default_user"`
	Watch       WatchConfig    `mapstructure:"watch"`
	API         APIConfig      `mapstructure:"api"`
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	// Path is the SQLite file, or ":memory:".
	Path string `mapstructure:"path"`
	// DSN is the Postgres connection string.
	DSN string `mapstructure:"dsn"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Addr        string        `mapstructure:"addr"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// TLSDir holds the self-signed certificate used by serve --tls.
	TLSDir string `mapstructure:"tls_dir"`
	// AuthDisabled trusts the X-User-Id header. Local development only.
	AuthDisabled bool `mapstructure:"auth_disabled"`
}

// PlaidConfig holds Plaid credentials.
type PlaidConfig struct {
	ClientID    string `mapstructure:"client_id"`
	Secret      string `mapstructure:"secret"`
	Environment string `mapstructure:"environment"`
	AccessToken string `mapstructure:"access_token"`
}

// SheetsConfig holds Google Sheets export settings.
type SheetsConfig struct {
	ClientID           string `mapstructure:"client_id"`
	ClientSecret       string `mapstructure:"client_secret"`
	RefreshToken       string `mapstructure:"refresh_token"`
	ServiceAccountPath string `mapstructure:"service_account_path"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SpreadsheetName    string `mapstructure:"spreadsheet_name"`
	TokenFile          string `mapstructure:"token_file"`
}

// SMTPConfig configures risk alert e-mail.
type SMTPConfig struct {
	Host     string   `mapstructure:"host"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
	Port     int      `mapstructure:"port"`
}

// WatchConfig configures scheduled risk monitoring.
type WatchConfig struct {
	Schedule   string   `mapstructure:"schedule"`
	AlertLevel string   `mapstructure:"alert_level"`
	Users      []string `mapstructure:"users"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "~/.local/share/findash/findash.db",
		},
		API: APIConfig{
			Addr:        ":8080",
			ReadTimeout: 15 * time.Second,
			TLSDir:      "~/.config/findash/certs",
		},
		Plaid:   PlaidConfig{Environment: "sandbox"},
		Sheets:  SheetsConfig{SpreadsheetName: sheets.DefaultConfig().SpreadsheetName},
		SMTP:    SMTPConfig{Port: 587},
		Watch:   WatchConfig{Schedule: "0 8 * * *", AlertLevel: string(model.RiskHigh)},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// SetDefaults registers every key with v, seeded from Default, so that
// environment overrides apply to keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	defaults := map[string]any{
		"default_user":                d.DefaultUser,
		"database.driver":             d.Database.Driver,
		"database.path":               d.Database.Path,
		"database.dsn":                d.Database.DSN,
		"api.addr":                    d.API.Addr,
		"api.jwt_secret":              d.API.JWTSecret,
		"api.cors_origins":            d.API.CORSOrigins,
		"api.read_timeout":            d.API.ReadTimeout,
		"api.auth_disabled":           d.API.AuthDisabled,
		"api.tls_dir":                 d.API.TLSDir,
		"plaid.client_id":             d.Plaid.ClientID,
		"plaid.secret":                d.Plaid.Secret,
		"plaid.environment":           d.Plaid.Environment,
		"plaid.access_token":          d.Plaid.AccessToken,
		"sheets.client_id":            d.Sheets.ClientID,
		"sheets.client_secret":        d.Sheets.ClientSecret,
		"sheets.refresh_token":        d.Sheets.RefreshToken,
		"sheets.service_account_path": d.Sheets.ServiceAccountPath,
		"sheets.spreadsheet_id":       d.Sheets.SpreadsheetID,
		"sheets.spreadsheet_name":     d.Sheets.SpreadsheetName,
		"sheets.token_file":           d.Sheets.TokenFile,
		"smtp.host":                   d.SMTP.Host,
		"smtp.port":                   d.SMTP.Port,
		"smtp.username":               d.SMTP.Username,
		"smtp.password":               d.SMTP.Password,
		"smtp.from":                   d.SMTP.From,
		"smtp.to":                     d.SMTP.To,
		"watch.schedule":              d.Watch.Schedule,
		"watch.alert_level":           d.Watch.AlertLevel,
		"watch.users":                 d.Watch.Users,
		"logging.level":               d.Logging.Level,
		"logging.format":              d.Logging.Format,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Load decodes v into a validated Config with paths expanded.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Sheets.ServiceAccountPath = ExpandPath(cfg.Sheets.ServiceAccountPath)
	cfg.Sheets.TokenFile = ExpandPath(cfg.Sheets.TokenFile)
	cfg.API.TLSDir = ExpandPath(cfg.API.TLSDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings every command depends on. Integration settings
// are checked when the integration is used.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	if !model.RiskLevel(c.Watch.AlertLevel).IsKnown() {
		errs = append(errs, fmt.Errorf("unknown watch.alert_level %q", c.Watch.AlertLevel))
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ValidateAPI checks the server settings.
func (c *Config) ValidateAPI() error {
	if c.API.Addr == "" {
		return fmt.Errorf("%w: api.addr is required", common.ErrInvalidConfig)
	}
	if !c.API.AuthDisabled && len(c.API.JWTSecret) < 32 {
		return fmt.Errorf("%w: api.jwt_secret must be at least 32 bytes unless api.auth_disabled is set", common.ErrInvalidConfig)
	}
	return nil
}

// ValidateSMTP checks the mailer settings.
func (c *Config) ValidateSMTP() error {
	if c.SMTP.Host == "" || c.SMTP.From == "" || len(c.SMTP.To) == 0 {
		return fmt.Errorf("%w: smtp.host, smtp.from and smtp.to are required", common.ErrMissingConfig)
	}
	return nil
}

// SMTPEnabled reports whether alert e-mail is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}

// NotifyConfig converts to the mailer's configuration.
func (c *Config) NotifyConfig() notify.Config {
	return notify.Config{
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
		To:       c.SMTP.To,
	}
}

// PlaidClientConfig converts to the Plaid client's configuration.
func (c *Config) PlaidClientConfig() plaid.Config {
	return plaid.Config{
		ClientID:    c.Plaid.ClientID,
		Secret:      c.Plaid.Secret,
		Environment: strings.ToLower(c.Plaid.Environment),
		AccessToken: c.Plaid.AccessToken,
	}
}

// SheetsWriterConfig converts to the Sheets writer's configuration.
func (c *Config) SheetsWriterConfig() sheets.Config {
	out := sheets.DefaultConfig()
	out.ClientID = c.Sheets.ClientID
	out.ClientSecret = c.Sheets.ClientSecret
	out.RefreshToken = c.Sheets.RefreshToken
	out.ServiceAccountPath = c.Sheets.ServiceAccountPath
	out.SpreadsheetID = c.Sheets.SpreadsheetID
	if c.Sheets.SpreadsheetName != "" {
		out.SpreadsheetName = c.Sheets.SpreadsheetName
	}
	return out
}
