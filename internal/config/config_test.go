package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mujtaba19938/FINDASH/internal/common"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join(home, ".local/share/findash/findash.db"), cfg.Database.Path)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, 15*time.Second, cfg.API.ReadTimeout)
	assert.Equal(t, "0 8 * * *", cfg.Watch.Schedule)
	assert.Equal(t, "high", cfg.Watch.AlertLevel)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_ConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  dsn: postgres://localhost/findash
api:
  addr: ":9090"
  read_timeout: 5s
  cors_origins: ["http://localhost:3000"]
watch:
  users: ["alice", "bob"]
  alert_level: critical
smtp:
  host: smtp.example.com
  from: alerts@example.com
  to: ["me@example.com"]
`), 0o600))
	t.Setenv("FINDASH_API_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("FINDASH_DEFAULT_USER", "alice")

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/findash", cfg.Database.DSN)
	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Equal(t, 5*time.Second, cfg.API.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.API.CORSOrigins)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Watch.Users)
	assert.Equal(t, "critical", cfg.Watch.AlertLevel)
	assert.Equal(t, strings.Repeat("s", 32), cfg.API.JWTSecret)
	assert.Equal(t, "alice", cfg.DefaultUser)
	assert.True(t, cfg.SMTPEnabled())
	require.NoError(t, cfg.ValidateSMTP())
	require.NoError(t, cfg.ValidateAPI())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		mutate func(*Config)
		name   string
		errMsg string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "memory", mutate: func(c *Config) { c.Database.Driver = DriverMemory }},
		{
			name:   "unknown driver",
			mutate: func(c *Config) { c.Database.Driver = "mysql" },
			errMsg: `unknown database.driver "mysql"`,
		},
		{
			name:   "postgres without dsn",
			mutate: func(c *Config) { c.Database.Driver = DriverPostgres },
			errMsg: "database.dsn is required",
		},
		{
			name:   "sqlite without path",
			mutate: func(c *Config) { c.Database.Path = "" },
			errMsg: "database.path is required",
		},
		{
			name:   "bad alert level",
			mutate: func(c *Config) { c.Watch.AlertLevel = "severe" },
			errMsg: "unknown watch.alert_level",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "loud" },
			errMsg: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_ValidateAPI(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.ValidateAPI(), common.ErrInvalidConfig)

	cfg.API.AuthDisabled = true
	assert.NoError(t, cfg.ValidateAPI())

	cfg.API.Addr = ""
	assert.Error(t, cfg.ValidateAPI())
}

func TestConfig_Conversions(t *testing.T) {
	cfg := Default()
	cfg.Plaid = PlaidConfig{ClientID: "id", Secret: "s", Environment: "Sandbox", AccessToken: "tok"}
	cfg.Sheets.ServiceAccountPath = "/keys/sa.json"
	cfg.Sheets.SpreadsheetName = ""

	pc := cfg.PlaidClientConfig()
	assert.Equal(t, "sandbox", pc.Environment)
	assert.NoError(t, pc.Validate())

	sc := cfg.SheetsWriterConfig()
	assert.Equal(t, "/keys/sa.json", sc.ServiceAccountPath)
	assert.Equal(t, "FINDASH Summary", sc.SpreadsheetName)
	assert.NoError(t, sc.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINDASH_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/db/findash.db", filepath.Join(home, "db/findash.db")},
		{"$FINDASH_TEST_DIR/findash.db", "/data/findash.db"},
		{"/abs/path", "/abs/path"},
		{"~user/x", "~user/x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
