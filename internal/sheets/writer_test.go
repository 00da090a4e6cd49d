package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

func TestConfig_Validate(t *testing.T) {
	oauth := func(c *Config) {
		c.ClientID, c.ClientSecret, c.RefreshToken = "client", "secret", "refresh"
	}

	tests := []struct {
		modify  func(c *Config)
		wantErr error
		name    string
		want    AuthMethod
	}{
		{
			name:   "oauth credentials",
			modify: oauth,
			want:   AuthOAuth2,
		},
		{
			name:   "service account",
			modify: func(c *Config) { c.ServiceAccountPath = "/path/to/key.json" },
			want:   AuthServiceAccount,
		},
		{
			name:    "no credentials",
			modify:  func(*Config) {},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "partial oauth credentials",
			modify: func(c *Config) {
				c.ClientID = "client"
			},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "both methods",
			modify: func(c *Config) {
				oauth(c)
				c.ServiceAccountPath = "/path/to/key.json"
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "no spreadsheet",
			modify: func(c *Config) {
				oauth(c)
				c.SpreadsheetName = ""
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "unknown time zone",
			modify: func(c *Config) {
				oauth(c)
				c.TimeZone = "Mars/Olympus"
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "negative retries",
			modify: func(c *Config) {
				oauth(c)
				c.Retry.MaxAttempts = -1
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			method, err := cfg.Auth()
			require.NoError(t, err)
			assert.Equal(t, tt.want, method)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Formatting)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, "FINDASH Summary", cfg.SpreadsheetName)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.InitialDelay)
}

func TestSummaryRows(t *testing.T) {
	at := time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)
	summary := &analytics.Summary{
		State: analytics.FinancialState{
			Balance:   2000,
			Income:    3000,
			BurnRate:  1100,
			Runway:    "54 days",
			RiskLevel: model.RiskMedium,
		},
		Insights: []analytics.Insight{
			{Metric: "burn_rate", Value: 1100.0, Risk: model.RiskLow, Explanation: "burn"},
			{Metric: "runway", Value: "54 days", Risk: model.RiskMedium, Explanation: "runway"},
		},
		Forecast: []analytics.ForecastPoint{
			{Month: "2026-11", ProjectedBalance: 3900, ProjectedIncome: 3000, ProjectedExpenses: 1100},
		},
		Anomalies: []analytics.Anomaly{
			{Timestamp: at.AddDate(0, 0, -2), Category: "dining", Vendor: "Bistro", Amount: 300, Baseline: 50, DeviationPercent: 500},
		},
		Recommendations: []string{analytics.RecommendMonitorRunway},
	}

	rows := SummaryRows("user-1", at, summary)

	assert.Equal(t, []any{"Financial Summary", "user-1", "2026-10-17 09:30"}, rows[0])
	assert.Equal(t, []any{"Balance", 2000.0}, rows[3])
	assert.Equal(t, []any{"Risk Level", "medium"}, rows[7])
	assert.Contains(t, rows, []any{"burn_rate", 1100.0, "low", "burn"})
	assert.Contains(t, rows, []any{"runway", "54 days", "medium", "runway"})
	assert.Contains(t, rows, []any{"2026-11", 3900.0, 3000.0, 1100.0})
	assert.Contains(t, rows, []any{"2026-10-15", "dining", "Bistro", 300.0, 50.0, 500.0})
	assert.Equal(t, []any{analytics.RecommendMonitorRunway}, rows[len(rows)-1])
}

func TestLayout_Formatting(t *testing.T) {
	summary := &analytics.Summary{
		Insights:  []analytics.Insight{{Metric: "burn_rate"}, {Metric: "runway"}},
		Forecast:  []analytics.ForecastPoint{{Month: "Nov 2026"}},
		Anomalies: []analytics.Anomaly{{Vendor: "Bistro"}},
	}

	l := buildLayout("user-1", time.Now(), summary)
	assert.Equal(t, []int64{2, 9, 14, 18, 22}, l.sections)
	for _, row := range l.sections {
		require.Len(t, l.rows[row], 1)
	}
	assert.Equal(t, []cellRange{
		{startRow: 3, endRow: 6, startCol: 1, endCol: 2},
		{startRow: 16, endRow: 17, startCol: 1, endCol: 4},
		{startRow: 20, endRow: 21, startCol: 3, endCol: 5},
	}, l.currency)
	assert.Equal(t, "Nov 2026", l.rows[16][0])
	assert.Equal(t, "Bistro", l.rows[20][2])

	requests := l.formatting(42, "$#,##0.00")
	require.Len(t, requests, 11)
	assert.Equal(t, int64(16), requests[0].RepeatCell.Cell.UserEnteredFormat.TextFormat.FontSize)
	money := requests[len(l.sections)+1].RepeatCell
	assert.Equal(t, "$#,##0.00", money.Cell.UserEnteredFormat.NumberFormat.Pattern)
	assert.Equal(t, int64(42), money.Range.SheetId)
	assert.Equal(t, int64(1), requests[len(requests)-1].UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
}

func TestSummaryRows_NoRecommendations(t *testing.T) {
	rows := SummaryRows("user-1", time.Now(), &analytics.Summary{})
	assert.Equal(t, []any{"None"}, rows[len(rows)-1])
	assert.Equal(t, []any{"Recommendations"}, rows[len(rows)-2])
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 12.5, cellValue(12.5))
	assert.Equal(t, "N/A", cellValue("N/A"))
	assert.Equal(t, "", cellValue(nil))
	assert.Equal(t, "3", cellValue(3))
}

func TestTokenFile(t *testing.T) {
	file := TokenFile(filepath.Join(t.TempDir(), "nested", "token.json"))
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	_, err := file.Load()
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, file.Save(token))
	info, err := os.Stat(string(file))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	require.NoError(t, os.WriteFile(string(file), []byte("{"), 0600))
	_, err = file.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestAuthorizer_CachedToken(t *testing.T) {
	file := TokenFile(filepath.Join(t.TempDir(), "token.json"))
	cached := &oauth2.Token{AccessToken: "access", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, file.Save(cached))

	auth := NewAuthorizer(OAuth2Config{TokenFile: string(file)}, nil)
	token, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
}

func TestCallback(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantCode   string
		wantStatus int
		wantErr    bool
		delivered  bool
	}{
		{
			name:       "code accepted",
			query:      "state=abc&code=xyz",
			wantStatus: http.StatusOK,
			wantCode:   "xyz",
			delivered:  true,
		},
		{
			name:       "state mismatch ignored",
			query:      "state=other&code=xyz",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "consent denied",
			query:      "state=abc&error=access_denied",
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			delivered:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			rec := httptest.NewRecorder()
			callback("abc", results).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if !tt.delivered {
				assert.Empty(t, results)
				return
			}
			result := <-results
			assert.Equal(t, tt.wantCode, result.code)
			if tt.wantErr {
				require.ErrorIs(t, result.err, common.ErrUnauthorized)
				assert.Contains(t, result.err.Error(), "access_denied")
			} else {
				require.NoError(t, result.err)
			}
		})
	}
}

func TestOAuth2Config_RedirectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8085/callback", OAuth2Config{}.oauth().RedirectURL)
	assert.Equal(t, "http://127.0.0.1:9000/callback", OAuth2Config{CallbackAddr: "127.0.0.1:9000"}.oauth().RedirectURL)
}
