package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/service"
	"github.com/Mujtaba19938/FINDASH/internal/storage"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// execute runs the CLI with a fresh root command and isolated config.
func execute(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	cfgFile = ""
	appConfig = nil
	origNow := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = origNow })

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"+configYAML), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", path}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func executeJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := execute(t, "", append([]string{"--memory", "--format", "json"}, args...)...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func TestMetricCommands_JSON(t *testing.T) {
	tests := []struct {
		args   []string
		metric string
	}{
		{[]string{"burn-rate"}, "burn_rate"},
		{[]string{"savings-rate"}, "savings_rate"},
		{[]string{"runway"}, "runway"},
		{[]string{"classify"}, "expense_classification"},
		{[]string{"payments"}, "payment_priority"},
		{[]string{"forecast", "--months", "3"}, "cashflow_forecast"},
		{[]string{"anomalies"}, "spending_anomalies"},
		{[]string{"risk"}, "risk_score"},
		{[]string{"simulate", "purchase", "$1,200"}, "purchase_simulation"},
		{[]string{"simulate", "income", "--", "-20"}, "income_change_simulation"},
		{[]string{"simulate", "expense", "15%"}, "expense_change_simulation"},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			var got map[string]any
			executeJSON(t, &got, tt.args...)
			assert.Equal(t, tt.metric, got["metric"])
			assert.NotEmpty(t, got["risk"])
			assert.NotEmpty(t, got["explanation"])
		})
	}
}

func TestForecastCommand_Months(t *testing.T) {
	var got struct {
		Forecast []analytics.ForecastPoint `json:"forecast"`
	}
	executeJSON(t, &got, "forecast", "-m", "4")
	require.Len(t, got.Forecast, 4)
	assert.Equal(t, "Apr 2024", got.Forecast[0].Month)

	_, err := execute(t, "", "--memory", "forecast", "--months", "30")
	require.ErrorIs(t, err, analytics.ErrInvalidMonths)
}

func TestAnomaliesCommand_FlagsDemoSpike(t *testing.T) {
	var got struct {
		Anomalies []analytics.Anomaly `json:"anomalies"`
	}
	executeJSON(t, &got, "anomalies")
	require.NotEmpty(t, got.Anomalies)
	assert.Equal(t, "Steakhouse", got.Anomalies[0].Vendor)
}

func TestAskCommand(t *testing.T) {
	var got struct {
		AggregatedResults map[string]any `json:"aggregated_results"`
		Intent            string         `json:"intent"`
		CalledFunctions   []string       `json:"called_functions"`
	}
	executeJSON(t, &got, "ask", "what if I buy a $900 laptop")
	assert.Equal(t, "simulation", got.Intent)
	assert.Contains(t, got.CalledFunctions, "simulatePurchase")

	out, err := execute(t, "", "--memory", "ask", "how", "am", "I", "doing?")
	require.NoError(t, err)
	assert.Contains(t, out, "Burn Rate")
}

func TestSummaryCommand(t *testing.T) {
	var got analytics.Summary
	executeJSON(t, &got, "summary")
	assert.NotEmpty(t, got.Insights)
	assert.Equal(t, 6850.0, got.State.Balance)

	out, err := execute(t, "", "--memory", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Financial Summary: demo")
	assert.Contains(t, out, "Recommendations")
}

func TestAddCommands_PersistToSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "findash.db")
	cfg := "default_user: alice\ndatabase:\n  driver: sqlite\n  path: " + dbPath + "\n"

	steps := [][]string{
		{"migrate"},
		{"add", "income", "3000", "--source", "Salary"},
		{"add", "expense", "rent", "1000", "--fixed"},
		{"add", "payment", "Visa", "200", "--type", "debt", "--due", "2024-03-20"},
		{"add", "transaction", "--vendor", "Market", "--date", "2024-03-01", "groceries", "--", "-80"},
		{"add", "balance", "5000"},
	}
	for _, args := range steps {
		_, err := execute(t, cfg, args...)
		require.NoError(t, err, args)
	}

	out, err := execute(t, cfg, "--format", "json", "payments")
	require.NoError(t, err)
	var payments analytics.PaymentPriorityResult
	require.NoError(t, json.Unmarshal([]byte(out), &payments))
	require.Len(t, payments.Payments, 1)
	assert.Equal(t, "Visa", payments.Payments[0].Description)

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	snapshot, err := store.LatestBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, snapshot.Balance)
}

func TestAddTransaction_Duplicates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "findash.db")
	cfg := "default_user: alice\ndatabase:\n  driver: sqlite\n  path: " + dbPath + "\n"

	_, err := execute(t, cfg, "migrate")
	require.NoError(t, err)

	coffee := []string{"add", "transaction", "--vendor", "Cafe", "--date", "2024-03-01", "dining", "--", "-4.50"}
	for i := 0; i < 2; i++ {
		out, err := execute(t, cfg, coffee...)
		require.NoError(t, err)
		assert.Contains(t, out, "Added transaction")
	}

	withRef := append([]string{"add", "transaction", "--id", "REF-1"}, coffee[2:]...)
	out, err := execute(t, cfg, withRef...)
	require.NoError(t, err)
	assert.Contains(t, out, "Added transaction REF-1")

	out, err = execute(t, cfg, withRef...)
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction REF-1 already recorded")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	txns, err := store.ListTransactions(context.Background(), "alice", service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestAddCommands_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad amount", []string{"add", "income", "lots"}},
		{"bad date", []string{"add", "payment", "Visa", "200", "--due", "tomorrow"}},
		{"bad payment type", []string{"add", "payment", "Visa", "200", "--type", "loan", "--due", "2024-03-20"}},
		{"bad recurrence", []string{"add", "expense", "rent", "1000", "--recurrence", "fortnightly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"--memory"}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, common.IsValidation(err), err)
		})
	}
}

func TestRootCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "--memory", "--format", "xml", "runway")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = execute(t, "database:\n  path: "+filepath.Join(t.TempDir(), "x.db")+"\n", "runway")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "No user selected")

	_, err = execute(t, "database:\n  driver: mongo\n", "runway")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestServeCommand_IssueToken(t *testing.T) {
	cfg := "api:\n  jwt_secret: " + "0123456789abcdef0123456789abcdef" + "\n"
	out, err := execute(t, cfg, "--memory", "serve", "--issue-token", "alice")
	require.NoError(t, err)
	assert.Regexp(t, `^[\w-]+\.[\w-]+\.[\w-]+\n$`, out)

	_, err = execute(t, "", "--memory", "serve")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestWatchCommand_Once(t *testing.T) {
	var rows []watchRow
	executeJSON(t, &rows, "watch", "--once", "--alert-level", "low")
	require.Len(t, rows, 1)
	assert.Equal(t, "demo", rows[0].UserID)
	assert.Empty(t, rows[0].Error)
	assert.NotEmpty(t, rows[0].Level)

	_, err := execute(t, "", "--memory", "watch", "--schedule", "every tuesday")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "findash dev\n", out)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1200", 1200},
		{"$1,200.50", 1200.5},
		{"15%", 15},
		{" -20 ", -20},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	_, err := parseNumber("ten")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, seedDemo(ctx, store, demoUser, fixedNow))

	incomes, err := store.ListIncomes(ctx, demoUser)
	require.NoError(t, err)
	assert.Len(t, incomes, 2)

	snapshot, err := store.LatestBalance(ctx, demoUser)
	require.NoError(t, err)
	assert.Equal(t, 6850.0, snapshot.Balance)
}
