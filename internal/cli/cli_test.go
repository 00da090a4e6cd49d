package cli

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		want   string
		amount float64
	}{
		{"usd grouping", "USD", "$1,234.56", 1234.56},
		{"negative", "USD", "-$1,100.00", -1100},
		{"lower case code", "eur", "€12.30", 12.3},
		{"empty code defaults to usd", "", "$0.00", 0},
		{"unknown code defaults to usd", "NOPE", "$5.00", 5},
		{"code without symbol", "CHF", "CHF 1,000.00", 1000},
		{"infinite", "USD", "∞", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.amount, tt.code))
		})
	}
}

func TestPercentAndLabel(t *testing.T) {
	assert.Equal(t, "63.3%", Percent(63.33))
	assert.Equal(t, "-5.0%", Percent(-5))
	assert.Equal(t, "Burn Rate", Label("burn_rate"))
	assert.Equal(t, "Transaction Count", Label("transaction_count"))
}

func TestFormatRisk(t *testing.T) {
	assert.Contains(t, FormatRisk(model.RiskHigh), "HIGH")
	assert.Contains(t, FormatRisk(model.RiskCritical), "CRITICAL")
	assert.Contains(t, FormatRisk(""), "UNKNOWN")
}

func TestMetricValue(t *testing.T) {
	tests := []struct {
		metric *model.MetricResult
		want   string
	}{
		{&model.MetricResult{Metric: "burn_rate", Value: 1100.0}, "$1,100.00"},
		{&model.MetricResult{Metric: "savings_rate", Value: 63.33}, "63.3%"},
		{&model.MetricResult{Metric: "runway", Value: "27 days"}, "27 days"},
		{&model.MetricResult{Metric: "anomalies", Value: 3}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Metric, func(t *testing.T) {
			assert.Equal(t, tt.want, MetricValue(tt.metric))
		})
	}
}

func TestRenderMetric(t *testing.T) {
	var buf bytes.Buffer
	err := RenderMetric(&buf, &model.MetricResult{
		Metric:      "runway",
		Value:       "27 days",
		Risk:        model.RiskCritical,
		Explanation: "Current balance lasts 27 days",
		Inputs:      map[string]any{"balance": 900.0, "burn_rate": 1000.0},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Runway")
	assert.Contains(t, out, "27 days")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "Balance")
	assert.Contains(t, out, "Burn Rate")
	assert.Contains(t, out, "900")
}

func TestTable(t *testing.T) {
	out := Table([]string{"Month", "Balance"}, [][]string{{"2026-11", "$1.00"}, {"2026-12", "$2.00"}})
	assert.Contains(t, out, "Month")
	assert.Contains(t, out, "2026-12")
	assert.Contains(t, out, "$2.00")
}

func TestProgress(t *testing.T) {
	var shown, hidden bytes.Buffer

	p := NewProgress(&shown, 2, "Importing", true)
	p.Step()
	assert.False(t, p.Finished())
	p.Step()
	p.Done()
	assert.True(t, p.Finished())
	assert.Contains(t, shown.String(), "Importing")

	q := NewProgress(&hidden, 1, "Importing", false)
	q.Step()
	q.Done()
	assert.True(t, q.Finished())
	assert.NotContains(t, hidden.String(), "Importing")
}
