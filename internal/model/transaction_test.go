package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_GenerateHash(t *testing.T) {
	base := Transaction{
		UserID:    "user-1",
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Amount:    -5.25,
		Vendor:    "Starbucks",
		AccountID: "acc1",
	}

	tests := []struct {
		mutate   func(*Transaction)
		name     string
		wantSame bool
	}{
		{name: "identical transactions have same hash", mutate: func(*Transaction) {}, wantSame: true},
		{name: "time of day is ignored", mutate: func(tx *Transaction) { tx.Timestamp = tx.Timestamp.Add(3 * time.Hour) }, wantSame: true},
		{name: "different amounts differ", mutate: func(tx *Transaction) { tx.Amount = -6.25 }, wantSame: false},
		{name: "different users differ", mutate: func(tx *Transaction) { tx.UserID = "user-2" }, wantSame: false},
		{name: "different vendors differ", mutate: func(tx *Transaction) { tx.Vendor = "Peets" }, wantSame: false},
		{name: "distinct ids differ", mutate: func(tx *Transaction) { tx.ID = "FITID-2" }, wantSame: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			assert.Equal(t, tt.wantSame, base.GenerateHash() == other.GenerateHash())
		})
	}

	withID := base
	withID.ID = "FITID-1"
	relabeled := withID
	relabeled.Vendor = "STARBUCKS #1123"
	relabeled.Timestamp = relabeled.Timestamp.AddDate(0, 0, 1)
	assert.Equal(t, withID.GenerateHash(), relabeled.GenerateHash(), "same id is the same transaction")

	otherUser := withID
	otherUser.UserID = "user-2"
	assert.NotEqual(t, withID.GenerateHash(), otherUser.GenerateHash())
}

func TestRiskLevel_AtLeast(t *testing.T) {
	assert.True(t, RiskCritical.AtLeast(RiskHigh))
	assert.True(t, RiskHigh.AtLeast(RiskHigh))
	assert.False(t, RiskMedium.AtLeast(RiskHigh))
	assert.False(t, RiskLevel("bogus").AtLeast(RiskLow))
	assert.True(t, RiskMedium.IsKnown())
	assert.False(t, RiskLevel("severe").IsKnown())
}

func TestMetricResult_Accessors(t *testing.T) {
	m := &MetricResult{Value: 12.5, Inputs: map[string]any{"balance": 900.0, "label": "x"}}

	v, ok := m.Number()
	assert.True(t, ok)
	assert.InDelta(t, 12.5, v, 1e-9)

	b, ok := m.Input("balance")
	assert.True(t, ok)
	assert.InDelta(t, 900.0, b, 1e-9)

	_, ok = m.Input("label")
	assert.False(t, ok)

	var nilResult *MetricResult
	_, ok = nilResult.Number()
	assert.False(t, ok)
}

func TestRecurrence_IsKnown(t *testing.T) {
	for _, r := range Recurrences() {
		assert.True(t, r.IsKnown(), r)
	}
	assert.False(t, Recurrence("fortnightly").IsKnown())
}

func TestPaymentType_IsKnown(t *testing.T) {
	assert.True(t, PaymentTypeSubscription.IsKnown())
	assert.False(t, PaymentType("loan").IsKnown())
}
