package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// Anomaly is a recent transaction well above its category's baseline.
type Anomaly struct {
	Timestamp        time.Time `json:"timestamp"`
	Category         string    `json:"category"`
	Vendor           string    `json:"vendor,omitempty"`
	Amount           float64   `json:"amount"`
	Baseline         float64   `json:"baseline"`
	DeviationPercent float64   `json:"deviation_percent"`
}

// AnomalyResult is the spending anomaly metric with the top anomalies.
type AnomalyResult struct {
	model.MetricResult
	Anomalies []Anomaly `json:"anomalies"`
}

type baseline struct {
	total float64
	count int
}

func (b baseline) average() float64 {
	if b.count == 0 {
		return 0
	}
	return b.total / float64(b.count)
}

// Anomalies flags transactions from the last three months that exceed twice
// their category's average spend six to twelve months ago. Categories with no
// baseline spend are never flagged.
func (e *Engine) Anomalies(ctx context.Context, userID string) (*AnomalyResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	result, err := e.anomalies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to detect anomalies: %w", err)
	}
	return result, nil
}

func (e *Engine) anomalies(ctx context.Context, userID string) (*AnomalyResult, error) {
	recent, err := e.fetchOutflows(ctx, userID, BurnWindowMonths, "recent transactions")
	if err != nil {
		return nil, err
	}

	from := e.monthsAgo(BaselineStartMonths)
	until := e.monthsAgo(BaselineEndMonths)
	historical, err := e.store.ListTransactions(ctx, userID, service.TransactionFilter{
		Since:          &from,
		Until:          &until,
		UntilExclusive: true,
		OutflowsOnly:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical transactions: %w", err)
	}

	baselines := make(map[string]baseline)
	for _, txn := range historical {
		b := baselines[txn.Category]
		b.total += math.Abs(txn.Amount)
		b.count++
		baselines[txn.Category] = b
	}

	threshold := e.policy.AnomalyMultiplier
	var found []Anomaly
	for _, txn := range recent {
		avg := baselines[txn.Category].average()
		amount := math.Abs(txn.Amount)
		if avg <= 0 || amount <= avg*threshold {
			continue
		}
		found = append(found, Anomaly{
			Timestamp:        txn.Timestamp,
			Category:         txn.Category,
			Vendor:           txn.Vendor,
			Amount:           amount,
			Baseline:         avg,
			DeviationPercent: round2((amount - avg) / avg * 100),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DeviationPercent > found[j].DeviationPercent
	})

	count := len(found)
	top := found
	if e.policy.AnomalyCap > 0 && len(top) > e.policy.AnomalyCap {
		top = top[:e.policy.AnomalyCap]
	}
	if top == nil {
		top = []Anomaly{}
	}

	return &AnomalyResult{
		MetricResult: model.MetricResult{
			Metric: "spending_anomalies",
			Value:  float64(count),
			Risk:   e.policy.AnomalyCount.Level(float64(count)),
			Explanation: fmt.Sprintf("Detected %d spending anomaly(ies) - transactions that exceed %.0f%% of historical baseline average for their category",
				count, threshold*100),
			Inputs: map[string]any{
				"detection_period_months": float64(BurnWindowMonths),
				"baseline_period_months":  float64(BaselineStartMonths - BaselineEndMonths),
				"anomaly_threshold":       threshold,
				"categories_analyzed":     float64(len(baselines)),
			},
		},
		Anomalies: top,
	}, nil
}
