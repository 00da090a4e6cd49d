package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// Bucket summarizes one side of the fixed/discretionary split.
type Bucket struct {
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ClassificationSummary splits monthly spend into fixed and discretionary.
type ClassificationSummary struct {
	Fixed         Bucket `json:"fixed"`
	Discretionary Bucket `json:"discretionary"`
}

// ClassificationResult is the expense classification metric with its summary.
type ClassificationResult struct {
	model.MetricResult
	Classification ClassificationSummary `json:"classification"`
}

// Classify splits the user's monthly spend into fixed and discretionary buckets.
// Expenses use their IsFixed flag. Recent transactions are fixed when their
// category contains one of the policy keywords; the match is a plain substring
// test, so "cartax" counts as "tax".
func (e *Engine) Classify(ctx context.Context, userID string) (*ClassificationResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	result, err := e.classify(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to classify expenses: %w", err)
	}
	return result, nil
}

func (e *Engine) classify(ctx context.Context, userID string) (*ClassificationResult, error) {
	expenses, err := e.fetchExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns, err := e.fetchOutflows(ctx, userID, BurnWindowMonths, "transactions")
	if err != nil {
		return nil, err
	}

	var fixed, discretionary Bucket
	for _, expense := range expenses {
		monthly := ToMonthly(expense.Amount, expense.Recurrence)
		if expense.IsFixed {
			fixed.Total += monthly
			fixed.Count++
		} else {
			discretionary.Total += monthly
			discretionary.Count++
		}
	}

	for _, txn := range txns {
		share := math.Abs(txn.Amount) / BurnWindowMonths
		if e.isFixedCategory(txn.Category) {
			fixed.Total += share
			fixed.Count++
		} else {
			discretionary.Total += share
			discretionary.Count++
		}
	}

	total := fixed.Total + discretionary.Total
	if total > 0 {
		fixed.Percentage = fixed.Total / total * 100
		discretionary.Percentage = discretionary.Total / total * 100
	}

	explanation := fmt.Sprintf("Expenses classified as %.1f%% fixed (%s/month) and %.1f%% discretionary (%s/month)",
		fixed.Percentage, money(fixed.Total), discretionary.Percentage, money(discretionary.Total))
	risk := e.policy.FixedShare.Level(fixed.Percentage)

	summary := ClassificationSummary{
		Fixed:         Bucket{Count: fixed.Count, Total: round2(fixed.Total), Percentage: round2(fixed.Percentage)},
		Discretionary: Bucket{Count: discretionary.Count, Total: round2(discretionary.Total), Percentage: round2(discretionary.Percentage)},
	}

	return &ClassificationResult{
		MetricResult: model.MetricResult{
			Metric:      "expense_classification",
			Value:       summary,
			Risk:        risk,
			Explanation: explanation,
			Inputs: map[string]any{
				"expense_count":     float64(len(expenses)),
				"transaction_count": float64(len(txns)),
				"total_monthly":     total,
			},
		},
		Classification: summary,
	}, nil
}

func (e *Engine) isFixedCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, keyword := range e.policy.FixedKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
