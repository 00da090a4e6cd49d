// Package intent maps free-text questions to bundles of analytics calls.
package intent

import "strings"

// Intent is the kind of question a query asks.
type Intent string

// Supported intents, in detection priority order.
const (
	Advisory    Intent = "advisory"
	Forecasting Intent = "forecasting"
	Simulation  Intent = "simulation"
	Anomaly     Intent = "anomaly"
	Planning    Intent = "planning"
)

type rule struct {
	intent   Intent
	keywords []string
}

// rules are checked in order; the first rule with a matching keyword wins.
var rules = []rule{
	{Advisory, []string{"how am i doing", "financial health", "overall", "summary", "status", "advisory"}},
	{Forecasting, []string{"forecast", "projection", "future", "months ahead", "cashflow"}},
	{Simulation, []string{"what if", "simulate", "purchase", "buy", "if i spend", "if i earn", "if income", "if expense"}},
	{Anomaly, []string{"anomaly", "unusual", "spike", "outlier", "strange"}},
	{Planning, []string{"priority", "pay", "planning", "should i pay", "upcoming payments"}},
}

// DetectIntent classifies query by case-insensitive keyword search.
// Queries matching nothing are advisory.
func DetectIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.intent
		}
	}
	return Advisory
}

// Keywords returns the detection keywords for an intent.
func Keywords(in Intent) []string {
	for _, r := range rules {
		if r.intent == in {
			out := make([]string, len(r.keywords))
			copy(out, r.keywords)
			return out
		}
	}
	return nil
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
