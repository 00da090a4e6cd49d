package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/intent"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Ask a question in plain language",
		Long: `Route a plain-language question to the relevant calculations.

Examples:
  findash ask "how am I doing?"
  findash ask "forecast the next 12 months"
  findash ask "what if I buy a $900 laptop"
  findash ask "anything unusual in my spending?"
  findash ask "which bills should I pay first"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				resp, err := intent.NewRouter(engine).Route(ctx, intent.Request{Query: query, UserID: userID})
				if err != nil {
					return err
				}
				return render(cmd, resp, func(w io.Writer) error {
					return renderIntent(w, resp)
				})
			})
		},
	}
}

func renderIntent(w io.Writer, resp *intent.Response) error {
	if _, err := fmt.Fprintln(w, cli.FormatInfo("Intent: "+cli.Label(string(resp.Intent)))); err != nil {
		return err
	}
	if len(resp.CalledFunctions) == 0 {
		_, err := fmt.Fprintln(w, cli.FormatWarning("Nothing to calculate. Include an amount or a percentage for what-if questions."))
		return err
	}

	keys := make([]string, 0, len(resp.AggregatedResults))
	for k := range resp.AggregatedResults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m := metricOf(resp.AggregatedResults[k])
		if m == nil {
			continue
		}
		if err := cli.RenderMetric(w, m); err != nil {
			return err
		}
	}
	return nil
}

// metricOf extracts the embedded metric from any engine result.
func metricOf(v any) *model.MetricResult {
	switch r := v.(type) {
	case *model.MetricResult:
		return r
	case *analytics.RiskScoreResult:
		return &r.MetricResult
	case *analytics.ForecastResult:
		return &r.MetricResult
	case *analytics.AnomalyResult:
		return &r.MetricResult
	case *analytics.PaymentPriorityResult:
		return &r.MetricResult
	case *analytics.ClassificationResult:
		return &r.MetricResult
	default:
		return nil
	}
}
