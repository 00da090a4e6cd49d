package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Overview of your finances with recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				summary, err := engine.Summary(ctx, userID)
				if err != nil {
					return err
				}
				return render(cmd, summary, func(w io.Writer) error {
					return renderSummary(w, userID, summary)
				})
			})
		},
	}
}

func renderSummary(w io.Writer, userID string, s *analytics.Summary) error {
	state := s.State
	var b strings.Builder

	stateRows := [][]string{
		{"Balance", cli.Money(state.Balance, "")},
		{"Monthly Income", cli.Money(state.Income, "")},
		{"Burn Rate", cli.Money(state.BurnRate, "")},
		{"Runway", state.Runway},
		{"Risk Level", cli.FormatRisk(state.RiskLevel)},
	}
	b.WriteString(cli.RenderBox("Financial Summary: "+userID, cli.Table([]string{"", ""}, stateRows)))
	b.WriteString("\n")

	insightRows := make([][]string, 0, len(s.Insights))
	for _, in := range s.Insights {
		value := cli.MetricValue(&model.MetricResult{Metric: in.Metric, Value: in.Value})
		insightRows = append(insightRows, []string{cli.Label(in.Metric), value, cli.FormatRisk(in.Risk)})
	}
	b.WriteString(cli.FormatTitle("Insights"))
	b.WriteString("\n")
	b.WriteString(cli.Table([]string{"Metric", "Value", "Risk"}, insightRows))
	b.WriteString("\n")

	if len(s.Forecast) > 0 {
		b.WriteString(cli.FormatTitle("Forecast"))
		b.WriteString("\n")
		b.WriteString(forecastTable(s.Forecast))
		b.WriteString("\n")
	}

	if len(s.Anomalies) > 0 {
		b.WriteString(cli.FormatTitle("Anomalies"))
		b.WriteString("\n")
		b.WriteString(anomalyTable(s.Anomalies))
		b.WriteString("\n")
	}

	b.WriteString(cli.FormatTitle("Recommendations"))
	b.WriteString("\n")
	if len(s.Recommendations) == 0 {
		b.WriteString(cli.FormatSuccess("Nothing to act on right now."))
		b.WriteString("\n")
	}
	for _, r := range s.Recommendations {
		b.WriteString(cli.FormatWarning(r))
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}
