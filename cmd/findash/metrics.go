package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// metricCmds returns the single-metric commands.
func metricCmds() []*cobra.Command {
	return []*cobra.Command{
		simpleMetricCmd("burn-rate", "Average monthly spending", (*analytics.Engine).BurnRate),
		simpleMetricCmd("savings-rate", "Share of income left after spending", (*analytics.Engine).SavingsRate),
		simpleMetricCmd("runway", "How long the current balance lasts", (*analytics.Engine).Runway),
		classifyCmd(),
		paymentsCmd(),
		forecastCmd(),
		anomaliesCmd(),
		riskCmd(),
	}
}

func simpleMetricCmd(use, short string, fn func(*analytics.Engine, context.Context, string) (*model.MetricResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				result, err := fn(engine, ctx, userID)
				if err != nil {
					return err
				}
				return render(cmd, result, func(w io.Writer) error {
					return cli.RenderMetric(w, result)
				})
			})
		},
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Split monthly spending into fixed and discretionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				result, err := engine.Classify(ctx, userID)
				if err != nil {
					return err
				}
				return render(cmd, result, func(w io.Writer) error {
					if err := cli.RenderMetric(w, &result.MetricResult); err != nil {
						return err
					}
					c := result.Classification
					rows := [][]string{
						{"Fixed", fmt.Sprint(c.Fixed.Count), cli.Money(c.Fixed.Total, ""), cli.Percent(c.Fixed.Percentage)},
						{"Discretionary", fmt.Sprint(c.Discretionary.Count), cli.Money(c.Discretionary.Total, ""), cli.Percent(c.Discretionary.Percentage)},
					}
					_, err := fmt.Fprintln(w, cli.Table([]string{"Bucket", "Items", "Monthly", "Share"}, rows))
					return err
				})
			})
		},
	}
}

func paymentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payments",
		Short: "Upcoming payments in the order to pay them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				result, err := engine.PaymentPriority(ctx, userID)
				if err != nil {
					return err
				}
				return render(cmd, result, func(w io.Writer) error {
					if err := cli.RenderMetric(w, &result.MetricResult); err != nil {
						return err
					}
					if len(result.Payments) == 0 {
						return nil
					}
					rows := make([][]string, 0, len(result.Payments))
					for i, p := range result.Payments {
						rows = append(rows, []string{
							fmt.Sprint(i + 1),
							p.DueDate.Format("2006-01-02"),
							string(p.Type),
							p.Description,
							cli.Money(p.Amount, p.Currency),
						})
					}
					_, err := fmt.Fprintln(w, cli.Table([]string{"#", "Due", "Type", "Description", "Amount"}, rows))
					return err
				})
			})
		},
	}
}

func forecastCmd() *cobra.Command {
	var months int
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project the balance forward month by month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				result, err := engine.Forecast(ctx, userID, months)
				if err != nil {
					return err
				}
				return render(cmd, result, func(w io.Writer) error {
					if err := cli.RenderMetric(w, &result.MetricResult); err != nil {
						return err
					}
					_, err := fmt.Fprintln(w, forecastTable(result.Forecast))
					return err
				})
			})
		},
	}
	cmd.Flags().IntVarP(&months, "months", "m", analytics.DefaultForecastMonths,
		fmt.Sprintf("months to project (%d-%d)", analytics.MinForecastMonths, analytics.MaxForecastMonths))
	return cmd
}

func forecastTable(points []analytics.ForecastPoint) string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Month,
			cli.Money(p.ProjectedIncome, ""),
			cli.Money(p.ProjectedExpenses, ""),
			cli.Money(p.ProjectedBalance, ""),
		})
	}
	return cli.Table([]string{"Month", "Income", "Expenses", "Balance"}, rows)
}

func anomaliesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "anomalies",
		Short: "Recent transactions far above their category's norm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				result, err := engine.Anomalies(ctx, userID)
				if err != nil {
					return err
				}
				return render(cmd, result, func(w io.Writer) error {
					if err := cli.RenderMetric(w, &result.MetricResult); err != nil {
						return err
					}
					if len(result.Anomalies) == 0 {
						return nil
					}
					_, err := fmt.Fprintln(w, anomalyTable(result.Anomalies))
					return err
				})
			})
		},
	}
}

func anomalyTable(anomalies []analytics.Anomaly) string {
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		rows = append(rows, []string{
			a.Timestamp.Format("2006-01-02"),
			a.Category,
			a.Vendor,
			cli.Money(a.Amount, ""),
			cli.Money(a.Baseline, ""),
			cli.Percent(a.DeviationPercent),
		})
	}
	return cli.Table([]string{"Date", "Category", "Vendor", "Amount", "Baseline", "Deviation"}, rows)
}

func riskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "risk",
		Short: "Composite financial risk score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				result, err := engine.RiskScore(ctx, userID)
				if err != nil {
					return err
				}
				return render(cmd, result, func(w io.Writer) error {
					return cli.RenderMetric(w, &result.MetricResult)
				})
			})
		},
	}
}
