package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "What-if scenarios against your current position",
	}
	cmd.AddCommand(
		simulationCmd("purchase <amount>", "Impact of a one-off purchase",
			"findash simulate purchase 1200",
			(*analytics.Engine).SimulatePurchase),
		simulationCmd("income <percent>", "Impact of a change in income",
			"findash simulate income -- -20",
			(*analytics.Engine).SimulateIncomeChange),
		simulationCmd("expense <percent>", "Impact of a change in expenses",
			"findash simulate expense 15%",
			(*analytics.Engine).SimulateExpenseChange),
	)
	return cmd
}

func simulationCmd(use, short, example string, fn func(*analytics.Engine, context.Context, string, float64) (*model.MetricResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "  " + example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				result, err := fn(engine, ctx, userID, value)
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

// parseNumber accepts "1,200", "$50" and "15%".
func parseNumber(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(strings.TrimSpace(raw))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("%q is not a number", raw), common.ErrValidation)
	}
	return v, nil
}
