package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/plaid"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

func syncCmd() *cobra.Command {
	var (
		days  int
		start string
		end   string
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull transactions and balances from Plaid",
		Long: `Pull transactions and account balances from Plaid into the local store.

Requires plaid.client_id, plaid.secret and plaid.access_token in the config
file or FINDASH_PLAID_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to := timeNow()
			if end != "" {
				t, err := parseDate(end)
				if err != nil {
					return err
				}
				to = t
			}
			from := to.AddDate(0, 0, -days)
			if start != "" {
				t, err := parseDate(start)
				if err != nil {
					return err
				}
				from = t
			}
			if from.After(to) {
				return common.NewUserError("--start must be before --end", common.ErrValidation)
			}

			client, err := plaid.NewClient(appConfig.PlaidClientConfig())
			if err != nil {
				return common.NewUserError("Plaid is not configured: "+err.Error(), err)
			}

			return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
				result, err := plaid.NewSyncer(client, store).Sync(ctx, userID, from, to)
				if err != nil {
					return err
				}
				return render(cmd, result, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf(
						"Synced %s to %s: %d of %d transactions new, %d balances",
						from.Format(dateLayout), to.Format(dateLayout),
						result.Imported, result.Fetched, result.Balances)))
					return err
				})
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 90, "days of history to fetch")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD), overrides --days")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD, default today)")
	return cmd
}
