package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/sheets"
)

type exportResult struct {
	SpreadsheetID  string `json:"spreadsheet_id"`
	SpreadsheetURL string `json:"spreadsheet_url"`
}

func exportCmd() *cobra.Command {
	var authenticate bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the financial summary to Google Sheets",
		Long: `Write the financial summary to a Google Sheets spreadsheet.

Authenticate with a service account (sheets.service_account_path) or with
OAuth2. Run with --auth once to complete the browser flow and cache a token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := appConfig.SheetsWriterConfig()

			if authenticate {
				token, err := sheets.NewAuthorizer(sheets.OAuth2Config{
					ClientID:     appConfig.Sheets.ClientID,
					ClientSecret: appConfig.Sheets.ClientSecret,
					TokenFile:    appConfig.Sheets.TokenFile,
				}, nil).Token(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to authenticate with Google: %w", err)
				}
				cfg.RefreshToken = token.RefreshToken
			}

			if err := cfg.Validate(); err != nil {
				return common.NewUserError("Google Sheets is not configured: "+err.Error(), err)
			}

			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				summary, err := engine.Summary(ctx, userID)
				if err != nil {
					return err
				}

				writer, err := sheets.NewWriter(ctx, cfg, nil)
				if err != nil {
					return err
				}
				id, err := writer.Write(ctx, userID, summary)
				if err != nil {
					return err
				}

				result := exportResult{
					SpreadsheetID:  id,
					SpreadsheetURL: "https://docs.google.com/spreadsheets/d/" + id,
				}
				return render(cmd, result, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, cli.FormatSuccess("Exported summary to "+result.SpreadsheetURL))
					return err
				})
			})
		},
	}
	cmd.Flags().BoolVar(&authenticate, "auth", false, "run the OAuth2 browser flow if no cached token exists")
	return cmd
}
