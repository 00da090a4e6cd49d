package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/ofx"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions and balances from OFX/QFX files",
		Long: `Import transactions and ledger balances from OFX or QFX (Quicken) files
exported from your bank. Transactions already imported are skipped.

Examples:
  # Import single file
  findash import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory
  findash import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	files, err := ofx.ExpandPatterns(args)
	if err != nil {
		return err
	}

	return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
		slog.Info("Importing OFX files", "file_count", len(files), "user", userID)

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		progress := cli.NewProgress(cmd.ErrOrStderr(), len(files), "Importing", format == formatTable)
		summary, err := ofx.NewImporter(store).ImportFiles(ctx, userID, files, func(r ofx.FileResult) {
			if r.Err != nil {
				slog.Warn("Skipped file", "file", filepath.Base(r.Path), "error", r.Err)
			}
			progress.Step()
		})
		progress.Done()
		if err != nil {
			return err
		}

		return render(cmd, summary, func(w io.Writer) error {
			return renderImport(w, summary)
		})
	})
}

func renderImport(w io.Writer, s *ofx.Summary) error {
	rows := make([][]string, 0, len(s.Files))
	for _, f := range s.Files {
		status := cli.FormatSuccess("ok")
		if f.Err != nil {
			status = cli.FormatError(f.Err.Error())
		}
		rows = append(rows, []string{
			filepath.Base(f.Path),
			fmt.Sprint(f.Parsed),
			fmt.Sprint(f.Imported),
			fmt.Sprint(f.Balances),
			status,
		})
	}
	if _, err := fmt.Fprintln(w, cli.Table([]string{"File", "Parsed", "New", "Balances", "Status"}, rows)); err != nil {
		return err
	}

	msg := fmt.Sprintf("Imported %d of %d transactions and %d balances", s.Imported, s.Parsed, s.Balances)
	if s.Failed > 0 {
		_, err := fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%s (%d files failed)", msg, s.Failed)))
		return err
	}
	_, err := fmt.Fprintln(w, cli.FormatSuccess(msg))
	return err
}
