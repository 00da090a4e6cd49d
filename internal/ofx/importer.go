package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

// ErrStore marks failures writing to the record store, which stop an import run.
var ErrStore = errors.New("failed to store statement")

// FileResult reports one imported file.
type FileResult struct {
	Err      error
	Path     string
	Parsed   int
	Imported int
	Balances int
}

// Summary totals an import run.
type Summary struct {
	Files    []FileResult
	Parsed   int
	Imported int
	Balances int
	Failed   int
}

// Importer stores parsed statements.
type Importer struct {
	parser *Parser
	store  service.RecordWriter
	logger *slog.Logger
}

// NewImporter creates an importer writing to store.
func NewImporter(store service.RecordWriter) *Importer {
	return &Importer{
		parser: NewParser(),
		store:  store,
		logger: common.ComponentLogger(nil, "ofx"),
	}
}

// ExpandPatterns resolves glob patterns, keeping literal paths that exist.
func ExpandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	return files, nil
}

// Import parses one statement and stores its transactions and balances.
func (im *Importer) Import(ctx context.Context, userID string, r io.Reader) (FileResult, error) {
	var result FileResult
	if userID == "" {
		return result, common.NewValidationError("user ID is required")
	}

	stmt, err := im.parser.ParseFile(ctx, userID, r)
	if err != nil {
		return result, err
	}
	result.Parsed = len(stmt.Transactions)

	if len(stmt.Transactions) > 0 {
		result.Imported, err = im.store.SaveTransactions(ctx, stmt.Transactions)
		if err != nil {
			return result, fmt.Errorf("%w: transactions: %w", ErrStore, err)
		}
	}

	for i := range stmt.Balances {
		if err := im.store.SaveBalanceSnapshot(ctx, &stmt.Balances[i]); err != nil {
			return result, fmt.Errorf("%w: balance: %w", ErrStore, err)
		}
	}
	result.Balances = len(stmt.Balances)

	return result, nil
}

// ImportFiles imports each path in order. Files that fail to open or parse
// are recorded and skipped; store failures stop the run. onFile, when set,
// is called after every file.
func (im *Importer) ImportFiles(ctx context.Context, userID string, paths []string, onFile func(FileResult)) (*Summary, error) {
	summary := &Summary{Files: make([]FileResult, 0, len(paths))}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := im.importPath(ctx, userID, path)
		result.Path = path
		if err != nil {
			if common.IsValidation(err) || errors.Is(err, ErrStore) {
				return summary, err
			}
			result.Err = err
			summary.Failed++
			im.logger.Error("Failed to import OFX file", "file", path, "error", err)
		}

		summary.Files = append(summary.Files, result)
		summary.Parsed += result.Parsed
		summary.Imported += result.Imported
		summary.Balances += result.Balances
		if onFile != nil {
			onFile(result)
		}
	}

	im.logger.Info("OFX import complete",
		"files", len(paths),
		"failed", summary.Failed,
		"imported", summary.Imported,
		"duplicates", summary.Parsed-summary.Imported)

	return summary, nil
}

func (im *Importer) importPath(ctx context.Context, userID, path string) (FileResult, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	return im.Import(ctx, userID, f)
}
