package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
)

const summarySheet = "Summary"

// Writer exports financial summaries to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	now     func() time.Time
	config  Config
	sheetID int64
}

// NewWriter creates a new Google Sheets summary writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}
	service, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  common.ComponentLogger(logger, "sheets"),
		now:     time.Now,
	}, nil
}

// Write replaces the summary sheet's contents with summary and returns the
// spreadsheet ID.
func (w *Writer) Write(ctx context.Context, userID string, summary *analytics.Summary) (string, error) {
	w.logger.Info("Exporting summary", "user_id", userID)

	id, err := w.spreadsheet(ctx)
	if err != nil {
		return "", err
	}

	loc, err := time.LoadLocation(w.config.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	layout := buildLayout(userID, w.now().In(loc), summary)

	err = common.WithRetry(ctx, func() error {
		values := w.service.Spreadsheets.Values
		if _, err := values.Clear(id, summarySheet, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to clear sheet: %w", err)
		}
		_, err := values.Update(id, summarySheet+"!A1", &sheets.ValueRange{Values: layout.rows}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write %d rows: %w", len(layout.rows), err)
		}
		return nil
	}, w.config.Retry)
	if err != nil {
		return "", err
	}

	if w.config.Formatting {
		err = common.WithRetry(ctx, func() error {
			_, err := w.service.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: layout.formatting(w.sheetID, w.config.CurrencyPattern),
			}).Context(ctx).Do()
			return err
		}, w.config.Retry)
		if err != nil {
			w.logger.Warn("Failed to format summary sheet", "spreadsheet_id", id, "error", err)
		}
	}

	w.logger.Info("Exported summary", "spreadsheet_id", id, "rows", len(layout.rows))
	return id, nil
}

func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	method, err := config.Auth()
	if err != nil {
		return nil, err
	}

	if method == AuthOAuth2 {
		client := OAuth2Config{ClientID: config.ClientID, ClientSecret: config.ClientSecret}.oauth()
		return client.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken}), nil
	}

	key, err := os.ReadFile(config.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	return jwt.TokenSource(ctx), nil
}

// spreadsheet returns the configured spreadsheet, creating one when no ID
// is set, and records the summary sheet's ID.
func (w *Writer) spreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("failed to open spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		for _, sheet := range existing.Sheets {
			if sheet.Properties != nil && sheet.Properties.Title == summarySheet {
				w.sheetID = sheet.Properties.SheetId
				return existing.SpreadsheetId, nil
			}
		}
		return "", fmt.Errorf("%w: spreadsheet %s has no %q sheet", common.ErrNotFound, w.config.SpreadsheetID, summarySheet)
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: summarySheet}}},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	if len(created.Sheets) > 0 && created.Sheets[0].Properties != nil {
		w.sheetID = created.Sheets[0].Properties.SheetId
	}

	w.logger.Info("Created spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
	return created.SpreadsheetId, nil
}

// layout is the summary as rows plus the positions formatting targets.
type layout struct {
	rows     [][]any
	sections []int64
	currency []cellRange
}

type cellRange struct {
	startRow, endRow int64
	startCol, endCol int64
}

func (l *layout) add(rows ...[]any) {
	l.rows = append(l.rows, rows...)
}

// section starts a titled block with a column header row.
func (l *layout) section(title string, header ...any) {
	l.add([]any{})
	l.sections = append(l.sections, int64(len(l.rows)))
	l.add([]any{title})
	if len(header) > 0 {
		l.add(header)
	}
}

// money marks columns [from, to) of the next n rows as currency.
func (l *layout) money(n int, from, to int64) {
	if n == 0 {
		return
	}
	start := int64(len(l.rows))
	l.currency = append(l.currency, cellRange{startRow: start, endRow: start + int64(n), startCol: from, endCol: to})
}

func buildLayout(userID string, generatedAt time.Time, s *analytics.Summary) layout {
	var l layout
	l.add([]any{"Financial Summary", userID, generatedAt.Format("2006-01-02 15:04")})

	l.section("Financial State")
	l.money(3, 1, 2)
	l.add(
		[]any{"Balance", s.State.Balance},
		[]any{"Monthly Income", s.State.Income},
		[]any{"Burn Rate", s.State.BurnRate},
		[]any{"Runway", s.State.Runway},
		[]any{"Risk Level", string(s.State.RiskLevel)},
	)

	l.section("Insights", "Metric", "Value", "Risk", "Explanation")
	for _, in := range s.Insights {
		l.add([]any{in.Metric, cellValue(in.Value), string(in.Risk), in.Explanation})
	}

	l.section("Forecast", "Month", "Projected Balance", "Projected Income", "Projected Expenses")
	l.money(len(s.Forecast), 1, 4)
	for _, p := range s.Forecast {
		l.add([]any{p.Month, p.ProjectedBalance, p.ProjectedIncome, p.ProjectedExpenses})
	}

	l.section("Anomalies", "Date", "Category", "Vendor", "Amount", "Baseline", "Deviation %")
	l.money(len(s.Anomalies), 3, 5)
	for _, a := range s.Anomalies {
		l.add([]any{a.Timestamp.Format("2006-01-02"), a.Category, a.Vendor, a.Amount, a.Baseline, a.DeviationPercent})
	}

	l.section("Recommendations")
	if len(s.Recommendations) == 0 {
		l.add([]any{"None"})
	}
	for _, r := range s.Recommendations {
		l.add([]any{r})
	}
	return l
}

// SummaryRows lays out a summary as spreadsheet rows: financial state,
// insights, forecast, anomalies and recommendations, separated by blank rows.
func SummaryRows(userID string, generatedAt time.Time, s *analytics.Summary) [][]any {
	return buildLayout(userID, generatedAt, s).rows
}

// cellValue keeps numbers numeric so the sheet can format them.
func cellValue(v any) any {
	switch x := v.(type) {
	case float64, string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func (l layout) formatting(sheetID int64, currencyPattern string) []*sheets.Request {
	bold := func(row int64, size int64) *sheets.Request {
		return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{SheetId: sheetID, StartRowIndex: row, EndRowIndex: row + 1, StartColumnIndex: 0, EndColumnIndex: 1},
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				TextFormat: &sheets.TextFormat{Bold: true, FontSize: size},
			}},
			Fields: "userEnteredFormat.textFormat",
		}}
	}

	requests := []*sheets.Request{bold(0, 16)}
	for _, row := range l.sections {
		requests = append(requests, bold(row, 12))
	}
	for _, c := range l.currency {
		requests = append(requests, &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    c.startRow,
				EndRowIndex:      c.endRow,
				StartColumnIndex: c.startCol,
				EndColumnIndex:   c.endCol,
			},
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: currencyPattern},
			}},
			Fields: "userEnteredFormat.numberFormat",
		}})
	}

	return append(requests,
		&sheets.Request{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{SheetId: sheetID, Dimension: "COLUMNS", StartIndex: 0, EndIndex: 6},
		}},
		&sheets.Request{UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:        sheetID,
				GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
			},
			Fields: "gridProperties.frozenRowCount",
		}},
	)
}
