package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
)

// SummaryLoader produces the advisory summary shown on the dashboard.
type SummaryLoader interface {
	Summary(ctx context.Context, userID string) (*analytics.Summary, error)
}

var _ SummaryLoader = (*analytics.Engine)(nil)

func loadSummary(ctx context.Context, loader SummaryLoader, userID string, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		summary, err := loader.Summary(ctx, userID)
		return summaryLoadedMsg{summary: summary, err: err, at: now()}
	}
}

func scheduleRefresh(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}
