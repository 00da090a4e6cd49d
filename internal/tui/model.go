// Package tui implements the interactive financial dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
)

// Section is a dashboard tab.
type Section int

// Dashboard sections in tab order.
const (
	SectionOverview Section = iota
	SectionForecast
	SectionAnomalies
	SectionRecommendations
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionOverview:
		return "Overview"
	case SectionForecast:
		return "Forecast"
	case SectionAnomalies:
		return "Anomalies"
	case SectionRecommendations:
		return "Recommendations"
	default:
		return "Unknown"
	}
}

// Model is the dashboard state.
type Model struct {
	updatedAt time.Time
	ctx       context.Context
	loader    SummaryLoader
	err       error
	summary   *analytics.Summary
	now       func() time.Time
	userID    string
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	config    Config
	section   Section
	width     int
	height    int
	loading   bool
	showHelp  bool
}

// New creates a dashboard for userID backed by loader.
func New(ctx context.Context, loader SummaryLoader, userID string, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:     ctx,
		loader:  loader,
		userID:  userID,
		now:     time.Now,
		config:  cfg,
		keys:    DefaultKeyMap(),
		help:    h,
		spinner: s,
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case summaryLoadedMsg:
		m.loading = false
		m.updatedAt = msg.at
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
		}
		return m, scheduleRefresh(m.config.RefreshInterval)

	case refreshTickMsg:
		return m.refresh()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Next):
		m.section = (m.section + 1) % sectionCount
	case key.Matches(msg, m.keys.Prev):
		m.section = (m.section + sectionCount - 1) % sectionCount
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

// refresh starts a reload unless one is already running.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	return loadSummary(m.ctx, m.loader, m.userID, m.now)
}

// Section returns the active tab.
func (m Model) Section() Section {
	return m.section
}

// Summary returns the last successfully loaded summary, if any.
func (m Model) Summary() *analytics.Summary {
	return m.summary
}

// Err returns the error from the most recent load.
func (m Model) Err() error {
	return m.err
}

// Loading reports whether a load is in flight.
func (m Model) Loading() bool {
	return m.loading
}
