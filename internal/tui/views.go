package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.summary == nil {
		return m.renderLoading()
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		m.config.Theme.Panel.Width(max(m.width-4, 20)).Render(m.renderSection()),
		m.renderStatusBar(),
		m.help.View(m.keys),
	)
	return body
}

func (m Model) renderLoading() string {
	t := m.config.Theme
	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " " + t.Subtitle.Render("Crunching the numbers...")
	case m.err != nil:
		status = t.StatusError.Render("Failed to load summary: ") + t.Normal.Render(m.err.Error()) +
			"\n\n" + t.Subtitle.Render("Press r to retry or q to quit.")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		t.Title.Render("FINDASH"),
		status,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHeader() string {
	t := m.config.Theme
	title := t.Title.Render("FINDASH")
	user := t.Subtitle.Render(" · " + m.userID + "  ")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, user, t.Risk(m.summary.State.RiskLevel).Render(cli.Label(string(m.summary.State.RiskLevel))+" risk"))
}

func (m Model) renderTabs() string {
	t := m.config.Theme
	tabs := make([]string, 0, int(sectionCount))
	for s := SectionOverview; s < sectionCount; s++ {
		if s == m.section {
			tabs = append(tabs, t.Selected.Render(s.String()))
			continue
		}
		tabs = append(tabs, t.Tab.Render(s.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderSection() string {
	switch m.section {
	case SectionForecast:
		return m.renderForecast()
	case SectionAnomalies:
		return m.renderAnomalies()
	case SectionRecommendations:
		return m.renderRecommendations()
	default:
		return m.renderOverview()
	}
}

func (m Model) renderOverview() string {
	t := m.config.Theme
	state := m.summary.State
	money := func(v float64) string { return cli.Money(v, m.config.Currency) }

	rows := [][2]string{
		{"Balance", money(state.Balance)},
		{"Monthly Income", money(state.Income)},
		{"Burn Rate", money(state.BurnRate)},
		{"Runway", state.Runway},
		{"Risk Level", t.Risk(state.RiskLevel).Render(string(state.RiskLevel))},
	}

	var b strings.Builder
	b.WriteString(t.Bold.Render("Financial State"))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-16s %s\n", r[0], r[1])
	}

	b.WriteString("\n")
	b.WriteString(t.Bold.Render("Insights"))
	b.WriteString("\n")
	for _, in := range m.summary.Insights {
		value := cli.MetricValue(&model.MetricResult{Metric: in.Metric, Value: in.Value})
		fmt.Fprintf(&b, "  %-18s %-14s %s\n", cli.Label(in.Metric), value, t.Risk(in.Risk).Render(string(in.Risk)))
		if in.Explanation != "" {
			b.WriteString("    " + t.Subtitle.Render(in.Explanation) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderForecast() string {
	t := m.config.Theme
	if len(m.summary.Forecast) == 0 {
		return t.Subtitle.Render("No forecast available.")
	}

	rows := make([][]string, 0, len(m.summary.Forecast))
	for _, p := range m.summary.Forecast {
		balance := cli.Money(p.ProjectedBalance, m.config.Currency)
		if p.ProjectedBalance < 0 {
			balance = t.StatusError.Render(balance)
		}
		rows = append(rows, []string{
			p.Month,
			cli.Money(p.ProjectedIncome, m.config.Currency),
			cli.Money(p.ProjectedExpenses, m.config.Currency),
			balance,
		})
	}
	return cli.Table([]string{"Month", "Income", "Expenses", "Balance"}, rows)
}

func (m Model) renderAnomalies() string {
	t := m.config.Theme
	if len(m.summary.Anomalies) == 0 {
		return t.StatusSuccess.Render("No unusual spending detected.")
	}

	rows := make([][]string, 0, len(m.summary.Anomalies))
	for _, a := range m.summary.Anomalies {
		rows = append(rows, []string{
			a.Timestamp.Format("2006-01-02"),
			a.Category,
			a.Vendor,
			cli.Money(a.Amount, m.config.Currency),
			cli.Money(a.Baseline, m.config.Currency),
			t.StatusWarning.Render(cli.Percent(a.DeviationPercent)),
		})
	}
	return cli.Table([]string{"Date", "Category", "Vendor", "Amount", "Baseline", "Deviation"}, rows)
}

func (m Model) renderRecommendations() string {
	t := m.config.Theme
	if len(m.summary.Recommendations) == 0 {
		return t.StatusSuccess.Render("Nothing to act on right now.")
	}

	items := make([]string, 0, len(m.summary.Recommendations))
	for i, r := range m.summary.Recommendations {
		items = append(items, fmt.Sprintf("%d. %s", i+1, r))
	}
	return t.Normal.Render(strings.Join(items, "\n"))
}

func (m Model) renderStatusBar() string {
	t := m.config.Theme

	var left string
	switch {
	case m.loading:
		left = m.spinner.View() + " refreshing"
	case m.err != nil:
		left = t.StatusError.Render("refresh failed: " + m.err.Error())
	default:
		left = "updated " + m.updatedAt.Format("15:04:05")
	}

	right := fmt.Sprintf("%d/%d", int(m.section)+1, int(sectionCount))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return t.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}
