// Package cli renders metrics and summaries for the terminal using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

var (
	accent = lipgloss.Color("#5B8DEF")
	muted  = lipgloss.Color("#6C7080")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	borderStyle = lipgloss.NewStyle().Foreground(muted)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2)
)

// message pairs an icon with the color of a status line.
type message struct {
	icon  string
	color lipgloss.Color
}

var (
	successMsg = message{icon: "✓", color: lipgloss.Color("#4ECDC4")}
	errorMsg   = message{icon: "✗", color: lipgloss.Color("#FF6B6B")}
	warningMsg = message{icon: "!", color: lipgloss.Color("#FFE66D")}
	infoMsg    = message{icon: "i", color: lipgloss.Color("#95E1D3")}
)

func (m message) render(text string) string {
	return lipgloss.NewStyle().Foreground(m.color).Render(m.icon + " " + text)
}

var riskColors = map[model.RiskLevel]lipgloss.Color{
	model.RiskLow:      successMsg.color,
	model.RiskMedium:   warningMsg.color,
	model.RiskHigh:     lipgloss.Color("#FF9F43"),
	model.RiskCritical: errorMsg.color,
}

// FormatRisk renders a risk level in upper case with its color. Critical is
// also bold.
func FormatRisk(level model.RiskLevel) string {
	label := string(level)
	if label == "" {
		label = "unknown"
	}
	color, ok := riskColors[level]
	if !ok {
		color = muted
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(level == model.RiskCritical).
		Render(upper(label))
}

// FormatSuccess formats a success line.
func FormatSuccess(text string) string { return successMsg.render(text) }

// FormatError formats an error line.
func FormatError(text string) string { return errorMsg.render(text) }

// FormatWarning formats a warning line.
func FormatWarning(text string) string { return warningMsg.render(text) }

// FormatInfo formats an informational line.
func FormatInfo(text string) string { return infoMsg.render(text) }

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return titleStyle.MarginBottom(1).Render(title)
}

// RenderBox renders content under title in a rounded box.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content))
}
