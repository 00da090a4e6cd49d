package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// MetricValue renders a metric value; numbers are shown as money unless the
// metric is a percentage.
func MetricValue(m *model.MetricResult) string {
	switch v := m.Value.(type) {
	case float64:
		if strings.HasSuffix(m.Metric, "_rate") && m.Metric != "burn_rate" {
			return Percent(v)
		}
		return Money(v, "USD")
	case fmt.Stringer:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// RenderMetric writes a boxed metric with its risk, explanation and inputs.
func RenderMetric(w io.Writer, m *model.MetricResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", valueStyle.Render(MetricValue(m)), FormatRisk(m.Risk))
	b.WriteString(m.Explanation)

	if len(m.Inputs) > 0 {
		keys := make([]string, 0, len(m.Inputs))
		for k := range m.Inputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{Label(k), fmt.Sprint(m.Inputs[k])})
		}
		b.WriteString("\n\n")
		b.WriteString(Table([]string{"Input", "Value"}, rows))
	}

	_, err := fmt.Fprintln(w, RenderBox(Label(m.Metric), b.String()))
	return err
}
