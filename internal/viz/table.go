package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/covkin/internal/analysis"
	"github.com/san-kum/covkin/internal/dynamo"
)

// Summary renders rows evenly spaced samples of the named series, each
// column headed by a sparkline of the full curve.
func Summary(tr *dynamo.Trajectory, names []string, rows int) (string, error) {
	if tr.Len() == 0 {
		return "", fmt.Errorf("empty trajectory")
	}
	rows = min(max(rows, 2), tr.Len())

	series := make([][]float64, len(names))
	for i, name := range names {
		s, err := analysis.Observable(tr, name)
		if err != nil {
			return "", err
		}
		series[i] = s
	}

	const colWidth = 13
	cell := lipgloss.NewStyle().Width(colWidth).Align(lipgloss.Right)

	var b strings.Builder
	header := []string{cell.Render("t (min)")}
	spark := []string{cell.Render("")}
	for i, name := range names {
		header = append(header, cell.Render(name))
		spark = append(spark, " "+Sparkline(series[i], colWidth-1))
	}
	b.WriteString(HeaderStyle.Render(strings.Join(header, "")))
	b.WriteString("\n")
	b.WriteString(strings.Join(spark, ""))
	b.WriteString("\n")

	minutes := tr.Minutes()
	for r := 0; r < rows; r++ {
		k := r * (tr.Len() - 1) / (rows - 1)
		line := []string{MetricLabel.Render(cell.Render(fmt.Sprintf("%.1f", minutes[k])))}
		for _, s := range series {
			line = append(line, MetricValue.Render(cell.Render(fmt.Sprintf("%.4g", s[k]))))
		}
		b.WriteString(strings.Join(line, ""))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Stats renders solver statistics as label/value pairs.
func Stats(st dynamo.Stats) string {
	pairs := []struct {
		label string
		value int
	}{
		{"accepted", st.Accepted},
		{"rejected", st.Rejected},
		{"evaluations", st.Evaluations},
		{"jacobians", st.Jacobians},
		{"stiff steps", st.StiffSteps},
		{"switches", st.Switches},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = MetricLabel.Render(p.label+" ") + MetricValue.Render(fmt.Sprint(p.value))
	}
	return strings.Join(parts, Subtle.Render("  │  "))
}
