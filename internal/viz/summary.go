package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/primal/internal/primal"
	"github.com/san-kum/primal/internal/sweep"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2)
)

// Summary renders a terminal report of a finished sweep: run counts per mode,
// non-finite runs, and the worst conservation error seen.
func Summary(rows []sweep.Row) string {
	perMode := make(map[primal.Mode]int)
	runs := 0
	nonFinite := 0
	worstMass := 0.0
	worstMassModel := ""

	for _, r := range rows {
		if strings.HasSuffix(r.Model, sweep.MassErrSuffix) {
			if len(r.Values) > 0 && r.Values[0] > worstMass {
				worstMass = r.Values[0]
				worstMassModel = strings.TrimSuffix(r.Model, sweep.MassErrSuffix)
			}
			continue
		}
		runs++
		perMode[r.Mode]++
		if r.NonFinite {
			nonFinite++
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("sweep summary"))
	b.WriteString("\n")

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	line("runs", fmt.Sprintf("%d", runs))
	for _, m := range primal.Modes {
		if n, ok := perMode[m]; ok {
			line("  "+string(m), fmt.Sprintf("%d", n))
		}
	}
	if worstMassModel != "" {
		line("worst mass error", fmt.Sprintf("%.3e (%s)", worstMass, worstMassModel))
	}
	if nonFinite > 0 {
		b.WriteString(labelStyle.Render("non-finite runs"))
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d", nonFinite)))
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
