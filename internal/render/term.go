package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
)

var (
	termHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	termCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	termErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	termFaintStyle  = lipgloss.NewStyle().Faint(true)
)

// Terminal renders a decoded result for the exec command: a bordered table,
// the statistics line, or the application error, mirroring the HTML paths.
func Terminal(res *runner.Result) string {
	if res != nil && res.Error != "" {
		return termErrorStyle.Render(res.Error)
	}
	if res == nil || res.Empty() {
		out := termFaintStyle.Render("No results.")
		if res != nil {
			if line := StatsLine(res.Stats); line != "" {
				out += "\n" + termFaintStyle.Render(line)
			}
		}
		return out
	}

	rows := make([][]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		cells := make([]string, 0, len(res.Columns))
		for _, col := range res.Columns {
			v, ok := row[col]
			if !ok || v == nil {
				cells = append(cells, "null")
				continue
			}
			cells = append(cells, FormatValue(v))
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(res.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return termHeaderStyle
			}
			return termCellStyle
		})

	out := t.Render()
	if line := StatsLine(res.Stats); line != "" {
		out += "\n" + termFaintStyle.Render(line)
	}
	return strings.TrimRight(out, "\n")
}

// TerminalError renders a transport-level failure for the exec command.
func TerminalError(msg string) string {
	return termErrorStyle.Render(ErrorLabel + " " + msg)
}
