// Package render turns query results into the HTML fragments shown in a
// block's result region. Every value passes through HTML escaping before it
// reaches the page — no raw value is ever inserted, error messages included.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
)

// ErrorLabel prefixes transport-level failures so readers can tell them apart
// from errors reported by the query engine itself.
const ErrorLabel = "Query error:"

// NullMarker is the cell rendering for a null or absent value.
const NullMarker = `<span class="cypher-null">null</span>`

// statsDelimiter joins the present statistics fields into one summary line.
const statsDelimiter = " · "

// Fragment renders a decoded result. A non-empty error field renders the
// application-error box and nothing else; otherwise the result table (or the
// empty-result notice) renders, followed by the statistics line when the
// service reported one. Write queries typically return no rows but do carry
// counters, so the notice never suppresses the statistics line.
func Fragment(res *runner.Result) string {
	if res != nil && res.Error != "" {
		return appError(res.Error)
	}
	if res == nil || res.Empty() {
		out := `<div class="cypher-empty">No results.</div>`
		if res != nil {
			out += statsDiv(res.Stats)
		}
		return out
	}

	var sb strings.Builder
	sb.WriteString(`<table class="cypher-results"><thead><tr>`)
	for _, col := range res.Columns {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(col))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range res.Rows {
		sb.WriteString("<tr>")
		for _, col := range res.Columns {
			sb.WriteString("<td>")
			sb.WriteString(cell(row, col))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	sb.WriteString(statsDiv(res.Stats))
	return sb.String()
}

func statsDiv(s *runner.Stats) string {
	line := StatsLine(s)
	if line == "" {
		return ""
	}
	return `<div class="cypher-stats">` + html.EscapeString(line) + "</div>"
}

// ErrorFragment renders a transport-level failure: network error, timeout,
// non-success status. The message text is included verbatim but escaped.
func ErrorFragment(msg string) string {
	return `<div class="cypher-error">` + ErrorLabel + " " + html.EscapeString(msg) + "</div>"
}

func appError(msg string) string {
	return `<div class="cypher-error cypher-app-error">` + html.EscapeString(msg) + "</div>"
}

// StatsLine builds the single-line execution summary from whichever fields
// are present. Returns "" when stats are absent or carry no fields.
func StatsLine(s *runner.Stats) string {
	if s == nil {
		return ""
	}
	var parts []string
	if s.NodesCreated != nil {
		parts = append(parts, fmt.Sprintf("Nodes created: %d", *s.NodesCreated))
	}
	if s.RelationshipsCreated != nil {
		parts = append(parts, fmt.Sprintf("Relationships created: %d", *s.RelationshipsCreated))
	}
	if s.PropertiesSet != nil {
		parts = append(parts, fmt.Sprintf("Properties set: %d", *s.PropertiesSet))
	}
	if s.ExecutionTimeMS != nil {
		parts = append(parts, fmt.Sprintf("Time: %s ms", strconv.FormatFloat(*s.ExecutionTimeMS, 'f', -1, 64)))
	}
	return strings.Join(parts, statsDelimiter)
}

// cell renders one table cell: the null marker for null or absent values,
// escaped text for everything else.
func cell(row map[string]any, col string) string {
	v, ok := row[col]
	if !ok || v == nil {
		return NullMarker
	}
	return html.EscapeString(FormatValue(v))
}

// FormatValue converts a decoded JSON value to display text. Composite values
// (nested nodes, relationships, lists) render as compact JSON.
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	}
}
