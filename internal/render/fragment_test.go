package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
)

func intp(n int) *int { return &n }

func floatp(f float64) *float64 { return &f }

func TestFragment_TableWithNullMarker(t *testing.T) {
	// Response shape from the successful-query scenario: second row's only
	// cell is null.
	res := &runner.Result{
		Columns: []string{"n"},
		Rows: []map[string]any{
			{"n": "Ada"},
			{"n": nil},
		},
	}
	out := Fragment(res)

	assert.Contains(t, out, `<table class="cypher-results">`)
	assert.Contains(t, out, "<th>n</th>")
	assert.Contains(t, out, "<td>Ada</td>")
	assert.Contains(t, out, "<td>"+NullMarker+"</td>")
	assert.Equal(t, 2, strings.Count(out, "<tr>")-1, "one header row plus two data rows")
}

func TestFragment_AbsentCellRendersNullMarker(t *testing.T) {
	res := &runner.Result{
		Columns: []string{"a", "b"},
		Rows:    []map[string]any{{"a": "x"}},
	}
	out := Fragment(res)
	assert.Contains(t, out, NullMarker)
}

func TestFragment_ColumnOrderPreserved(t *testing.T) {
	res := &runner.Result{
		Columns: []string{"z", "a"},
		Rows:    []map[string]any{{"a": "second", "z": "first"}},
	}
	out := Fragment(res)

	assert.Less(t, strings.Index(out, "<th>z</th>"), strings.Index(out, "<th>a</th>"))
	assert.Less(t, strings.Index(out, "<td>first</td>"), strings.Index(out, "<td>second</td>"))
}

func TestFragment_EmptyResultNotice(t *testing.T) {
	for _, res := range []*runner.Result{
		nil,
		{},
		{Columns: []string{"n"}},
		{Rows: []map[string]any{}},
	} {
		out := Fragment(res)
		assert.Contains(t, out, "No results.")
		assert.NotContains(t, out, "<table")
	}
}

func TestFragment_ApplicationError(t *testing.T) {
	out := Fragment(&runner.Result{Error: "syntax error"})

	assert.Contains(t, out, "syntax error")
	assert.Contains(t, out, "cypher-app-error")
	assert.NotContains(t, out, "<table")
	assert.NotContains(t, out, ErrorLabel, "application errors carry no transport label")
}

func TestFragment_ErrorWinsOverRows(t *testing.T) {
	// Exactly one render path: a populated error field means columns and
	// rows are never used.
	res := &runner.Result{
		Columns: []string{"n"},
		Rows:    []map[string]any{{"n": "Ada"}},
		Error:   "partial failure",
	}
	out := Fragment(res)
	assert.NotContains(t, out, "<table")
	assert.Contains(t, out, "partial failure")
}

func TestFragment_EscapesValues(t *testing.T) {
	res := &runner.Result{
		Columns: []string{"<script>"},
		Rows:    []map[string]any{{"<script>": "<img onerror=alert(1)>"}},
	}
	out := Fragment(res)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestFragment_StatsLine(t *testing.T) {
	res := &runner.Result{
		Columns: []string{"n"},
		Rows:    []map[string]any{{"n": "x"}},
		Stats: &runner.Stats{
			NodesCreated:    intp(2),
			ExecutionTimeMS: floatp(12.5),
		},
	}
	out := Fragment(res)

	assert.Contains(t, out, "Nodes created: 2 · Time: 12.5 ms")
	assert.NotContains(t, out, "Relationships", "absent fields are not named")
}

func TestFragment_StatsLineWithoutRows(t *testing.T) {
	// A write query: no rows come back, but the counters do. The empty-result
	// notice replaces the table, not the statistics line.
	res := &runner.Result{
		Stats: &runner.Stats{NodesCreated: intp(2)},
	}
	out := Fragment(res)

	assert.Contains(t, out, "No results.")
	assert.Contains(t, out, "Nodes created: 2")
	assert.NotContains(t, out, "<table")
}

func TestFragment_EmptyStatsRenderNothing(t *testing.T) {
	res := &runner.Result{
		Columns: []string{"n"},
		Rows:    []map[string]any{{"n": "x"}},
		Stats:   &runner.Stats{},
	}
	assert.NotContains(t, Fragment(res), "cypher-stats")
}

func TestErrorFragment_LabelAndEscaping(t *testing.T) {
	out := ErrorFragment(`timeout after 10s <crash>`)

	assert.True(t, strings.Contains(out, ErrorLabel))
	assert.Contains(t, out, "timeout after 10s &lt;crash&gt;")
	assert.NotContains(t, out, "<crash>")
}

func TestStatsLine_AllFields(t *testing.T) {
	line := StatsLine(&runner.Stats{
		NodesCreated:         intp(1),
		RelationshipsCreated: intp(2),
		PropertiesSet:        intp(3),
		ExecutionTimeMS:      floatp(4),
	})
	assert.Equal(t,
		"Nodes created: 1 · Relationships created: 2 · Properties set: 3 · Time: 4 ms",
		line)
}

func TestStatsLine_Absent(t *testing.T) {
	assert.Empty(t, StatsLine(nil))
	assert.Empty(t, StatsLine(&runner.Stats{}))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "Ada", FormatValue("Ada"))
	assert.Equal(t, "42", FormatValue(float64(42)))
	assert.Equal(t, "3.14", FormatValue(3.14))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "null", FormatValue(nil))
	assert.Equal(t, `{"name":"Ada"}`, FormatValue(map[string]any{"name": "Ada"}))
	assert.Equal(t, `[1,2]`, FormatValue([]any{float64(1), float64(2)}))
}

func TestFragment_NeverPanicsOnAwkwardShapes(t *testing.T) {
	require.NotPanics(t, func() {
		_ = Fragment(&runner.Result{
			Columns: []string{"a", "b", "c"},
			Rows:    []map[string]any{nil, {}, {"c": map[string]any{"x": nil}}},
		})
	})
}
