package runner

// Result is the remote service's response, decoded once at the boundary.
// Every field is optional on the wire; absent columns or rows degrade to the
// empty-result rendering rather than an error. When Error is non-empty the
// columns and rows are never used.
type Result struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Stats   *Stats           `json:"stats,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Stats is the optional execution metadata returned alongside results.
// Pointer fields distinguish "absent" from a genuine zero, so the summary
// line only ever names fields the service actually reported.
type Stats struct {
	NodesCreated         *int     `json:"nodes_created,omitempty"`
	RelationshipsCreated *int     `json:"relationships_created,omitempty"`
	PropertiesSet        *int     `json:"properties_set,omitempty"`
	ExecutionTimeMS      *float64 `json:"execution_time_ms,omitempty"`
}

// Empty reports whether the result carries no renderable rows.
func (r *Result) Empty() bool {
	return len(r.Columns) == 0 || len(r.Rows) == 0
}
