package specs

// Export projects metric records into a flat typed table.
//
// The exporter is shape normalization only, no business logic. Columns appear
// in a fixed, stable order (raw fields, then cleaning derivations, then
// enrichment dimensions, then metrics) with explicit logical types, so any
// relational loader can consume the result without inspecting row content.
//
// Returns an error only when a record carries a categorical value outside its
// documented enumeration, which is a contract violation upstream, not an export
// concern the exporter may repair.
//
// This is the spec-level interface using only primitive types.
// See internal.Export for the reference implementation.
type Export func(records []MetricRecordSpec) (TableSpec, error)

// TableSpec is a flat, typed, analytics-ready table.
//
// Cell values are strings ready for a CSV writer or a parameterized SQL insert:
// decimals keep full precision, booleans render as "true"/"false", null renders
// as the empty string.
type TableSpec struct {
	// Ordered column definitions. Stable across runs and releases; consumers
	// may bind by position.
	Columns []ColumnSpec `json:"columns"`

	// One row per metric record, same order, each with len(Columns) cells.
	Rows [][]string `json:"rows"`
}

// ColumnSpec describes one export column.
type ColumnSpec struct {
	// Column name, snake_case, matching the warehouse schema.
	Name string `json:"name"`

	// Logical type: "text", "decimal", "integer", "double", "boolean", "date",
	// or "timestamp".
	Type string `json:"type"`
}

// PipelineConfigSpec bundles the configuration of every pipeline stage, and is
// the shape of the optional YAML configuration file.
type PipelineConfigSpec struct {
	Enrichment EnrichmentConfigSpec `json:"enrichment" yaml:"enrichment"`
	Metrics    MetricsConfigSpec    `json:"metrics" yaml:"metrics"`
}

// DefaultPipelineConfigSpec returns the documented defaults for every stage.
func DefaultPipelineConfigSpec() PipelineConfigSpec {
	return PipelineConfigSpec{
		Enrichment: DefaultEnrichmentConfigSpec(),
		Metrics:    DefaultMetricsConfigSpec(),
	}
}
