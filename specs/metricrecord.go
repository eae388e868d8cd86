package specs

// ComputeMetrics derives cross-cutting business metrics from enriched rows.
//
// The only metric today is MRR at risk: the monthly-normalized revenue of a
// subscription whose most recent payment did not succeed. It is a pure
// per-record function with no cross-record dependency:
//
//	is_success || !is_active    → 0
//	billing_cycle == monthly    → price
//	billing_cycle == quarterly  → price / 3
//	billing_cycle == yearly     → price / 12
//	billing_cycle == weekly     → price × weeks-per-month (config, default 4.345)
//	anything else               → 0, plus a quality flag
//
// All arithmetic is decimal; results round half-even to two places. Returns one
// MetricRecordSpec per input row, same order. Returns an error only for an
// invalid configuration (unparseable weeks-per-month constant).
//
// This is the spec-level interface using only primitive types.
// See internal.ComputeMetrics for the reference implementation.
type ComputeMetrics func(records []EnrichedRecordSpec, config MetricsConfigSpec) ([]MetricRecordSpec, error)

// MetricsConfigSpec holds the constants used by metric derivation.
type MetricsConfigSpec struct {
	// Average number of weeks per month, as a decimal string, used to
	// monthly-normalize weekly billing cycles.
	//
	// This is a realistic approximation rather than a documented business rule,
	// so it is configuration, not a hard-coded truth. Default: "4.345"
	// (365.25 / 12 / 7).
	WeeksPerMonth string `json:"weeksPerMonth" yaml:"weeksPerMonth"`
}

// DefaultMetricsConfigSpec returns the documented default metric constants.
func DefaultMetricsConfigSpec() MetricsConfigSpec {
	return MetricsConfigSpec{WeeksPerMonth: "4.345"}
}

// MetricRecordSpec is an enriched billing row plus derived business metrics.
// This is the final shape projected into the export table.
type MetricRecordSpec struct {
	EnrichedRecordSpec

	// Monthly recurring revenue put at risk by this payment event, as a decimal
	// string with two places. Always "0.00" for successful or inactive
	// subscriptions; never negative.
	MRRAtRisk string `json:"mrrAtRisk"`
}
