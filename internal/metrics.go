package internal

import (
	"fmt"

	"github.com/chrisconley/payflow/specs"
)

// ComputeMetrics implements specs.ComputeMetrics.
//
// MRR at risk is a pure per-record derivation with no cross-record dependency
// (unlike the cleaner's bucket thresholds): the monthly-normalized price of any
// active subscription whose most recent payment did not succeed. All arithmetic
// is decimal, rounded half-even to two places.
func ComputeMetrics(records []specs.EnrichedRecordSpec, configSpec specs.MetricsConfigSpec) ([]specs.MetricRecordSpec, error) {
	weeksPerMonth, err := NewDecimal(configSpec.WeeksPerMonth)
	if err != nil {
		return nil, fmt.Errorf("invalid weeks per month %q: %w", configSpec.WeeksPerMonth, err)
	}
	if weeksPerMonth.IsZero() || weeksPerMonth.IsNegative() {
		return nil, fmt.Errorf("weeks per month must be positive, got %q", configSpec.WeeksPerMonth)
	}

	metrics := make([]specs.MetricRecordSpec, len(records))
	for i, record := range records {
		metrics[i] = computeRecord(record, weeksPerMonth)
	}
	return metrics, nil
}

// computeRecord derives the metric fields for one record. Total function:
// unknown billing cycles and unpriced rows yield zero MRR at risk plus a
// quality flag rather than an error.
func computeRecord(record specs.EnrichedRecordSpec, weeksPerMonth Decimal) specs.MetricRecordSpec {
	metric := specs.MetricRecordSpec{EnrichedRecordSpec: record}

	mrr := NewDecimalFromInt64(0)

	// Revenue is only at risk while the subscription is alive and the latest
	// payment (failed or pending) has not cleared.
	if !record.IsSuccess && record.IsActive && record.PlanPrice != "" {
		if price, err := NewDecimal(record.PlanPrice); err == nil {
			switch record.BillingCycle {
			case CycleMonthly:
				mrr = price
			case CycleQuarterly:
				mrr = price.Div(NewDecimalFromInt64(3))
			case CycleYearly:
				mrr = price.Div(NewDecimalFromInt64(12))
			case CycleWeekly:
				mrr = price.Mul(weeksPerMonth)
			default:
				metric.QualityFlags = appendFlag(metric.QualityFlags, FlagBadCycle)
			}
		}
	}

	metric.MRRAtRisk = mrr.Round2().String()
	return metric
}

func appendFlag(flags []string, name string) []string {
	for _, f := range flags {
		if f == name {
			return flags
		}
	}
	return append(flags, name)
}
