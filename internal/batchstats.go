package internal

import (
	"fmt"
	"sort"
)

// Value bucket labels assigned by quantile comparison within a batch.
// BucketUnknown is reserved for rows whose price failed coercion.
const (
	BucketSmall      = "Small"
	BucketMedium     = "Medium"
	BucketLarge      = "Large"
	BucketEnterprise = "Enterprise"
	BucketUnknown    = "Unknown"
)

// BatchStatistics holds the price quantile thresholds of one batch.
//
// Computed once over the full batch before any per-record assignment (the
// cleaning stage's two-pass requirement), then passed immutably into the
// per-record functions. Thresholds are float64: they are statistics, not money.
type BatchStatistics struct {
	p25 float64
	p50 float64
	p75 float64
	p90 float64

	validPrices int
}

// NewBatchStatistics computes price quantiles over every record with a
// parseable price.
//
// Statistical preconditions are hard failures, surfaced before any bucket is
// assigned: an empty batch, a batch with no parseable prices, and a degenerate
// batch where all valid prices are equal all leave bucket semantics undefined.
func NewBatchStatistics(records []RawRecord) (BatchStatistics, error) {
	if len(records) == 0 {
		return BatchStatistics{}, fmt.Errorf("empty batch")
	}

	prices := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Price != nil {
			prices = append(prices, r.Price.Float64())
		}
	}
	if len(prices) == 0 {
		return BatchStatistics{}, fmt.Errorf("no parseable prices in batch of %d records", len(records))
	}

	sort.Float64s(prices)
	if prices[0] == prices[len(prices)-1] {
		return BatchStatistics{}, fmt.Errorf("degenerate batch: all %d valid prices equal %v", len(prices), prices[0])
	}

	return BatchStatistics{
		p25:         quantile(prices, 0.25),
		p50:         quantile(prices, 0.50),
		p75:         quantile(prices, 0.75),
		p90:         quantile(prices, 0.90),
		validPrices: len(prices),
	}, nil
}

// Bucket assigns the value bucket for a price by threshold comparison.
// A nil price (failed coercion) maps to BucketUnknown.
func (s BatchStatistics) Bucket(price *Decimal) string {
	if price == nil {
		return BucketUnknown
	}
	p := price.Float64()
	switch {
	case p <= s.p25:
		return BucketSmall
	case p <= s.p50:
		return BucketMedium
	case p <= s.p75:
		return BucketLarge
	default:
		return BucketEnterprise
	}
}

// IsHighValue reports whether a price reaches the batch's 90th percentile.
func (s BatchStatistics) IsHighValue(price *Decimal) bool {
	if price == nil {
		return false
	}
	return price.Float64() >= s.p90
}

// HighValueThreshold exposes the 90th percentile for quality reporting.
func (s BatchStatistics) HighValueThreshold() float64 {
	return s.p90
}

// ValidPrices returns how many records contributed to the thresholds.
func (s BatchStatistics) ValidPrices() int {
	return s.validPrices
}

// quantile computes the q-quantile of sorted values with linear interpolation
// between closest ranks, matching the warehouse's percentile_cont.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
