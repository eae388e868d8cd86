package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedRecords(t *testing.T, prices ...string) []RawRecord {
	t.Helper()
	records := make([]RawRecord, len(prices))
	for i, price := range prices {
		record, err := NewRawRecord(newTestRawRecordSpec(withPlanPrice(price)))
		require.NoError(t, err)
		records[i] = record
	}
	return records
}

func mustDecimal(t *testing.T, value string) *Decimal {
	t.Helper()
	d, err := NewDecimal(value)
	require.NoError(t, err)
	return &d
}

func TestNewBatchStatistics(t *testing.T) {
	t.Run("computes interpolated quantiles over valid prices", func(t *testing.T) {
		records := pricedRecords(t, "10", "20", "30", "40", "100")

		stats, err := NewBatchStatistics(records)

		require.NoError(t, err)
		assert.Equal(t, 5, stats.ValidPrices())
		assert.InDelta(t, 76.0, stats.HighValueThreshold(), 1e-9)
	})

	t.Run("ignores records without a parseable price", func(t *testing.T) {
		records := pricedRecords(t, "10", "20", "30", "40")
		bad, err := NewRawRecord(newTestRawRecordSpec(withPlanPrice("broken")))
		require.NoError(t, err)
		records = append(records, bad)

		stats, err := NewBatchStatistics(records)

		require.NoError(t, err)
		assert.Equal(t, 4, stats.ValidPrices())
	})

	t.Run("with empty batch returns error", func(t *testing.T) {
		_, err := NewBatchStatistics(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty batch")
	})

	t.Run("with no parseable prices returns error", func(t *testing.T) {
		records := pricedRecords(t, "broken", "")

		_, err := NewBatchStatistics(records)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no parseable prices")
	})

	t.Run("with all prices equal returns error", func(t *testing.T) {
		records := pricedRecords(t, "25", "25.00", "25")

		_, err := NewBatchStatistics(records)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "degenerate batch")
	})
}

func TestBucket(t *testing.T) {
	records := pricedRecords(t, "10", "20", "30", "40", "100")
	stats, err := NewBatchStatistics(records)
	require.NoError(t, err)

	t.Run("assigns buckets by quantile thresholds", func(t *testing.T) {
		assert.Equal(t, BucketSmall, stats.Bucket(mustDecimal(t, "10")))
		assert.Equal(t, BucketSmall, stats.Bucket(mustDecimal(t, "20")))
		assert.Equal(t, BucketMedium, stats.Bucket(mustDecimal(t, "25")))
		assert.Equal(t, BucketMedium, stats.Bucket(mustDecimal(t, "30")))
		assert.Equal(t, BucketLarge, stats.Bucket(mustDecimal(t, "40")))
		assert.Equal(t, BucketEnterprise, stats.Bucket(mustDecimal(t, "41")))
		assert.Equal(t, BucketEnterprise, stats.Bucket(mustDecimal(t, "100")))
	})

	t.Run("nil price maps to the unknown bucket", func(t *testing.T) {
		assert.Equal(t, BucketUnknown, stats.Bucket(nil))
	})

	t.Run("high value starts at the 90th percentile", func(t *testing.T) {
		assert.False(t, stats.IsHighValue(mustDecimal(t, "70")))
		assert.True(t, stats.IsHighValue(mustDecimal(t, "80")))
		assert.True(t, stats.IsHighValue(mustDecimal(t, "100")))
		assert.False(t, stats.IsHighValue(nil))
	})
}
