package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	t.Run("emits one output row per input row in order", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withSubscriptionID("sub-a"), withPlanPrice("10")},
			[]rawRecordOption{withSubscriptionID("sub-b"), withPlanPrice("20")},
			[]rawRecordOption{withSubscriptionID("sub-c"), withPlanPrice("30")},
			[]rawRecordOption{withSubscriptionID("sub-d"), withPlanPrice("40")},
		)

		cleaned, err := Clean(batch)

		require.NoError(t, err)
		require.Len(t, cleaned, len(batch))
		assert.Equal(t, "sub-a", cleaned[0].SubscriptionID)
		assert.Equal(t, "sub-b", cleaned[1].SubscriptionID)
		assert.Equal(t, "sub-c", cleaned[2].SubscriptionID)
		assert.Equal(t, "sub-d", cleaned[3].SubscriptionID)
	})

	t.Run("derives temporal fields from the payment date", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withPlanPrice("10"), withLastPaymentDate("2024-06-15 14:45:30")},
			[]rawRecordOption{withPlanPrice("40")},
		)

		cleaned, err := Clean(batch)

		require.NoError(t, err)
		record := cleaned[0]
		assert.Equal(t, "2024-06-15", record.Date)
		assert.Equal(t, "2024-06", record.Month)
		assert.Equal(t, "2024Q2", record.Quarter)
		assert.Equal(t, "Saturday", record.DayOfWeek)
		require.NotNil(t, record.Year)
		assert.Equal(t, 2024, *record.Year)
		require.NotNil(t, record.Hour)
		assert.Equal(t, 14, *record.Hour)
		require.NotNil(t, record.SubscriptionAgeDays)
		assert.Equal(t, 152, *record.SubscriptionAgeDays)
	})

	t.Run("with null payment date nulls every derived temporal field", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withPlanPrice("10"), withLastPaymentDate("")},
			[]rawRecordOption{withPlanPrice("40")},
		)

		cleaned, err := Clean(batch)

		require.NoError(t, err)
		record := cleaned[0]
		assert.Empty(t, record.Date)
		assert.Empty(t, record.Month)
		assert.Empty(t, record.Quarter)
		assert.Empty(t, record.DayOfWeek)
		assert.Nil(t, record.Year)
		assert.Nil(t, record.Hour)
		assert.Nil(t, record.SubscriptionAgeDays)
	})

	t.Run("assigns buckets against batch statistics", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withPlanPrice("10")},
			[]rawRecordOption{withPlanPrice("20")},
			[]rawRecordOption{withPlanPrice("30")},
			[]rawRecordOption{withPlanPrice("40")},
			[]rawRecordOption{withPlanPrice("100")},
		)

		cleaned, err := Clean(batch)

		require.NoError(t, err)
		assert.Equal(t, BucketSmall, cleaned[0].TxnValueBucket)
		assert.Equal(t, BucketSmall, cleaned[1].TxnValueBucket)
		assert.Equal(t, BucketMedium, cleaned[2].TxnValueBucket)
		assert.Equal(t, BucketLarge, cleaned[3].TxnValueBucket)
		assert.Equal(t, BucketEnterprise, cleaned[4].TxnValueBucket)
		assert.True(t, cleaned[4].IsHighValue)
		assert.False(t, cleaned[0].IsHighValue)
	})

	t.Run("flagged rows survive with repaired fields", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withPlanPrice("broken"), withLastPaymentDate("garbage")},
			[]rawRecordOption{withPlanPrice("10")},
			[]rawRecordOption{withPlanPrice("40")},
		)

		cleaned, err := Clean(batch)

		require.NoError(t, err)
		record := cleaned[0]
		assert.Empty(t, record.PlanPrice)
		assert.Equal(t, BucketUnknown, record.TxnValueBucket)
		assert.False(t, record.IsHighValue)
		assert.ElementsMatch(t, []string{FlagBadTimestamp, FlagBadPrice}, record.QualityFlags)
		assert.Empty(t, cleaned[1].QualityFlags)
	})

	t.Run("is recurring after more than one payment", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withPlanPrice("10")},
			[]rawRecordOption{withPlanPrice("40")},
		)
		batch[0].TotalPayments = "1"

		cleaned, err := Clean(batch)

		require.NoError(t, err)
		assert.False(t, cleaned[0].IsRecurring)
		assert.True(t, cleaned[1].IsRecurring)
	})

	t.Run("with record missing identity returns error", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withPlanPrice("10")},
			[]rawRecordOption{withSubscriptionID(""), withPlanPrice("40")},
		)

		_, err := Clean(batch)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid record at index 1")
	})

	t.Run("with empty batch returns error", func(t *testing.T) {
		_, err := Clean(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch statistics")
	})

	t.Run("with degenerate prices returns error", func(t *testing.T) {
		batch := newTestBatch(
			[]rawRecordOption{withPlanPrice("25")},
			[]rawRecordOption{withPlanPrice("25")},
		)

		_, err := Clean(batch)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "degenerate")
	})
}
