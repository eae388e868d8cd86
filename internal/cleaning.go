package internal

import (
	"fmt"
	"time"

	"github.com/chrisconley/payflow/specs"
)

// Clean implements specs.Clean.
// Converts specs to domain objects, transforms, and converts back to specs.
//
// The cleaner is deliberately two-pass: batch price statistics are computed
// over every record first, and only then is each record assigned its bucket and
// high-value flag against that immutable snapshot. Bucket boundaries are
// data-dependent, so this ordering is a correctness requirement rather than an
// optimization.
func Clean(recordSpecs []specs.RawRecordSpec) ([]specs.CleanRecordSpec, error) {
	records := make([]RawRecord, len(recordSpecs))
	for i, spec := range recordSpecs {
		record, err := NewRawRecord(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid record at index %d: %w", i, err)
		}
		records[i] = record
	}

	// Pass one: global statistics. Hard failure here aborts the run before any
	// per-record output exists.
	stats, err := NewBatchStatistics(records)
	if err != nil {
		return nil, fmt.Errorf("batch statistics: %w", err)
	}

	// Pass two: per-record derivation and assignment.
	cleaned := make([]specs.CleanRecordSpec, len(records))
	for i, record := range records {
		cleaned[i] = cleanRecord(record, stats)
	}
	return cleaned, nil
}

// cleanRecord derives the temporal, boolean, and bucket fields for one record.
// Total function: every input row yields exactly one output row.
func cleanRecord(r RawRecord, stats BatchStatistics) specs.CleanRecordSpec {
	spec := specs.CleanRecordSpec{
		SubscriptionID:          r.SubscriptionID,
		CustomerID:              r.CustomerID,
		CustomerEmail:           r.CustomerEmail,
		PlanID:                  r.PlanID,
		PlanName:                r.PlanName,
		BillingCycle:            r.BillingCycle,
		SubscriptionStartDate:   formatTimestamp(r.SubscriptionStart),
		NextRenewalDate:         formatTimestamp(r.NextRenewal),
		LastPaymentDate:         formatTimestamp(r.LastPayment),
		CancellationDate:        formatTimestamp(r.Cancellation),
		LastRetentionActionDate: formatTimestamp(r.LastRetentionAction),
		PaymentStatus:           r.PaymentStatus,
		PaymentFailureReason:    r.FailureReason,
		PaymentMethod:           r.PaymentMethod,
		IsActive:                r.IsActive,
		TotalPayments:           r.TotalPayments,
		FailedPaymentsCount:     r.FailedPayments,
		RetentionStatus:         r.RetentionStatus,
		IsSuccess:               r.IsSuccess(),
		TxnValueBucket:          stats.Bucket(r.Price),
		IsHighValue:             stats.IsHighValue(r.Price),
		IsRecurring:             r.TotalPayments > 1,
		QualityFlags:            append([]string(nil), r.Flags...),
	}

	if r.Price != nil {
		spec.PlanPrice = r.Price.String()
	}

	if r.LastPayment != nil {
		t := *r.LastPayment
		year, hour := t.Year(), t.Hour()
		spec.Date = t.Format("2006-01-02")
		spec.Month = t.Format("2006-01")
		spec.Quarter = fmt.Sprintf("%dQ%d", year, (int(t.Month())-1)/3+1)
		spec.DayOfWeek = t.Weekday().String()
		spec.Year = &year
		spec.Hour = &hour

		if r.SubscriptionStart != nil {
			age := int(t.Sub(*r.SubscriptionStart).Hours() / 24)
			spec.SubscriptionAgeDays = &age
		}
	}

	return spec
}

// formatTimestamp renders a nullable timestamp in the canonical layout, with
// the empty string as null.
func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
