package internal

import (
	"sort"

	"github.com/chrisconley/payflow/specs"
)

// QualityReport summarizes a finished batch for data-quality auditing: how
// much repair the cleaner performed, how the categorical fields distribute,
// and the headline metric rollups the reporting layer sanity-checks against.
type QualityReport struct {
	Records     int
	FlaggedRows int

	// MissingByColumn counts empty cells per nullable source column, ordered
	// by descending count. Columns with no missing values are omitted.
	MissingByColumn []ValueCount

	DuplicateSubscriptionIDs int

	MinPrice string
	MaxPrice string

	StatusDistribution []ValueCount
	CycleDistribution  []ValueCount

	SuccessRate float64

	TotalMRRAtRisk        string
	AffectedSubscriptions int
}

// ValueCount is one entry of a categorical distribution.
type ValueCount struct {
	Value string
	Count int
}

// BuildQualityReport audits a finished batch. Pure function of the metric
// records; empty batches yield a zero report.
func BuildQualityReport(records []specs.MetricRecordSpec) QualityReport {
	report := QualityReport{Records: len(records)}
	if len(records) == 0 {
		return report
	}

	missing := map[string]int{}
	seen := make(map[string]int, len(records))
	statuses := map[string]int{}
	cycles := map[string]int{}

	var minPrice, maxPrice *Decimal
	totalMRR := NewDecimalFromInt64(0)
	successes := 0

	for _, record := range records {
		if len(record.QualityFlags) > 0 {
			report.FlaggedRows++
		}

		countMissing(missing, "customer_email", record.CustomerEmail)
		countMissing(missing, "plan_price", record.PlanPrice)
		countMissing(missing, "subscription_start_date", record.SubscriptionStartDate)
		countMissing(missing, "next_renewal_date", record.NextRenewalDate)
		countMissing(missing, "last_payment_date", record.LastPaymentDate)
		countMissing(missing, "cancellation_date", record.CancellationDate)
		countMissing(missing, "payment_failure_reason", record.PaymentFailureReason)
		countMissing(missing, "last_retention_action_date", record.LastRetentionActionDate)

		seen[record.SubscriptionID]++
		statuses[record.PaymentStatus]++
		cycles[record.BillingCycle]++

		if record.IsSuccess {
			successes++
		}

		if record.PlanPrice != "" {
			if price, err := NewDecimal(record.PlanPrice); err == nil {
				if minPrice == nil || price.Cmp(*minPrice) < 0 {
					p := price
					minPrice = &p
				}
				if maxPrice == nil || price.Cmp(*maxPrice) > 0 {
					p := price
					maxPrice = &p
				}
			}
		}

		if mrr, err := NewDecimal(record.MRRAtRisk); err == nil {
			totalMRR = totalMRR.Add(mrr)
			if !mrr.IsZero() {
				report.AffectedSubscriptions++
			}
		}
	}

	for _, count := range seen {
		if count > 1 {
			report.DuplicateSubscriptionIDs += count - 1
		}
	}

	if minPrice != nil {
		report.MinPrice = minPrice.String()
	}
	if maxPrice != nil {
		report.MaxPrice = maxPrice.String()
	}

	report.MissingByColumn = sortedCounts(missing)
	report.StatusDistribution = sortedCounts(statuses)
	report.CycleDistribution = sortedCounts(cycles)
	report.SuccessRate = float64(successes) / float64(len(records))
	report.TotalMRRAtRisk = totalMRR.Round2().String()

	return report
}

func countMissing(missing map[string]int, column, value string) {
	if value == "" {
		missing[column]++
	}
}

// sortedCounts orders a counter by descending count, then value, for stable
// rendering.
func sortedCounts(counter map[string]int) []ValueCount {
	counts := make([]ValueCount, 0, len(counter))
	for value, count := range counter {
		counts = append(counts, ValueCount{Value: value, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
	return counts
}
