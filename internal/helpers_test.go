package internal

import (
	"github.com/chrisconley/payflow/specs"
)

// Test helpers

type rawRecordOption func(*specs.RawRecordSpec)

func withSubscriptionID(id string) rawRecordOption {
	return func(s *specs.RawRecordSpec) { s.SubscriptionID = id }
}

func withPlanPrice(price string) rawRecordOption {
	return func(s *specs.RawRecordSpec) { s.PlanPrice = price }
}

func withBillingCycle(cycle string) rawRecordOption {
	return func(s *specs.RawRecordSpec) { s.BillingCycle = cycle }
}

func withPaymentStatus(status string) rawRecordOption {
	return func(s *specs.RawRecordSpec) { s.PaymentStatus = status }
}

func withLastPaymentDate(date string) rawRecordOption {
	return func(s *specs.RawRecordSpec) { s.LastPaymentDate = date }
}

func withIsActive(active string) rawRecordOption {
	return func(s *specs.RawRecordSpec) { s.IsActive = active }
}

func withCustomerEmail(email string) rawRecordOption {
	return func(s *specs.RawRecordSpec) { s.CustomerEmail = email }
}

// newTestRawRecordSpec creates a valid raw record spec for a successful,
// active monthly subscription. Options override individual fields.
func newTestRawRecordSpec(opts ...rawRecordOption) specs.RawRecordSpec {
	spec := specs.RawRecordSpec{
		SubscriptionID:        "sub-001",
		CustomerID:            "cust-001",
		CustomerEmail:         "ada@gmail.com",
		PlanID:                "plan-basic",
		PlanName:              "Monthly Basic",
		PlanPrice:             "29.99",
		BillingCycle:          "monthly",
		SubscriptionStartDate: "2024-01-15 09:30:00",
		NextRenewalDate:       "2024-07-15 09:30:00",
		LastPaymentDate:       "2024-06-15 14:45:30",
		PaymentStatus:         "success",
		PaymentMethod:         "credit_card",
		IsActive:              "true",
		RetentionStatus:       "active",
		TotalPayments:         "6",
		FailedPaymentsCount:   "0",
	}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}

// newTestBatch creates a batch with a price spread wide enough for quantile
// bucketing, one record per given option set.
func newTestBatch(optSets ...[]rawRecordOption) []specs.RawRecordSpec {
	batch := make([]specs.RawRecordSpec, len(optSets))
	for i, opts := range optSets {
		batch[i] = newTestRawRecordSpec(opts...)
	}
	return batch
}

type cleanRecordOption func(*specs.CleanRecordSpec)

func withCleanPlanPrice(price string) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.PlanPrice = price }
}

func withCleanBillingCycle(cycle string) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.BillingCycle = cycle }
}

func withCleanStatus(status string, isSuccess bool) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) {
		s.PaymentStatus = status
		s.IsSuccess = isSuccess
	}
}

func withCleanActive(active bool) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.IsActive = active }
}

func withCleanEmail(email string) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.CustomerEmail = email }
}

func withCleanPlanName(name string) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.PlanName = name }
}

func withCleanMethod(method string) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.PaymentMethod = method }
}

func withCleanFailureReason(reason string) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.PaymentFailureReason = reason }
}

func withCleanTotalPayments(n int) cleanRecordOption {
	return func(s *specs.CleanRecordSpec) { s.TotalPayments = n }
}

// newTestCleanRecordSpec creates a cleaned record for a successful, active
// monthly subscription, as the cleaning stage would emit it.
func newTestCleanRecordSpec(opts ...cleanRecordOption) specs.CleanRecordSpec {
	year, hour, age := 2024, 14, 152
	spec := specs.CleanRecordSpec{
		SubscriptionID:        "sub-001",
		CustomerID:            "cust-001",
		CustomerEmail:         "ada@gmail.com",
		PlanID:                "plan-basic",
		PlanName:              "Monthly Basic",
		PlanPrice:             "29.99",
		BillingCycle:          "monthly",
		SubscriptionStartDate: "2024-01-15 09:30:00",
		NextRenewalDate:       "2024-07-15 09:30:00",
		LastPaymentDate:       "2024-06-15 14:45:30",
		PaymentStatus:         "success",
		PaymentMethod:         "credit_card",
		IsActive:              true,
		RetentionStatus:       "active",
		TotalPayments:         6,
		Date:                  "2024-06-15",
		Month:                 "2024-06",
		Quarter:               "2024Q2",
		DayOfWeek:             "Saturday",
		Year:                  &year,
		Hour:                  &hour,
		SubscriptionAgeDays:   &age,
		IsSuccess:             true,
		TxnValueBucket:        BucketMedium,
		IsRecurring:           true,
	}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}

// newTestEnrichedRecordSpec creates an enriched record as the enrichment
// stage would emit it for the default configuration.
func newTestEnrichedRecordSpec(opts ...cleanRecordOption) specs.EnrichedRecordSpec {
	return specs.EnrichedRecordSpec{
		CleanRecordSpec:      newTestCleanRecordSpec(opts...),
		PaymentProvider:      "Stripe",
		GeoRegion:            "US",
		ProductTier:          "Mail Plus",
		ProcessingTimeS:      0.85,
		ProcessingTimeBucket: LatencyUnder1s,
		FailureReasonStd:     FailureNone,
		FailureSeverity:      SeverityNone,
		SubscriptionType:     SubscriptionRenewal,
	}
}
