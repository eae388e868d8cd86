package specs

// Clean transforms raw billing rows into cleaned, typed, derived rows.
//
// Process:
//  1. Parse lifecycle dates (coerce-or-null) and the primary timestamp
//     (last_payment_date); an unparseable primary timestamp flags the row and
//     nulls its temporal fields instead of dropping it
//  2. Coerce numeric fields (price, payment counts) with flag-and-continue
//  3. Compute batch price statistics once (p25/p50/p75/p90), then assign every
//     row a value bucket and high-value flag by threshold comparison
//  4. Derive is_success, subscription age, and the recurring flag
//
// Returns one CleanRecordSpec per input row, same order. Returns an error only
// for statistical preconditions: an empty batch, a batch with no parseable
// prices, or a degenerate batch where every valid price is equal. Those abort
// the run before any per-row assignment, because quantile bucket semantics are
// undefined for them.
//
// This is the spec-level interface using only primitive types.
// See internal.Clean for the reference implementation.
type Clean func(records []RawRecordSpec) ([]CleanRecordSpec, error)

// CleanRecordSpec is a raw billing row plus the derived temporal, boolean, and
// bucket fields produced by the cleaning stage.
//
// One-to-one with its RawRecordSpec, never mutated after creation. String fields
// are normalized: dates render as "2006-01-02 15:04:05" (empty string = null),
// the price as a canonical decimal string (empty when coercion failed).
type CleanRecordSpec struct {
	// Identity and descriptive fields, carried from the raw record.
	SubscriptionID string `json:"subscriptionID"`
	CustomerID     string `json:"customerID"`
	CustomerEmail  string `json:"customerEmail"`
	PlanID         string `json:"planID"`
	PlanName       string `json:"planName"`

	// Canonical decimal price string. Empty when the raw price failed coercion;
	// such rows carry the "bad_price" quality flag and the Unknown value bucket.
	PlanPrice string `json:"planPrice"`

	BillingCycle string `json:"billingCycle"`

	// Normalized lifecycle timestamps, empty string = null.
	SubscriptionStartDate   string `json:"subscriptionStartDate"`
	NextRenewalDate         string `json:"nextRenewalDate"`
	LastPaymentDate         string `json:"lastPaymentDate"`
	CancellationDate        string `json:"cancellationDate"`
	LastRetentionActionDate string `json:"lastRetentionActionDate"`

	PaymentStatus        string `json:"paymentStatus"`
	PaymentFailureReason string `json:"paymentFailureReason"`
	PaymentMethod        string `json:"paymentMethod"`

	// Coerced typed fields.
	IsActive            bool `json:"isActive"`
	TotalPayments       int  `json:"totalPayments"`
	FailedPaymentsCount int  `json:"failedPaymentsCount"`

	RetentionStatus string `json:"retentionStatus"`

	// Temporal components of the primary timestamp (last_payment_date).
	//
	// Date is "2006-01-02", Month "2006-01", Quarter "2006Q1", DayOfWeek the
	// English weekday name. All empty (and Year/Hour nil) when the primary
	// timestamp was absent or unparseable.
	Date      string `json:"date"`
	Month     string `json:"month"`
	Quarter   string `json:"quarter"`
	DayOfWeek string `json:"dayOfWeek"`
	Year      *int   `json:"year,omitempty"`
	Hour      *int   `json:"hour,omitempty"`

	// True when payment_status == "success". Pending and failed are both false.
	IsSuccess bool `json:"isSuccess"`

	// Quantile-derived price size class: "Small", "Medium", "Large",
	// "Enterprise", or "Unknown" (only for rows whose price failed coercion).
	// Thresholds are computed over the whole batch, so boundaries are
	// data-dependent.
	TxnValueBucket string `json:"txnValueBucket"`

	// True when the price is at or above the batch's 90th percentile.
	IsHighValue bool `json:"isHighValue"`

	// Days between subscription start and the primary timestamp. Nil when
	// either date is absent.
	SubscriptionAgeDays *int `json:"subscriptionAgeDays,omitempty"`

	// True when the subscription has more than one payment.
	IsRecurring bool `json:"isRecurring"`

	// Recovered per-row data defects, for downstream quality audits.
	//
	// Known flags: "bad_timestamp" (unparseable primary timestamp), "bad_price",
	// "bad_count" (unparseable payment count), "bad_active_flag". An empty slice
	// means the row cleaned without repair.
	QualityFlags []string `json:"qualityFlags,omitempty"`
}
