package specs

// RawRecordSpec represents one row of source subscription billing data exactly as
// it arrives from the raw tabular file.
//
// Raw records are the input boundary of the pipeline. Every field is carried as a
// string so that parsing, coercion, and repair decisions belong to the cleaning
// stage rather than the reader: a malformed price or timestamp must travel into
// the pipeline and be flagged there, never rejected at the file boundary.
//
// Raw records are immutable once ingested. The pair (SubscriptionID, the payment
// event the row describes) identifies the record end-to-end; downstream stages
// derive new fields but never add or drop rows.
type RawRecordSpec struct {
	// Unique identifier of the subscription this payment event belongs to.
	//
	// Required. Together with the payment event itself this is the record's
	// identity, preserved through every pipeline stage. Examples: "sub_00412",
	// "SUB-2024-0017".
	SubscriptionID string `json:"subscriptionID"`

	// Identifier of the customer owning the subscription.
	CustomerID string `json:"customerID"`

	// Customer email address.
	//
	// Used by the enrichment stage to infer a geographic region from the domain
	// part. May be empty; an empty or unmatched domain maps to the "Other"
	// region, never to a missing value.
	CustomerEmail string `json:"customerEmail"`

	// Identifier of the billed plan.
	PlanID string `json:"planID"`

	// Human-readable plan name, e.g. "Yearly Enterprise Plan".
	//
	// Mapped to a product tier during enrichment via an exact lookup table.
	PlanName string `json:"planName"`

	// Plan price as written in the source file.
	//
	// Expected to parse as a decimal number ("9.99", "120"). Coercion happens in
	// the cleaning stage; an unparseable price flags the row instead of failing
	// the batch.
	PlanPrice string `json:"planPrice"`

	// Billing cycle of the subscription.
	//
	// One of "monthly", "quarterly", "yearly", "weekly". Drives the
	// monthly-normalization of MRR at risk.
	BillingCycle string `json:"billingCycle"`

	// Lifecycle dates, nullable (empty string means absent). Accepted layouts:
	// RFC 3339, "2006-01-02 15:04:05", and "2006-01-02".
	SubscriptionStartDate   string `json:"subscriptionStartDate"`
	NextRenewalDate         string `json:"nextRenewalDate"`
	LastPaymentDate         string `json:"lastPaymentDate"`
	CancellationDate        string `json:"cancellationDate"`
	LastRetentionActionDate string `json:"lastRetentionActionDate"`

	// Outcome of the most recent payment attempt.
	//
	// One of "success", "failed", "pending". The cleaning stage derives the
	// is_success boolean from strict equality with "success".
	PaymentStatus string `json:"paymentStatus"`

	// Free-text failure reason from the payment gateway, nullable.
	//
	// Standardized into a closed failure taxonomy during enrichment. Examples:
	// "Insufficient funds", "Card expired", "Awaiting bank authorization".
	PaymentFailureReason string `json:"paymentFailureReason"`

	// Payment method used for the attempt.
	//
	// One of "credit_card", "debit_card", "paypal", "bank_transfer", "other".
	// Unknown values are tolerated and route to the enrichment fallback
	// distributions.
	PaymentMethod string `json:"paymentMethod"`

	// Whether the subscription is currently active ("true"/"false").
	IsActive string `json:"isActive"`

	// Retention program status for the customer, free text.
	RetentionStatus string `json:"retentionStatus"`

	// Total number of payments made on this subscription.
	TotalPayments string `json:"totalPayments"`

	// Number of failed payments on this subscription.
	FailedPaymentsCount string `json:"failedPaymentsCount"`
}
