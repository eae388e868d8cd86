package specs

// Enrich adds synthetic business dimensions to cleaned billing rows.
//
// Every synthetic field is produced by an independent, documented rule that
// reads only the row's existing fields and the seeded generator constructed
// from config.Seed, never ambient global state, so re-running with the same
// seed and input order reproduces every value bit for bit.
//
// Randomness is consumed in a fixed per-row order: provider draw, processing
// time draw, failure slowdown draw (failed/pending rows only), retry draw
// (failed rows only). That order is part of the determinism contract.
//
// Returns one EnrichedRecordSpec per input row, same order. Returns an error
// only when the enrichment configuration itself is invalid (weights that do not
// sum to one, a standardized failure reason without a severity, an empty
// mapping table).
//
// This is the spec-level interface using only primitive types.
// See internal.Enrich for the reference implementation.
type Enrich func(records []CleanRecordSpec, config EnrichmentConfigSpec) ([]EnrichedRecordSpec, error)

// EnrichedRecordSpec is a cleaned billing row plus the synthetic business
// dimensions generated by the enrichment stage.
//
// One-to-one with its CleanRecordSpec. Every categorical field below is drawn
// from a closed enumeration; mapping misses route to an explicit fallback value
// ("Other", "none", "Unknown"), never to an empty field.
type EnrichedRecordSpec struct {
	CleanRecordSpec

	// Payment processor handling the attempt, sampled from the per-method
	// weighted table. Unknown or missing methods fall back to "Unknown".
	PaymentProvider string `json:"paymentProvider"`

	// Geographic region inferred from the email domain by ordered substring
	// matching. Pure function of the email; miss → "Other".
	GeoRegion string `json:"geoRegion"`

	// Product tier from the exact plan-name lookup. Miss → "Other".
	ProductTier string `json:"productTier"`

	// Simulated gateway processing latency in seconds, rounded to two decimal
	// places. Sampled log-normally with per-method parameters; unsuccessful
	// rows are inflated by a bounded random slowdown to model retries and
	// timeouts.
	ProcessingTimeS float64 `json:"processingTimeS"`

	// Latency band for ProcessingTimeS: "<1s", "1-3s", "3-10s", ">10s".
	ProcessingTimeBucket string `json:"processingTimeBucket"`

	// Standardized failure reason from the exact-match taxonomy. Successful
	// rows and unmapped reasons map to "none".
	FailureReasonStd string `json:"failureReasonStd"`

	// Severity of the standardized reason: "critical", "high", "medium",
	// "low", or "none". Pure lookup, no randomness.
	FailureSeverity string `json:"failureSeverity"`

	// Lifecycle stage: "new" (at most one payment), "renewal" (active),
	// "churned" (inactive, multiple payments). Pure function.
	SubscriptionType string `json:"subscriptionType"`

	// Retry attempts for the payment: failed rows sample from a weighted
	// distribution over {1, 2, 3}; successful and pending rows are always 0.
	RetryAttempts int `json:"retryAttempts"`
}
