package specs

// EnrichmentConfigSpec defines every mapping table, distribution, and constant
// used by the enrichment stage.
//
// All tables are static configuration data, not runtime parameters: they are
// declared as explicit ordered structures so they can be validated (weights sum
// to one, every failure reason has a severity) independently of the
// transformation logic, and so that weighted sampling iterates entries in a
// stable order regardless of map iteration quirks.
//
// The zero value is not usable; start from DefaultEnrichmentConfigSpec and
// override, or unmarshal a YAML document with the same shape.
type EnrichmentConfigSpec struct {
	// Seed for the enrichment stage's random generator.
	//
	// The same seed and input order reproduce every synthetic field bit for
	// bit. Default: DefaultSeed.
	Seed int64 `json:"seed" yaml:"seed"`

	// Per-payment-method provider distributions, sampled once per row.
	//
	// Weights within one method must sum to 1. Methods absent from the table
	// (and rows with an empty method) use Fallback.
	Providers []ProviderDistributionSpec `json:"providers" yaml:"providers"`

	// Distribution used for unknown or missing payment methods.
	Fallback []WeightedValueSpec `json:"fallback" yaml:"fallback"`

	// Ordered email-domain → region rules; first substring match wins.
	//
	// Order matters: provider domains ("protonmail.com" → CH) must precede the
	// bare TLD suffixes (".com" → US) they would otherwise lose to.
	Regions []RegionRuleSpec `json:"regions" yaml:"regions"`

	// Exact plan-name → product-tier lookup.
	Tiers []TierRuleSpec `json:"tiers" yaml:"tiers"`

	// Exact raw-failure-reason → standardized-reason lookup.
	FailureReasons []FailureRuleSpec `json:"failureReasons" yaml:"failureReasons"`

	// Standardized-reason → severity lookup. Must cover every standardized
	// reason that FailureReasons can produce, plus "none".
	Severities []SeverityRuleSpec `json:"severities" yaml:"severities"`

	// Per-payment-method log-normal latency parameters.
	Latency []LatencyProfileSpec `json:"latency" yaml:"latency"`

	// Log-normal parameters for methods without a latency profile.
	LatencyFallback LogNormalSpec `json:"latencyFallback" yaml:"latencyFallback"`

	// Uniform multiplier range applied to the sampled latency of rows whose
	// payment did not succeed, modelling retries and timeouts.
	FailureSlowdown RangeSpec `json:"failureSlowdown" yaml:"failureSlowdown"`

	// Weighted retry-attempt distribution for failed rows. Weights must sum
	// to 1.
	Retries []WeightedCountSpec `json:"retries" yaml:"retries"`
}

// DefaultSeed is the documented default random seed for enrichment runs.
const DefaultSeed int64 = 42

// ProviderDistributionSpec maps one payment method to a weighted provider
// choice table.
type ProviderDistributionSpec struct {
	// Payment method this distribution applies to, e.g. "credit_card".
	Method string `json:"method" yaml:"method"`

	// Ordered weighted choices. Weights must sum to 1.
	Choices []WeightedValueSpec `json:"choices" yaml:"choices"`
}

// WeightedValueSpec is one entry of a weighted categorical distribution.
type WeightedValueSpec struct {
	Value  string  `json:"value" yaml:"value"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// WeightedCountSpec is one entry of a weighted integer distribution.
type WeightedCountSpec struct {
	Count  int     `json:"count" yaml:"count"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// RegionRuleSpec maps an email-domain fragment to a geographic region.
type RegionRuleSpec struct {
	// Substring matched against the lowercased email. Either a full provider
	// domain ("bluewin.ch") or a TLD suffix (".ch").
	Domain string `json:"domain" yaml:"domain"`

	// Region code assigned on match, e.g. "CH".
	Region string `json:"region" yaml:"region"`
}

// TierRuleSpec maps an exact plan name to a product tier.
type TierRuleSpec struct {
	PlanName string `json:"planName" yaml:"planName"`
	Tier     string `json:"tier" yaml:"tier"`
}

// FailureRuleSpec maps an exact raw failure reason to its standardized form.
type FailureRuleSpec struct {
	Raw string `json:"raw" yaml:"raw"`
	Std string `json:"std" yaml:"std"`
}

// SeverityRuleSpec maps a standardized failure reason to a severity level.
type SeverityRuleSpec struct {
	Reason   string `json:"reason" yaml:"reason"`
	Severity string `json:"severity" yaml:"severity"`
}

// LatencyProfileSpec holds the log-normal latency parameters for one payment
// method.
type LatencyProfileSpec struct {
	Method string  `json:"method" yaml:"method"`
	Mu     float64 `json:"mu" yaml:"mu"`
	Sigma  float64 `json:"sigma" yaml:"sigma"`
}

// LogNormalSpec is a bare (mu, sigma) pair.
type LogNormalSpec struct {
	Mu    float64 `json:"mu" yaml:"mu"`
	Sigma float64 `json:"sigma" yaml:"sigma"`
}

// RangeSpec is a closed interval [Min, Max] for uniform sampling.
type RangeSpec struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultEnrichmentConfigSpec returns the documented default enrichment tables.
//
// Provider shares, latency parameters, and retry weights model observed
// gateway behavior: cards clear fastest and mostly through Stripe, bank
// transfers are slow and split across SEPA rails, and failed payments skew
// toward a single retry.
func DefaultEnrichmentConfigSpec() EnrichmentConfigSpec {
	return EnrichmentConfigSpec{
		Seed: DefaultSeed,
		Providers: []ProviderDistributionSpec{
			{Method: "credit_card", Choices: []WeightedValueSpec{
				{Value: "Stripe", Weight: 0.60},
				{Value: "CardDirect", Weight: 0.30},
				{Value: "Adyen", Weight: 0.10},
			}},
			{Method: "debit_card", Choices: []WeightedValueSpec{
				{Value: "Stripe", Weight: 0.50},
				{Value: "CardDirect", Weight: 0.40},
				{Value: "Adyen", Weight: 0.10},
			}},
			{Method: "paypal", Choices: []WeightedValueSpec{
				{Value: "PayPal", Weight: 1.0},
			}},
			{Method: "bank_transfer", Choices: []WeightedValueSpec{
				{Value: "SEPA", Weight: 0.60},
				{Value: "Wire", Weight: 0.30},
				{Value: "ACH", Weight: 0.10},
			}},
			{Method: "other", Choices: []WeightedValueSpec{
				{Value: "Crypto", Weight: 0.70},
				{Value: "Other", Weight: 0.30},
			}},
		},
		Fallback: []WeightedValueSpec{
			{Value: "Unknown", Weight: 1.0},
		},
		Regions: []RegionRuleSpec{
			// Provider domains first; TLD suffixes would shadow them.
			{Domain: "t-online.de", Region: "DE"},
			{Domain: "web.de", Region: "DE"},
			{Domain: "orange.fr", Region: "FR"},
			{Domain: "libero.it", Region: "IT"},
			{Domain: "bluewin.ch", Region: "CH"},
			{Domain: "protonmail.com", Region: "CH"},
			{Domain: "gmail.com", Region: "US"},
			{Domain: "outlook.com", Region: "US"},
			{Domain: "yahoo.com", Region: "US"},
			{Domain: "hotmail.com", Region: "US"},
			{Domain: "aol.com", Region: "US"},
			{Domain: "icloud.com", Region: "US"},
			{Domain: "fastmail.com", Region: "US"},
			{Domain: "naver.com", Region: "KR"},
			{Domain: "163.com", Region: "CN"},
			{Domain: "rambler.ru", Region: "RU"},

			// Europe.
			{Domain: ".de", Region: "DE"},
			{Domain: ".fr", Region: "FR"},
			{Domain: ".it", Region: "IT"},
			{Domain: ".es", Region: "ES"},
			{Domain: ".ch", Region: "CH"},
			{Domain: ".nl", Region: "NL"},
			{Domain: ".pt", Region: "PT"},
			{Domain: ".uk", Region: "GB"},
			{Domain: ".ie", Region: "IE"},
			{Domain: ".dk", Region: "DK"},
			{Domain: ".at", Region: "AT"},
			{Domain: ".be", Region: "BE"},

			// Americas.
			{Domain: ".com", Region: "US"},
			{Domain: ".us", Region: "US"},
			{Domain: ".ca", Region: "CA"},
			{Domain: ".mx", Region: "MX"},
			{Domain: ".br", Region: "BR"},
			{Domain: ".ar", Region: "AR"},
			{Domain: ".cl", Region: "CL"},
			{Domain: ".co", Region: "CO"},
			{Domain: ".pe", Region: "PE"},

			// Asia Pacific.
			{Domain: ".jp", Region: "JP"},
			{Domain: ".sg", Region: "SG"},
			{Domain: ".au", Region: "AU"},
			{Domain: ".nz", Region: "NZ"},
			{Domain: ".kr", Region: "KR"},
			{Domain: ".cn", Region: "CN"},
			{Domain: ".in", Region: "IN"},
			{Domain: ".vn", Region: "VN"},

			// Others.
			{Domain: ".ru", Region: "RU"},
			{Domain: ".edu", Region: "US"},
			{Domain: ".ma", Region: "MA"},
			{Domain: ".za", Region: "ZA"},
		},
		Tiers: []TierRuleSpec{
			{PlanName: "Monthly Basic", Tier: "Mail Plus"},
			{PlanName: "Monthly Basic Plan", Tier: "Mail Plus"},
			{PlanName: "Quarterly Standard", Tier: "Drive Plus"},
			{PlanName: "Quarterly Standard Plan", Tier: "Drive Plus"},
			{PlanName: "Quarterly Premium", Tier: "Unlimited"},
			{PlanName: "Quarterly Premium Plan", Tier: "Unlimited"},
			{PlanName: "Yearly Lite", Tier: "VPN Plus"},
			{PlanName: "Yearly Lite Plan", Tier: "VPN Plus"},
			{PlanName: "Yearly Enterprise", Tier: "Proton for Business"},
			{PlanName: "Yearly Enterprise Plan", Tier: "Proton for Business"},
			{PlanName: "Weekly Access", Tier: "VPN Plus"},
			{PlanName: "Weekly Student", Tier: "VPN Plus"},
			{PlanName: "Weekly Lite Plan", Tier: "VPN Plus"},
		},
		FailureReasons: []FailureRuleSpec{
			{Raw: "Insufficient funds", Std: "insufficient_funds"},
			{Raw: "Insufficient funds on account", Std: "insufficient_funds"},
			{Raw: "Card expired", Std: "card_expired"},
			{Raw: "Card declined", Std: "card_declined"},
			{Raw: "Payment gateway error", Std: "gateway_error"},
			{Raw: "Awaiting bank authorization", Std: "pending_authorization"},
			{Raw: "Awaiting confirmation", Std: "pending_authorization"},
			{Raw: "Processing delay", Std: "processing_delay"},
			{Raw: "Bank account closed", Std: "account_closed"},
		},
		Severities: []SeverityRuleSpec{
			{Reason: "account_closed", Severity: "critical"},
			{Reason: "insufficient_funds", Severity: "high"},
			{Reason: "card_expired", Severity: "high"},
			{Reason: "card_declined", Severity: "high"},
			{Reason: "gateway_error", Severity: "medium"},
			{Reason: "processing_delay", Severity: "low"},
			{Reason: "pending_authorization", Severity: "low"},
			{Reason: "none", Severity: "none"},
		},
		Latency: []LatencyProfileSpec{
			{Method: "credit_card", Mu: 0.5, Sigma: 0.6},
			{Method: "debit_card", Mu: 0.5, Sigma: 0.6},
			{Method: "paypal", Mu: 1.0, Sigma: 0.5},
			{Method: "bank_transfer", Mu: 2.0, Sigma: 0.7},
			{Method: "other", Mu: 2.5, Sigma: 0.8},
		},
		LatencyFallback: LogNormalSpec{Mu: 1.0, Sigma: 0.5},
		FailureSlowdown: RangeSpec{Min: 1.5, Max: 3.0},
		Retries: []WeightedCountSpec{
			{Count: 1, Weight: 0.5},
			{Count: 2, Weight: 0.3},
			{Count: 3, Weight: 0.2},
		},
	}
}
