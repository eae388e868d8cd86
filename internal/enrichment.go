package internal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/chrisconley/payflow/specs"
)

// Processing latency bands.
const (
	LatencyUnder1s = "<1s"
	Latency1To3s   = "1-3s"
	Latency3To10s  = "3-10s"
	LatencyOver10s = ">10s"
)

// Subscription lifecycle stages.
const (
	SubscriptionNew     = "new"
	SubscriptionRenewal = "renewal"
	SubscriptionChurned = "churned"
)

// Enrich implements specs.Enrich.
// Converts the config spec to a validated domain object, then applies every
// enrichment rule to each record in order.
//
// The seeded generator is constructed here from the config seed and threaded
// explicitly through every sampling rule, never ambient random state, so the
// same seed and input order reproduce the batch bit for bit. Rules consume
// randomness in a fixed per-record order: provider draw, latency draw, failure
// slowdown draw (unsuccessful rows), retry draw (failed rows).
func Enrich(records []specs.CleanRecordSpec, configSpec specs.EnrichmentConfigSpec) ([]specs.EnrichedRecordSpec, error) {
	config, err := NewEnrichmentConfig(configSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rng := rand.New(rand.NewSource(config.Seed()))

	enriched := make([]specs.EnrichedRecordSpec, len(records))
	for i, record := range records {
		enriched[i] = enrichRecord(record, config, rng)
	}
	return enriched, nil
}

// enrichRecord applies the synthetic dimension rules to one record. Each rule
// reads only the record's fields, the config tables, and the supplied
// generator; every enumerated output is populated on every path.
func enrichRecord(record specs.CleanRecordSpec, config EnrichmentConfig, rng *rand.Rand) specs.EnrichedRecordSpec {
	enriched := specs.EnrichedRecordSpec{CleanRecordSpec: record}

	// Provider: weighted choice per payment method; unknown methods use the
	// fallback distribution.
	enriched.PaymentProvider = pickValue(config.ProviderChoices(record.PaymentMethod), rng)

	// Region and tier are pure table lookups.
	enriched.GeoRegion = config.Region(record.CustomerEmail)
	enriched.ProductTier = config.Tier(record.PlanName)

	// Latency: log-normal by method, inflated for unsuccessful payments to
	// model retries and timeouts.
	seconds := sampleProcessingTime(config.LatencyProfile(record.PaymentMethod), record.IsSuccess, config.FailureSlowdown(), rng)
	enriched.ProcessingTimeS = seconds
	enriched.ProcessingTimeBucket = latencyBucket(seconds)

	// Failure taxonomy: successful rows carry no reason, so the absent-reason
	// branch maps them to none. Severity is a pure function of the
	// standardized reason.
	enriched.FailureReasonStd = config.StandardizeFailure(record.PaymentFailureReason)
	enriched.FailureSeverity = config.Severity(enriched.FailureReasonStd)

	enriched.SubscriptionType = subscriptionType(record.TotalPayments, record.IsActive)

	// Only failed payments accrue retries; pending rows are still awaiting
	// their first response.
	if record.PaymentStatus == StatusFailed {
		enriched.RetryAttempts = pickCount(config.Retries(), rng)
	}

	return enriched
}

// sampleProcessingTime draws a latency in seconds from the method's log-normal
// profile, applies the uniform failure slowdown for unsuccessful payments, and
// rounds to two decimal places.
func sampleProcessingTime(profile specs.LogNormalSpec, isSuccess bool, slowdown specs.RangeSpec, rng *rand.Rand) float64 {
	seconds := math.Exp(profile.Mu + profile.Sigma*rng.NormFloat64())
	if !isSuccess {
		seconds *= slowdown.Min + rng.Float64()*(slowdown.Max-slowdown.Min)
	}
	return math.Round(seconds*100) / 100
}

// latencyBucket assigns the fixed latency band for a duration in seconds.
func latencyBucket(seconds float64) string {
	switch {
	case seconds <= 1:
		return LatencyUnder1s
	case seconds <= 3:
		return Latency1To3s
	case seconds <= 10:
		return Latency3To10s
	default:
		return LatencyOver10s
	}
}

// subscriptionType infers the lifecycle stage. Pure function: at most one
// payment is a new subscription, an active one with more is a renewal,
// anything else has churned.
func subscriptionType(totalPayments int, isActive bool) string {
	switch {
	case totalPayments <= 1:
		return SubscriptionNew
	case isActive:
		return SubscriptionRenewal
	default:
		return SubscriptionChurned
	}
}

// pickValue samples one entry from an ordered weighted distribution.
// Consumes exactly one draw. The constructor has already verified the weights
// sum to 1; the final entry absorbs any floating-point remainder.
func pickValue(choices weightedValues, rng *rand.Rand) string {
	r := rng.Float64()
	cumulative := 0.0
	for _, choice := range choices {
		cumulative += choice.Weight
		if r < cumulative {
			return choice.Value
		}
	}
	return choices[len(choices)-1].Value
}

// pickCount samples one entry from an ordered weighted integer distribution.
func pickCount(choices []specs.WeightedCountSpec, rng *rand.Rand) int {
	r := rng.Float64()
	cumulative := 0.0
	for _, choice := range choices {
		cumulative += choice.Weight
		if r < cumulative {
			return choice.Count
		}
	}
	return choices[len(choices)-1].Count
}
