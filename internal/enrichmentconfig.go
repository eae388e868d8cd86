package internal

import (
	"fmt"
	"math"
	"strings"

	"github.com/chrisconley/payflow/specs"
)

// Failure severity levels.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityNone     = "none"
)

// FailureNone is the standardized reason for rows without a mapped failure.
const FailureNone = "none"

// RegionOther and TierOther are the mapping-miss fallbacks. A miss routes to an
// explicit enumerated value, never to an empty field.
const (
	RegionOther = "Other"
	TierOther   = "Other"
)

// weightTolerance is how far a distribution's weights may drift from 1.
const weightTolerance = 1e-9

// EnrichmentConfig is the validated domain form of an enrichment
// configuration.
//
// Constructed once per run; validation failures are configuration defects and
// abort before any record is touched. Tables keep their declared entry order so
// that weighted sampling and first-match-wins region rules are reproducible.
type EnrichmentConfig struct {
	seed            int64
	providers       map[string]weightedValues
	fallback        weightedValues
	regions         []specs.RegionRuleSpec
	tiers           map[string]string
	failures        map[string]string
	severities      map[string]string
	latency         map[string]specs.LogNormalSpec
	latencyFallback specs.LogNormalSpec
	failureSlowdown specs.RangeSpec
	retries         []specs.WeightedCountSpec
}

// weightedValues is an ordered weighted categorical distribution.
type weightedValues []specs.WeightedValueSpec

func NewEnrichmentConfig(spec specs.EnrichmentConfigSpec) (EnrichmentConfig, error) {
	if len(spec.Providers) == 0 {
		return EnrichmentConfig{}, fmt.Errorf("at least one provider distribution is required")
	}

	providers := make(map[string]weightedValues, len(spec.Providers))
	for _, dist := range spec.Providers {
		if dist.Method == "" {
			return EnrichmentConfig{}, fmt.Errorf("provider distribution has empty method")
		}
		if _, dup := providers[dist.Method]; dup {
			return EnrichmentConfig{}, fmt.Errorf("duplicate provider distribution for method %q", dist.Method)
		}
		if err := validateWeights(dist.Choices); err != nil {
			return EnrichmentConfig{}, fmt.Errorf("provider distribution %q: %w", dist.Method, err)
		}
		providers[dist.Method] = dist.Choices
	}

	if err := validateWeights(spec.Fallback); err != nil {
		return EnrichmentConfig{}, fmt.Errorf("fallback distribution: %w", err)
	}

	if len(spec.Regions) == 0 {
		return EnrichmentConfig{}, fmt.Errorf("at least one region rule is required")
	}
	for i, rule := range spec.Regions {
		if rule.Domain == "" || rule.Region == "" {
			return EnrichmentConfig{}, fmt.Errorf("region rule %d: domain and region are required", i)
		}
	}

	if len(spec.Tiers) == 0 {
		return EnrichmentConfig{}, fmt.Errorf("at least one tier rule is required")
	}
	tiers := make(map[string]string, len(spec.Tiers))
	for _, rule := range spec.Tiers {
		if rule.PlanName == "" || rule.Tier == "" {
			return EnrichmentConfig{}, fmt.Errorf("tier rule for %q: plan name and tier are required", rule.PlanName)
		}
		if _, dup := tiers[rule.PlanName]; dup {
			return EnrichmentConfig{}, fmt.Errorf("duplicate tier rule for plan %q", rule.PlanName)
		}
		tiers[rule.PlanName] = rule.Tier
	}

	if len(spec.FailureReasons) == 0 {
		return EnrichmentConfig{}, fmt.Errorf("at least one failure reason rule is required")
	}
	failures := make(map[string]string, len(spec.FailureReasons))
	for _, rule := range spec.FailureReasons {
		if rule.Raw == "" || rule.Std == "" {
			return EnrichmentConfig{}, fmt.Errorf("failure rule for %q: raw and std are required", rule.Raw)
		}
		failures[rule.Raw] = rule.Std
	}

	severities := make(map[string]string, len(spec.Severities))
	for _, rule := range spec.Severities {
		switch rule.Severity {
		case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityNone:
		default:
			return EnrichmentConfig{}, fmt.Errorf("invalid severity %q for reason %q", rule.Severity, rule.Reason)
		}
		severities[rule.Reason] = rule.Severity
	}
	// The severity table must be closed over everything the taxonomy can emit.
	for _, std := range failures {
		if _, ok := severities[std]; !ok {
			return EnrichmentConfig{}, fmt.Errorf("standardized reason %q has no severity", std)
		}
	}
	if _, ok := severities[FailureNone]; !ok {
		return EnrichmentConfig{}, fmt.Errorf("severity table must cover %q", FailureNone)
	}

	latency := make(map[string]specs.LogNormalSpec, len(spec.Latency))
	for _, profile := range spec.Latency {
		if profile.Sigma <= 0 {
			return EnrichmentConfig{}, fmt.Errorf("latency profile %q: sigma must be positive", profile.Method)
		}
		latency[profile.Method] = specs.LogNormalSpec{Mu: profile.Mu, Sigma: profile.Sigma}
	}
	if spec.LatencyFallback.Sigma <= 0 {
		return EnrichmentConfig{}, fmt.Errorf("latency fallback: sigma must be positive")
	}

	if spec.FailureSlowdown.Min <= 0 || spec.FailureSlowdown.Max < spec.FailureSlowdown.Min {
		return EnrichmentConfig{}, fmt.Errorf("failure slowdown range [%v, %v] is invalid",
			spec.FailureSlowdown.Min, spec.FailureSlowdown.Max)
	}

	if len(spec.Retries) == 0 {
		return EnrichmentConfig{}, fmt.Errorf("at least one retry weight is required")
	}
	total := 0.0
	for _, r := range spec.Retries {
		if r.Count < 0 {
			return EnrichmentConfig{}, fmt.Errorf("retry count cannot be negative")
		}
		if r.Weight < 0 {
			return EnrichmentConfig{}, fmt.Errorf("retry weight cannot be negative")
		}
		total += r.Weight
	}
	if math.Abs(total-1) > weightTolerance {
		return EnrichmentConfig{}, fmt.Errorf("retry weights sum to %v, want 1", total)
	}

	return EnrichmentConfig{
		seed:            spec.Seed,
		providers:       providers,
		fallback:        spec.Fallback,
		regions:         spec.Regions,
		tiers:           tiers,
		failures:        failures,
		severities:      severities,
		latency:         latency,
		latencyFallback: spec.LatencyFallback,
		failureSlowdown: spec.FailureSlowdown,
		retries:         spec.Retries,
	}, nil
}

func (c EnrichmentConfig) Seed() int64 {
	return c.seed
}

// ProviderChoices returns the weighted provider table for a payment method, or
// the fallback distribution for unknown and missing methods.
func (c EnrichmentConfig) ProviderChoices(method string) weightedValues {
	if choices, ok := c.providers[method]; ok {
		return choices
	}
	return c.fallback
}

// Region infers the geographic region from an email address by ordered
// substring matching; first match wins, no match is RegionOther.
func (c EnrichmentConfig) Region(email string) string {
	if email == "" {
		return RegionOther
	}
	lowered := strings.ToLower(email)
	for _, rule := range c.regions {
		if strings.Contains(lowered, rule.Domain) {
			return rule.Region
		}
	}
	return RegionOther
}

// Tier maps a plan name to its product tier; a miss is TierOther.
func (c EnrichmentConfig) Tier(planName string) string {
	if tier, ok := c.tiers[planName]; ok {
		return tier
	}
	return TierOther
}

// StandardizeFailure maps a raw failure reason through the taxonomy; absent and
// unmapped reasons are FailureNone.
func (c EnrichmentConfig) StandardizeFailure(raw string) string {
	if raw == "" {
		return FailureNone
	}
	if std, ok := c.failures[raw]; ok {
		return std
	}
	return FailureNone
}

// Severity looks up the severity of a standardized reason. The constructor
// guarantees closure, so the lookup cannot miss for values this config
// produced.
func (c EnrichmentConfig) Severity(std string) string {
	if severity, ok := c.severities[std]; ok {
		return severity
	}
	return SeverityNone
}

// LatencyProfile returns the log-normal parameters for a payment method.
func (c EnrichmentConfig) LatencyProfile(method string) specs.LogNormalSpec {
	if profile, ok := c.latency[method]; ok {
		return profile
	}
	return c.latencyFallback
}

func (c EnrichmentConfig) FailureSlowdown() specs.RangeSpec {
	return c.failureSlowdown
}

func (c EnrichmentConfig) Retries() []specs.WeightedCountSpec {
	return c.retries
}

// validateWeights checks a weighted categorical distribution: non-empty,
// non-empty values, non-negative weights, total within tolerance of 1.
func validateWeights(choices []specs.WeightedValueSpec) error {
	if len(choices) == 0 {
		return fmt.Errorf("distribution is empty")
	}
	total := 0.0
	for _, c := range choices {
		if c.Value == "" {
			return fmt.Errorf("distribution has empty value")
		}
		if c.Weight < 0 {
			return fmt.Errorf("weight for %q cannot be negative", c.Value)
		}
		total += c.Weight
	}
	if math.Abs(total-1) > weightTolerance {
		return fmt.Errorf("weights sum to %v, want 1", total)
	}
	return nil
}
