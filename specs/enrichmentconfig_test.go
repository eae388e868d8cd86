package specs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEnrichmentConfigSpec(t *testing.T) {
	t.Run("uses the documented default seed", func(t *testing.T) {
		cfg := DefaultEnrichmentConfigSpec()

		assert.Equal(t, int64(42), cfg.Seed)
		assert.Equal(t, DefaultSeed, cfg.Seed)
	})

	t.Run("every provider distribution sums to one", func(t *testing.T) {
		cfg := DefaultEnrichmentConfigSpec()

		require.NotEmpty(t, cfg.Providers)
		for _, dist := range cfg.Providers {
			total := 0.0
			for _, c := range dist.Choices {
				total += c.Weight
			}
			assert.InDelta(t, 1.0, total, 1e-9, "method %s", dist.Method)
		}
	})

	t.Run("retry weights sum to one", func(t *testing.T) {
		cfg := DefaultEnrichmentConfigSpec()

		total := 0.0
		for _, r := range cfg.Retries {
			total += r.Weight
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	})

	t.Run("every standardized failure reason has a severity", func(t *testing.T) {
		cfg := DefaultEnrichmentConfigSpec()

		severities := make(map[string]bool)
		for _, s := range cfg.Severities {
			severities[s.Reason] = true
		}

		for _, f := range cfg.FailureReasons {
			assert.True(t, severities[f.Std], "reason %q has no severity", f.Std)
		}
		assert.True(t, severities["none"], "successful rows need the none severity")
	})

	t.Run("provider domains precede the TLD suffixes that shadow them", func(t *testing.T) {
		cfg := DefaultEnrichmentConfigSpec()

		index := func(domain string) int {
			for i, r := range cfg.Regions {
				if r.Domain == domain {
					return i
				}
			}
			return -1
		}

		// protonmail.com must win over ".com", bluewin.ch over ".ch".
		require.GreaterOrEqual(t, index("protonmail.com"), 0)
		assert.Less(t, index("protonmail.com"), index(".com"))
		assert.Less(t, index("bluewin.ch"), index(".ch"))
	})
}

func TestDefaultMetricsConfigSpec(t *testing.T) {
	t.Run("weeks per month defaults to the documented approximation", func(t *testing.T) {
		cfg := DefaultMetricsConfigSpec()

		assert.Equal(t, "4.345", cfg.WeeksPerMonth)
	})
}
