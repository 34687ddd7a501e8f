package sportsdb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigValidate(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() on defaults error = %v", err)
		}
		want := Config{
			APIKey:               DefaultAPIKey,
			CacheTTLDays:         7,
			MaxRequestsPerMinute: 30,
			Enabled:              true,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ZeroValuesGetDefaults", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cfg.APIKey != DefaultAPIKey {
			t.Errorf("APIKey = %q, want %q", cfg.APIKey, DefaultAPIKey)
		}
		if cfg.CacheTTLDays != 7 {
			t.Errorf("CacheTTLDays = %d, want 7", cfg.CacheTTLDays)
		}
		if cfg.MaxRequestsPerMinute != 30 {
			t.Errorf("MaxRequestsPerMinute = %d, want 30", cfg.MaxRequestsPerMinute)
		}
	})

	t.Run("OutOfRangeRejected", func(t *testing.T) {
		for name, cfg := range map[string]Config{
			"TTLTooLow":   {CacheTTLDays: -1},
			"TTLTooHigh":  {CacheTTLDays: 366},
			"NegativeRPM": {MaxRequestsPerMinute: -5},
		} {
			t.Run(name, func(t *testing.T) {
				if err := cfg.Validate(); err == nil {
					t.Errorf("Validate(%+v) error = nil, want range error", cfg)
				}
			})
		}
	})
}
