package config

import "fmt"

// CoreLimits enforces the bounded-resource invariants of the reflex
// controller and lifecycle event bus.
type CoreLimits struct {
	MaxAccumulators       int `yaml:"max_accumulators" json:"max_accumulators"`                 // bounded accumulator map size
	AccumulatorTTLMin     int `yaml:"accumulator_ttl_min" json:"accumulator_ttl_min"`           // accumulator eviction age
	MaxLifecycleEvents    int `yaml:"max_lifecycle_events" json:"max_lifecycle_events"`         // ring buffer capacity
	MaxConcurrentFirings  int `yaml:"max_concurrent_firings" json:"max_concurrent_firings"`     // parallel reflex evaluations
	MaxSessionDurationMin int `yaml:"max_session_duration_min" json:"max_session_duration_min"` // operator session ceiling
}

// Validate checks that core limits stay within the bounds the controller
// was designed against; values outside these bounds would silently violate
// the accumulator (max 50) and lifecycle buffer (max 500) invariants rather
// than enforce them.
func (c *CoreLimits) Validate() error {
	if c.MaxAccumulators < 1 {
		return fmt.Errorf("max_accumulators must be >= 1")
	}
	if c.MaxAccumulators > 50 {
		return fmt.Errorf("max_accumulators must be <= 50")
	}
	if c.AccumulatorTTLMin < 1 {
		return fmt.Errorf("accumulator_ttl_min must be >= 1")
	}
	if c.MaxLifecycleEvents < 1 {
		return fmt.Errorf("max_lifecycle_events must be >= 1")
	}
	if c.MaxLifecycleEvents > 500 {
		return fmt.Errorf("max_lifecycle_events must be <= 500")
	}
	if c.MaxConcurrentFirings < 1 {
		return fmt.Errorf("max_concurrent_firings must be >= 1")
	}
	return nil
}
