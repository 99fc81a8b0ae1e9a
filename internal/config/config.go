// Package config parses and validates the runtime configuration of the
// autonomy core: run mode, executor mode, capability flags, and the
// ambient logging/execution/limits settings that ship alongside it.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"reflexcore/internal/logging"

	"gopkg.in/yaml.v3"
)

// RunMode is the overall deployment posture.
type RunMode string

const (
	RunModeProduction RunMode = "production"
	RunModeDev        RunMode = "dev"
	RunModeGolden     RunMode = "golden"
)

// ExecutorMode selects whether actuator dispatch actually happens.
type ExecutorMode string

const (
	ExecutorModeShadow ExecutorMode = "shadow"
	ExecutorModeLive   ExecutorMode = "live"
)

// liveConfirmSentinel is the exact value EXECUTOR_LIVE_CONFIRM must carry to
// arm live mode. Anything else (including unset) downgrades to shadow.
const liveConfirmSentinel = "I_UNDERSTAND_THIS_DISPATCHES_LIVE_ACTIONS"

// PlanningRuntimeConfig is the validated, immutable-after-construction
// configuration for the planning core. It is computed exactly once at
// startup by Load and passed to constructors; ResetForTest exists only for
// test isolation.
type PlanningRuntimeConfig struct {
	RunMode      RunMode      `yaml:"run_mode" json:"run_mode"`
	ExecutorMode ExecutorMode `yaml:"executor_mode" json:"executor_mode"`

	ExecutorEnabled     bool `yaml:"executor_enabled" json:"executor_enabled"`
	SkipReadiness       bool `yaml:"skip_readiness" json:"skip_readiness"`
	TaskTypeBridge      bool `yaml:"task_type_bridge" json:"task_type_bridge"`
	LegacyLeafRewrite   bool `yaml:"legacy_leaf_rewrite" json:"legacy_leaf_rewrite"`
	DevEndpointsEnabled bool `yaml:"-" json:"-"`
	GoldenRunMode       bool `yaml:"-" json:"-"`

	// LiveArmed is true only when executor_mode=live AND the operator set
	// EXECUTOR_LIVE_CONFIRM to the exact sentinel value. If false while
	// ExecutorMode is live, the gateway must downgrade dispatch to shadow.
	LiveArmed bool `yaml:"-" json:"-"`

	// Digest is the 16-hex-char SHA-256 content digest over the allowlisted
	// canonical subset, computed once by Load.
	Digest string `yaml:"-" json:"digest"`

	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Execution  ExecutionConfig  `yaml:"execution" json:"execution"`
	CoreLimits CoreLimits       `yaml:"core_limits" json:"core_limits"`
}

// DefaultPlanningRuntimeConfig returns conservative defaults: dev run mode,
// shadow executor, no capability flags armed.
func DefaultPlanningRuntimeConfig() *PlanningRuntimeConfig {
	return &PlanningRuntimeConfig{
		RunMode:      RunModeDev,
		ExecutorMode: ExecutorModeShadow,

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},

		Execution: ExecutionConfig{
			DefaultTimeout:   "30s",
			WorkingDirectory: ".",
		},

		CoreLimits: CoreLimits{
			MaxAccumulators:       50,
			AccumulatorTTLMin:     30,
			MaxLifecycleEvents:    500,
			MaxConcurrentFirings:  4,
			MaxSessionDurationMin: 120,
		},
	}
}

var (
	loadOnce      sync.Once
	loadedConfig  *PlanningRuntimeConfig
	loadErr       error
)

// Load reads PlanningRuntimeConfig from environment variables, validates the
// forbidden-combination invariants, and computes the content digest. It is
// idempotent per process: subsequent calls return the first computed value.
// Use ResetForTest to force recomputation in tests.
func Load() (*PlanningRuntimeConfig, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = loadFromEnv()
	})
	return loadedConfig, loadErr
}

// ResetForTest clears the cached config so the next Load call recomputes
// from the current environment. Test use only.
func ResetForTest() {
	loadOnce = sync.Once{}
	loadedConfig = nil
	loadErr = nil
}

func loadFromEnv() (*PlanningRuntimeConfig, error) {
	cfg := DefaultPlanningRuntimeConfig()

	if v := os.Getenv("PLANNING_RUN_MODE"); v != "" {
		cfg.RunMode = RunMode(v)
	}
	if v := os.Getenv("EXECUTOR_MODE"); v != "" {
		cfg.ExecutorMode = ExecutorMode(v)
	}
	cfg.ExecutorEnabled = envBool("ENABLE_PLANNING_EXECUTOR")
	cfg.SkipReadiness = envBool("EXECUTOR_SKIP_READINESS")
	cfg.TaskTypeBridge = envBool("ENABLE_TASK_TYPE_BRIDGE")
	cfg.LegacyLeafRewrite = envBool("STERLING_LEGACY_LEAF_REWRITE_ENABLED")
	cfg.DevEndpointsEnabled = envBool("ENABLE_DEV_ENDPOINTS")
	cfg.GoldenRunMode = envBool("GOLDEN_RUN_MODE")

	if cfg.GoldenRunMode {
		cfg.RunMode = RunModeGolden
	}

	cfg.LiveArmed = cfg.ExecutorMode == ExecutorModeLive &&
		os.Getenv("EXECUTOR_LIVE_CONFIRM") == liveConfirmSentinel

	// Validate the operator-declared executor_mode before the arming
	// downgrade below can replace it with shadow. A forbidden combination
	// (e.g. live + skip_readiness) must fail startup even when the operator
	// never armed live mode — downgrading first would silently mask it.
	if err := cfg.Validate(); err != nil {
		logging.BootError("runtime configuration violation: %v", err)
		return nil, err
	}

	if cfg.ExecutorMode == ExecutorModeLive && !cfg.LiveArmed {
		logging.BootWarn("EXECUTOR_MODE=live but EXECUTOR_LIVE_CONFIRM missing or mismatched; downgrading to shadow")
		cfg.ExecutorMode = ExecutorModeShadow
	}

	cfg.Digest = cfg.computeDigest()
	logging.Boot("%s", buildPlanningBanner(cfg))

	return cfg, nil
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true" || v == "yes"
}

// Validate enforces the forbidden-combination invariants. It is also called
// internally by Load, but is exported so integration tests can construct a
// config by hand and check it without a process environment.
func (c *PlanningRuntimeConfig) Validate() error {
	if c.ExecutorMode == ExecutorModeLive {
		if c.SkipReadiness {
			return fmt.Errorf("forbidden configuration: executor_mode=live requires skip_readiness=false")
		}
		if c.TaskTypeBridge {
			return fmt.Errorf("forbidden configuration: executor_mode=live requires task_type_bridge=false")
		}
	}

	if c.SkipReadiness {
		if !c.DevEndpointsEnabled && !c.GoldenRunMode {
			return fmt.Errorf("forbidden configuration: skip_readiness=true requires dev-endpoints or golden-run mode")
		}
		if c.RunMode == RunModeProduction {
			return fmt.Errorf("forbidden configuration: skip_readiness=true MUST NOT be combined with production run mode")
		}
	}

	if c.TaskTypeBridge {
		if c.ExecutorMode != ExecutorModeShadow {
			return fmt.Errorf("forbidden configuration: task_type_bridge=true requires shadow executor mode")
		}
		if !c.DevEndpointsEnabled && !c.GoldenRunMode {
			return fmt.Errorf("forbidden configuration: task_type_bridge=true requires dev or golden run mode")
		}
	}

	return nil
}

// digestKeys is the allowlisted, order-stable key set over which the content
// digest is computed. Secret-bearing or non-semantic fields are excluded.
var digestKeys = []string{
	"run_mode",
	"executor_mode",
	"executor_enabled",
	"skip_readiness",
	"task_type_bridge",
	"legacy_leaf_rewrite",
}

func (c *PlanningRuntimeConfig) digestSubset() map[string]interface{} {
	return map[string]interface{}{
		"run_mode":            string(c.RunMode),
		"executor_mode":       string(c.ExecutorMode),
		"executor_enabled":    c.ExecutorEnabled,
		"skip_readiness":      c.SkipReadiness,
		"task_type_bridge":    c.TaskTypeBridge,
		"legacy_leaf_rewrite": c.LegacyLeafRewrite,
	}
}

// computeDigest returns the truncated SHA-256 hex digest (16 chars) over the
// canonical (sorted-key) JSON encoding of the allowlisted subset.
func (c *PlanningRuntimeConfig) computeDigest() string {
	subset := c.digestSubset()
	keys := make([]string, 0, len(subset))
	for k := range subset {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	canonical := make(map[string]interface{}, len(subset))
	for _, k := range keys {
		canonical[k] = subset[k]
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// buildPlanningBanner formats a single-line key=value startup banner so
// every golden-run artifact self-describes its configuration.
func buildPlanningBanner(c *PlanningRuntimeConfig) string {
	return fmt.Sprintf(
		"planning_runtime run_mode=%s executor_mode=%s live_armed=%v skip_readiness=%v task_type_bridge=%v legacy_leaf_rewrite=%v digest=%s",
		c.RunMode, c.ExecutorMode, c.LiveArmed, c.SkipReadiness, c.TaskTypeBridge, c.LegacyLeafRewrite, c.Digest,
	)
}

// BuildPlanningBanner is the exported form for callers outside this package
// (e.g. cmd/reflexctl) that want to print the banner without re-deriving it.
func BuildPlanningBanner(c *PlanningRuntimeConfig) string {
	return buildPlanningBanner(c)
}

// LoadFile optionally layers ambient (non-capability) settings — logging,
// execution sandbox, core limits — from a YAML file on top of the env
// derived PlanningRuntimeConfig. Capability flags (run mode, executor mode,
// forbidden combinations) are never sourced from file, only environment.
func LoadFile(cfg *PlanningRuntimeConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file struct {
		Logging    LoggingConfig   `yaml:"logging"`
		Execution  ExecutionConfig `yaml:"execution"`
		CoreLimits CoreLimits      `yaml:"core_limits"`
	}
	// Start from the current values so settings absent from the file keep them.
	file.Logging, file.Execution, file.CoreLimits = cfg.Logging, cfg.Execution, cfg.CoreLimits
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Logging = file.Logging
	cfg.Execution = file.Execution
	cfg.CoreLimits = file.CoreLimits
	return nil
}

// Save persists the ambient (non-capability) portion of the config for
// inspection/reproduction. Capability flags are intentionally omitted —
// they are env-derived and must not be silently restored from disk.
func (c *PlanningRuntimeConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := struct {
		Logging    LoggingConfig   `yaml:"logging"`
		Execution  ExecutionConfig `yaml:"execution"`
		CoreLimits CoreLimits      `yaml:"core_limits"`
	}{c.Logging, c.Execution, c.CoreLimits}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// GetExecutionTimeout returns the default execution timeout as a duration.
func (c *PlanningRuntimeConfig) GetExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.DefaultTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AccumulatorTTL returns the accumulator eviction TTL as a duration.
func (c *PlanningRuntimeConfig) AccumulatorTTL() time.Duration {
	return time.Duration(c.CoreLimits.AccumulatorTTLMin) * time.Minute
}
