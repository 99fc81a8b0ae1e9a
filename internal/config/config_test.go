package config

import (
	"testing"
)

func TestDefaultPlanningRuntimeConfig(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	if cfg.RunMode != RunModeDev {
		t.Errorf("expected RunMode=dev, got %s", cfg.RunMode)
	}
	if cfg.ExecutorMode != ExecutorModeShadow {
		t.Errorf("expected ExecutorMode=shadow, got %s", cfg.ExecutorMode)
	}
	if cfg.CoreLimits.MaxAccumulators != 50 {
		t.Errorf("expected MaxAccumulators=50, got %d", cfg.CoreLimits.MaxAccumulators)
	}
	if cfg.CoreLimits.MaxLifecycleEvents != 500 {
		t.Errorf("expected MaxLifecycleEvents=500, got %d", cfg.CoreLimits.MaxLifecycleEvents)
	}
}

func TestLoad_EnvDriven(t *testing.T) {
	ResetForTest()
	t.Setenv("PLANNING_RUN_MODE", "dev")
	t.Setenv("EXECUTOR_MODE", "shadow")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunMode != RunModeDev {
		t.Errorf("expected dev run mode, got %s", cfg.RunMode)
	}
	if cfg.Digest == "" || len(cfg.Digest) != 16 {
		t.Errorf("expected 16-char digest, got %q", cfg.Digest)
	}
}

func TestLoad_LiveWithoutConfirmDowngradesToShadow(t *testing.T) {
	ResetForTest()
	t.Setenv("PLANNING_RUN_MODE", "dev")
	t.Setenv("EXECUTOR_MODE", "live")
	t.Setenv("EXECUTOR_LIVE_CONFIRM", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExecutorMode != ExecutorModeShadow {
		t.Errorf("expected downgrade to shadow without confirmation, got %s", cfg.ExecutorMode)
	}
	if cfg.LiveArmed {
		t.Error("expected LiveArmed=false without confirmation")
	}
}

func TestLoad_LiveWithConfirmArms(t *testing.T) {
	ResetForTest()
	t.Setenv("PLANNING_RUN_MODE", "dev")
	t.Setenv("EXECUTOR_MODE", "live")
	t.Setenv("EXECUTOR_LIVE_CONFIRM", liveConfirmSentinel)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExecutorMode != ExecutorModeLive {
		t.Errorf("expected live mode to stay armed, got %s", cfg.ExecutorMode)
	}
	if !cfg.LiveArmed {
		t.Error("expected LiveArmed=true with matching confirmation sentinel")
	}
}

func TestLoad_ForbiddenComboFailsEvenWithoutLiveConfirm(t *testing.T) {
	ResetForTest()
	t.Setenv("PLANNING_RUN_MODE", "dev")
	t.Setenv("EXECUTOR_MODE", "live")
	t.Setenv("EXECUTOR_LIVE_CONFIRM", "")
	t.Setenv("EXECUTOR_SKIP_READINESS", "true")

	// live + skip_readiness is a forbidden combination regardless of whether
	// EXECUTOR_LIVE_CONFIRM is set — the arming downgrade must not run first
	// and mask it by rewriting executor_mode to shadow before validation.
	_, err := Load()
	if err == nil {
		t.Fatal("expected startup to fail on live+skip_readiness even though live mode would be downgraded to shadow")
	}
}

func TestValidate_ForbiddenLiveSkipReadiness(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	cfg.ExecutorMode = ExecutorModeLive
	cfg.SkipReadiness = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for live+skip_readiness")
	}
}

func TestValidate_ForbiddenLiveBridge(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	cfg.ExecutorMode = ExecutorModeLive
	cfg.TaskTypeBridge = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for live+task_type_bridge")
	}
}

func TestValidate_ForbiddenProductionSkipReadiness(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	cfg.RunMode = RunModeProduction
	cfg.SkipReadiness = true
	cfg.DevEndpointsEnabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for production+skip_readiness")
	}
}

func TestValidate_SkipReadinessRequiresDevOrGolden(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	cfg.SkipReadiness = true
	cfg.DevEndpointsEnabled = false
	cfg.GoldenRunMode = false
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when skip_readiness lacks dev/golden")
	}
}

func TestValidate_BridgeRequiresShadowAndDevOrGolden(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	cfg.TaskTypeBridge = true
	cfg.ExecutorMode = ExecutorModeShadow
	cfg.DevEndpointsEnabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}

	cfg.DevEndpointsEnabled = false
	cfg.GoldenRunMode = false
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when bridge lacks dev/golden")
	}
}

func TestComputeDigest_Deterministic(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	cfg.RunMode = RunModeGolden
	cfg.ExecutorMode = ExecutorModeShadow

	d1 := cfg.computeDigest()
	d2 := cfg.computeDigest()
	if d1 != d2 {
		t.Errorf("expected deterministic digest, got %s vs %s", d1, d2)
	}
	if len(d1) != 16 {
		t.Errorf("expected 16-char digest, got %d chars", len(d1))
	}
}

func TestComputeDigest_ChangesWithCapability(t *testing.T) {
	cfg1 := DefaultPlanningRuntimeConfig()
	cfg2 := DefaultPlanningRuntimeConfig()
	cfg2.SkipReadiness = true

	if cfg1.computeDigest() == cfg2.computeDigest() {
		t.Error("expected digest to change when a capability flag changes")
	}
}

func TestBuildPlanningBanner_IsSingleLine(t *testing.T) {
	cfg := DefaultPlanningRuntimeConfig()
	cfg.Digest = cfg.computeDigest()
	banner := BuildPlanningBanner(cfg)

	if banner == "" {
		t.Fatal("expected non-empty banner")
	}
	for _, r := range banner {
		if r == '\n' {
			t.Error("banner must be a single line")
		}
	}
}

func TestCoreLimits_Validate(t *testing.T) {
	limits := CoreLimits{
		MaxAccumulators:      50,
		AccumulatorTTLMin:    30,
		MaxLifecycleEvents:   500,
		MaxConcurrentFirings: 4,
	}
	if err := limits.Validate(); err != nil {
		t.Errorf("expected valid limits, got: %v", err)
	}

	limits.MaxAccumulators = 51
	if err := limits.Validate(); err == nil {
		t.Error("expected error for max_accumulators > 50")
	}
}
