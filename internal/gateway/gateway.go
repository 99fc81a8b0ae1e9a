package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reflexcore/internal/config"
	"reflexcore/internal/logging"
)

// navScopeKey is the parameter key every dispatch carries so navigation
// leases correlate to the owning task.
const navScopeKey = "__nav.scope"

// retryBaseDelay is the base of the bounded backoff applied to actuator
// HTTP 5xx transport failures.
const retryBaseDelay = 200 * time.Millisecond

// Gateway is the single entry point through which all side-effecting
// actions flow. It tags every dispatch with its origin, injects the
// task-scoped nav lease, and enforces shadow/live gating from the runtime
// configuration computed once at startup.
type Gateway struct {
	cfg        *config.PlanningRuntimeConfig
	actuator   Actuator
	maxRetries int
}

// New constructs a Gateway bound to one actuator and runtime config.
func New(cfg *config.PlanningRuntimeConfig, actuator Actuator) *Gateway {
	retries := cfg.Execution.MaxTransportRetries
	if retries <= 0 {
		retries = 3
	}
	return &Gateway{cfg: cfg, actuator: actuator, maxRetries: retries}
}

// ExecuteTaskViaGateway dispatches on behalf of the executor origin.
// taskId is required at the call site — this wrapper's signature, not the
// gateway's internals, is what makes forgetting it a compile error.
func (g *Gateway) ExecuteTaskViaGateway(ctx context.Context, taskID string, action Action) (Response, error) {
	if taskID == "" {
		return Response{}, fmt.Errorf("executor origin requires a non-empty taskId")
	}
	action.TaskID = taskID
	return g.executeViaGateway(ctx, OriginExecutor, action)
}

// ExecuteReactiveViaGateway dispatches on behalf of the reactive origin.
func (g *Gateway) ExecuteReactiveViaGateway(ctx context.Context, taskID string, action Action) (Response, error) {
	if taskID == "" {
		return Response{}, fmt.Errorf("reactive origin requires a non-empty taskId")
	}
	action.TaskID = taskID
	return g.executeViaGateway(ctx, OriginReactive, action)
}

// ExecuteSafetyViaGateway dispatches on behalf of the safety origin. Safety
// preempts any task in progress and carries no task scope.
func (g *Gateway) ExecuteSafetyViaGateway(ctx context.Context, action Action) (Response, error) {
	action.TaskID = ""
	return g.executeViaGateway(ctx, OriginSafety, action)
}

// ExecuteCognitionViaGateway dispatches on behalf of the cognition origin.
// taskID is optional context, not a requirement.
func (g *Gateway) ExecuteCognitionViaGateway(ctx context.Context, action Action, taskID string) (Response, error) {
	action.TaskID = taskID
	return g.executeViaGateway(ctx, OriginCognition, action)
}

func (g *Gateway) executeViaGateway(ctx context.Context, origin Origin, action Action) (Response, error) {
	if action.Parameters == nil {
		action.Parameters = make(map[string]interface{})
	}
	action.Parameters[navScopeKey] = action.TaskID

	logging.GatewayDebug("dispatch origin=%s type=%s taskId=%s mode=%s", origin, action.Type, action.TaskID, g.cfg.ExecutorMode)

	if g.cfg.ExecutorMode == config.ExecutorModeShadow {
		return Response{OK: true, Outcome: OutcomeShadow}, nil
	}

	if !g.cfg.LiveArmed {
		logging.GatewayWarn("live mode requested but EXECUTOR_LIVE_CONFIRM not armed; downgrading origin=%s type=%s to shadow", origin, action.Type)
		return Response{OK: true, Outcome: OutcomeShadow}, nil
	}

	connected, err := g.actuator.Health(ctx)
	if err != nil || !connected {
		logging.GatewayError("actuator preflight failed: connected=%v err=%v", connected, err)
		return Response{OK: false, Outcome: OutcomeError, Error: "bot_not_connected"}, nil
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		resp, dispatchErr := g.actuator.Dispatch(ctx, action)
		if dispatchErr == nil {
			return resp, nil
		}

		var transportErr *TransportError
		if errors.As(dispatchErr, &transportErr) && transportErr.IsRetryable() {
			lastErr = dispatchErr
			logging.GatewayWarn("transport failure attempt=%d origin=%s type=%s: %v", attempt, origin, action.Type, dispatchErr)

			select {
			case <-ctx.Done():
				return Response{OK: false, Outcome: OutcomeError, Error: "cancelled"}, ctx.Err()
			case <-time.After(retryBaseDelay * time.Duration(attempt+1)):
			}
			continue
		}

		// Refusal (4xx) or any non-transport error: propagate without retry.
		return Response{OK: false, Outcome: OutcomeError, Error: dispatchErr.Error()}, nil
	}

	return Response{OK: false, Outcome: OutcomeError, Error: lastErr.Error()}, nil
}
