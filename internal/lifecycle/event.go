// Package lifecycle implements the typed event bus that correlates every
// reflex firing's lifecycle through a bounded in-memory ring buffer.
package lifecycle

import "time"

// EventType is the closed tag discriminating the seven lifecycle event
// variants. Go has no sum types, so exhaustiveness over EventType in a
// switch is a lint-enforced convention here, not a compiler guarantee.
type EventType string

const (
	EventGoalFormulated     EventType = "goal_formulated"
	EventTaskPlanned        EventType = "task_planned"
	EventTaskEnqueued       EventType = "task_enqueued"
	EventTaskEnqueueSkipped EventType = "task_enqueue_skipped"
	EventStepCompleted      EventType = "step_completed"
	EventGoalVerified       EventType = "goal_verified"
	EventGoalClosed         EventType = "goal_closed"
)

// SkipReason is the closed enum carried by TaskEnqueueSkippedEvent.
type SkipReason string

const (
	SkipDeduplicatedExistingTask SkipReason = "deduplicated_existing_task"
	SkipEnqueueException         SkipReason = "enqueue_exception"
	SkipEnqueueReturnedNull       SkipReason = "enqueue_returned_null"
)

// Event is the common interface every lifecycle variant implements. Every
// variant carries the firing's reflexInstanceId and an emission timestamp.
type Event interface {
	Type() EventType
	InstanceID() string
	Timestamp() time.Time
}

// base carries the fields common to all seven variants.
type base struct {
	ReflexInstanceID string
	At               time.Time
}

func (b base) InstanceID() string   { return b.ReflexInstanceID }
func (b base) Timestamp() time.Time { return b.At }

// GoalFormulatedEvent marks the pipeline selecting a candidate and
// constructing a task description.
type GoalFormulatedEvent struct {
	base
	GoalID   string
	GoalKey  string
	NeedType string
	Template string
}

func (GoalFormulatedEvent) Type() EventType { return EventGoalFormulated }

// NewGoalFormulatedEvent constructs a GoalFormulatedEvent stamped with now.
func NewGoalFormulatedEvent(instanceID, goalID, goalKey, needType, template string) GoalFormulatedEvent {
	return GoalFormulatedEvent{
		base:     base{ReflexInstanceID: instanceID, At: time.Now()},
		GoalID:   goalID,
		GoalKey:  goalKey,
		NeedType: needType,
		Template: template,
	}
}

// TaskPlannedEvent fires only in live mode, after goal_formulated.
type TaskPlannedEvent struct {
	base
	GoalID    string
	StepCount int
}

func (TaskPlannedEvent) Type() EventType { return EventTaskPlanned }

// NewTaskPlannedEvent constructs a TaskPlannedEvent stamped with now.
func NewTaskPlannedEvent(instanceID, goalID string, stepCount int) TaskPlannedEvent {
	return TaskPlannedEvent{
		base:      base{ReflexInstanceID: instanceID, At: time.Now()},
		GoalID:    goalID,
		StepCount: stepCount,
	}
}

// TaskEnqueuedEvent records the actuator-assigned task id once dispatch
// lands successfully.
type TaskEnqueuedEvent struct {
	base
	TaskID string
}

func (TaskEnqueuedEvent) Type() EventType { return EventTaskEnqueued }

// NewTaskEnqueuedEvent constructs a TaskEnqueuedEvent stamped with now.
func NewTaskEnqueuedEvent(instanceID, taskID string) TaskEnqueuedEvent {
	return TaskEnqueuedEvent{
		base:   base{ReflexInstanceID: instanceID, At: time.Now()},
		TaskID: taskID,
	}
}

// TaskEnqueueSkippedEvent is terminal for its firing: no further completion
// events can arrive once emitted, and the accumulator is evicted.
type TaskEnqueueSkippedEvent struct {
	base
	Reason SkipReason
}

func (TaskEnqueueSkippedEvent) Type() EventType { return EventTaskEnqueueSkipped }

// NewTaskEnqueueSkippedEvent constructs a TaskEnqueueSkippedEvent stamped with now.
func NewTaskEnqueueSkippedEvent(instanceID string, reason SkipReason) TaskEnqueueSkippedEvent {
	return TaskEnqueueSkippedEvent{
		base:   base{ReflexInstanceID: instanceID, At: time.Now()},
		Reason: reason,
	}
}

// StepCompletedEvent fires zero or more times between enqueue and
// verification, once per completed task step.
type StepCompletedEvent struct {
	base
	StepIndex int
	Leaf      string
	Receipt   map[string]interface{}
}

func (StepCompletedEvent) Type() EventType { return EventStepCompleted }

// NewStepCompletedEvent constructs a StepCompletedEvent stamped with now.
func NewStepCompletedEvent(instanceID string, stepIndex int, leaf string, receipt map[string]interface{}) StepCompletedEvent {
	return StepCompletedEvent{
		base:      base{ReflexInstanceID: instanceID, At: time.Now()},
		StepIndex: stepIndex,
		Leaf:      leaf,
		Receipt:   receipt,
	}
}

// GoalVerifiedEvent carries the verification algorithm's outcome.
type GoalVerifiedEvent struct {
	base
	Verified bool
	Reason   string
}

func (GoalVerifiedEvent) Type() EventType { return EventGoalVerified }

// NewGoalVerifiedEvent constructs a GoalVerifiedEvent stamped with now.
func NewGoalVerifiedEvent(instanceID string, verified bool, reason string) GoalVerifiedEvent {
	return GoalVerifiedEvent{
		base:     base{ReflexInstanceID: instanceID, At: time.Now()},
		Verified: verified,
		Reason:   reason,
	}
}

// GoalClosedEvent is the terminal event for a completed firing, carrying
// the final bundle hash.
type GoalClosedEvent struct {
	base
	BundleHash string
	Success    bool
}

func (GoalClosedEvent) Type() EventType { return EventGoalClosed }

// NewGoalClosedEvent constructs a GoalClosedEvent stamped with now.
func NewGoalClosedEvent(instanceID, bundleHash string, success bool) GoalClosedEvent {
	return GoalClosedEvent{
		base:       base{ReflexInstanceID: instanceID, At: time.Now()},
		BundleHash: bundleHash,
		Success:    success,
	}
}
