package gateway

import "strings"

// FailureCode is the closed set of reasons a task description can fail to
// resolve to a dispatchable action.
type FailureCode string

const (
	FailureNoCandidateParameters FailureCode = "no_candidate_parameters"
	FailureAmbiguousParameters   FailureCode = "ambiguous_parameters"
	FailureMissingRequiredField  FailureCode = "missing_required_field"
	FailureUnrecognizedTaskType  FailureCode = "unrecognized_task_type"
)

// StepMeta is the first-step metadata a plan step carries, consulted when
// legacy parameters and requirement candidates are both absent.
type StepMeta struct {
	ActionType string
	Parameters map[string]interface{}
}

// TaskDescription is the resolver's input: everything a task can carry
// that might describe the action it wants dispatched.
type TaskDescription struct {
	Title                string
	LegacyParameters     map[string]interface{}
	RequirementCandidate map[string]interface{}
	Steps                []StepMeta
}

// ResolvedAction is a successfully resolved dispatchable action together
// with the source that produced it, kept for diagnostics.
type ResolvedAction struct {
	ActionType string
	Parameters map[string]interface{}
	Source     string
}

// ResolutionFailure explains why ResolveTaskAction could not produce an
// action, carrying a closed failure code rather than a free-form string.
type ResolutionFailure struct {
	Code    FailureCode
	Message string
}

func (f *ResolutionFailure) Error() string { return f.Message }

// titleKeywords maps a lowercase keyword found in a task title to the
// action type it infers, used only as the last-resort resolution path.
var titleKeywords = map[string]string{
	"mine":    "mine_block",
	"craft":   "craft_item",
	"build":   "place_block",
	"attack":  "attack_entity",
	"flee":    "move_to",
	"explore": "move_to",
	"gather":  "collect_item",
	"eat":     "consume_item",
	"sleep":   "sleep",
	"trade":   "trade_with_villager",
}

// ResolveTaskAction maps a task description to a dispatchable action,
// trying in order: legacy parameters, the requirement-candidate block,
// the first step's metadata, and finally title-keyword inference.
func ResolveTaskAction(task TaskDescription) (ResolvedAction, *ResolutionFailure) {
	if len(task.LegacyParameters) > 0 {
		actionType, ok := task.LegacyParameters["action"].(string)
		if !ok || actionType == "" {
			return ResolvedAction{}, &ResolutionFailure{
				Code:    FailureMissingRequiredField,
				Message: "legacy parameters present but missing required 'action' field",
			}
		}
		return ResolvedAction{ActionType: actionType, Parameters: task.LegacyParameters, Source: "legacy_parameters"}, nil
	}

	if len(task.RequirementCandidate) > 0 {
		actionType, ok := task.RequirementCandidate["type"].(string)
		if !ok || actionType == "" {
			return ResolvedAction{}, &ResolutionFailure{
				Code:    FailureMissingRequiredField,
				Message: "requirement candidate present but missing required 'type' field",
			}
		}
		return ResolvedAction{ActionType: actionType, Parameters: task.RequirementCandidate, Source: "requirement_candidate"}, nil
	}

	if len(task.Steps) > 0 {
		step := task.Steps[0]
		if step.ActionType == "" {
			return ResolvedAction{}, &ResolutionFailure{
				Code:    FailureMissingRequiredField,
				Message: "first step metadata present but action type is empty",
			}
		}
		return ResolvedAction{ActionType: step.ActionType, Parameters: step.Parameters, Source: "first_step_metadata"}, nil
	}

	inferred, err := inferFromTitle(task.Title)
	if err != nil {
		return ResolvedAction{}, err
	}
	return ResolvedAction{ActionType: inferred, Parameters: map[string]interface{}{}, Source: "title_keyword_inference"}, nil
}

func inferFromTitle(title string) (string, *ResolutionFailure) {
	if title == "" {
		return "", &ResolutionFailure{
			Code:    FailureNoCandidateParameters,
			Message: "no legacy parameters, requirement candidate, step metadata, or title to infer from",
		}
	}

	lower := strings.ToLower(title)
	var matches []string
	for keyword, actionType := range titleKeywords {
		if strings.Contains(lower, keyword) {
			matches = append(matches, actionType)
		}
	}

	switch len(matches) {
	case 0:
		return "", &ResolutionFailure{
			Code:    FailureUnrecognizedTaskType,
			Message: "title '" + title + "' matched no known action keyword",
		}
	case 1:
		return matches[0], nil
	default:
		return "", &ResolutionFailure{
			Code:    FailureAmbiguousParameters,
			Message: "title '" + title + "' matched multiple action keywords",
		}
	}
}
