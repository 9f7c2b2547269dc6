package flow

import (
	"encoding/json"
	"errors"
	"fmt"
)

type (
	// SourceKind discriminates where a step parameter's value comes from
	SourceKind string

	// ParameterSource is the origin of one value fed into a step: a stored
	// literal, the flow's own invocation parameter, or an earlier step's
	// output. Only the fields for the active kind are meaningful
	ParameterSource struct {
		Kind      SourceKind
		Parameter int
		Step      int
		Output    int
	}

	sourceEnvelope struct {
		Tag SourceKind      `json:"t"`
		V   json.RawMessage `json:"v,omitempty"`
	}

	stepOutputRef struct {
		Step   int `json:"step"`
		Output int `json:"output"`
	}
)

const (
	SourceLiteral             SourceKind = "Literal"
	SourceFromFlowParameter   SourceKind = "FromFlowParameter"
	SourceFromPriorStepOutput SourceKind = "FromPriorStepOutput"

	// sourcePending marks a reference to a step that has been cut but not
	// yet pasted. It exists only inside a move edit and is never persisted
	sourcePending SourceKind = "Pending"
)

var ErrUnknownSourceKind = errors.New("unknown parameter source kind")

// Literal sources resolve to the configuration's stored value
func Literal() ParameterSource {
	return ParameterSource{Kind: SourceLiteral}
}

// FromFlowParameter resolves to the flow's invocation parameter at index
func FromFlowParameter(index int) ParameterSource {
	return ParameterSource{Kind: SourceFromFlowParameter, Parameter: index}
}

// FromPriorStepOutput resolves to an output of a strictly earlier step
func FromPriorStepOutput(step, output int) ParameterSource {
	return ParameterSource{
		Kind: SourceFromPriorStepOutput, Step: step, Output: output,
	}
}

func (s ParameterSource) String() string {
	switch s.Kind {
	case SourceFromFlowParameter:
		return fmt.Sprintf("flow parameter %d", s.Parameter)
	case SourceFromPriorStepOutput:
		return fmt.Sprintf("step %d output %d", s.Step, s.Output)
	default:
		return string(s.Kind)
	}
}

func (s ParameterSource) MarshalJSON() ([]byte, error) {
	env := sourceEnvelope{Tag: s.Kind}
	switch s.Kind {
	case SourceLiteral:
	case SourceFromFlowParameter:
		raw, err := json.Marshal(s.Parameter)
		if err != nil {
			return nil, err
		}
		env.V = raw
	case SourceFromPriorStepOutput:
		raw, err := json.Marshal(stepOutputRef{Step: s.Step, Output: s.Output})
		if err != nil {
			return nil, err
		}
		env.V = raw
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceKind, s.Kind)
	}
	return json.Marshal(env)
}

func (s *ParameterSource) UnmarshalJSON(data []byte) error {
	var env sourceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch env.Tag {
	case SourceLiteral:
		*s = Literal()
	case SourceFromFlowParameter:
		var index int
		if err := json.Unmarshal(env.V, &index); err != nil {
			return err
		}
		*s = FromFlowParameter(index)
	case SourceFromPriorStepOutput:
		var ref stepOutputRef
		if err := json.Unmarshal(env.V, &ref); err != nil {
			return err
		}
		*s = FromPriorStepOutput(ref.Step, ref.Output)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSourceKind, env.Tag)
	}
	return nil
}
