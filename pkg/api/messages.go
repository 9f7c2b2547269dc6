package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

type (
	RequestTag  string
	ResponseTag string

	// ErrorKind classifies an engine-reported protocol error
	ErrorKind string

	// Request is one message sent to an engine over the wire
	Request struct {
		Tag RequestTag
		Run *RunInstructions
	}

	// RunInstructions carries an ordered batch of instruction calls
	RunInstructions struct {
		Calls []InstructionCall `json:"instructions"`
	}

	// Response is one message returned by an engine over the wire
	Response struct {
		Tag     ResponseTag
		Catalog *Catalog
		Output  *ExecutionOutput
		Error   *Error
	}

	// Catalog is an engine's self-description and instruction list
	Catalog struct {
		FriendlyName    string         `json:"friendly_name"`
		Description     string         `json:"description,omitempty"`
		EngineVersion   string         `json:"engine_version"`
		ScriptNamespace string         `json:"engine_script_namespace"`
		ProtocolVersion int            `json:"protocol_version"`
		Instructions    []*Instruction `json:"instructions"`
	}

	// OutputMap holds the outputs of one instruction call, keyed by output ID
	OutputMap map[string]ParameterValue

	// ExecutionOutput carries the results of a RunInstructions batch. Output
	// and Evidence are parallel arrays with one entry per requested call, in
	// request order
	ExecutionOutput struct {
		Output   []OutputMap  `json:"output"`
		Evidence [][]Evidence `json:"evidence"`
	}

	// Error is an engine-reported protocol error
	Error struct {
		Kind   ErrorKind `json:"kind"`
		Reason string    `json:"reason"`
	}

	messageEnvelope struct {
		Tag string          `json:"t"`
		V   json.RawMessage `json:"v,omitempty"`
	}
)

// ProtocolVersion is the wire protocol revision this package speaks. Engines
// reporting any other version are refused at discovery time
const ProtocolVersion = 2

const (
	RequestInstructions    RequestTag = "Instructions"
	RequestRunInstructions RequestTag = "RunInstructions"
	RequestResetState      RequestTag = "ResetState"
)

const (
	ResponseInstructions    ResponseTag = "Instructions"
	ResponseExecutionOutput ResponseTag = "ExecutionOutput"
	ResponseStateReset      ResponseTag = "StateReset"
	ResponseError           ResponseTag = "Error"
)

const (
	ErrorFailedToParseIPCJson ErrorKind = "FailedToParseIPCJson"
	ErrorInvalidInstruction   ErrorKind = "InvalidInstruction"
	ErrorMissingParameter     ErrorKind = "MissingParameter"
	ErrorInvalidParameterType ErrorKind = "InvalidParameterType"
	ErrorEngineProcessing     ErrorKind = "EngineProcessingError"
)

var (
	ErrUnknownRequestTag  = errors.New("unknown request tag")
	ErrUnknownResponseTag = errors.New("unknown response tag")
)

// InstructionsRequest builds a catalog query
func InstructionsRequest() *Request {
	return &Request{Tag: RequestInstructions}
}

// ResetStateRequest builds a state reset request
func ResetStateRequest() *Request {
	return &Request{Tag: RequestResetState}
}

// RunRequest builds a RunInstructions request from an ordered list of calls
func RunRequest(calls ...InstructionCall) *Request {
	return &Request{
		Tag: RequestRunInstructions,
		Run: &RunInstructions{Calls: calls},
	}
}

// ErrorResponse builds an error response in the wire shape
func ErrorResponse(kind ErrorKind, reason string) *Response {
	return &Response{
		Tag:   ResponseError,
		Error: &Error{Kind: kind, Reason: reason},
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (r *Request) MarshalJSON() ([]byte, error) {
	env := messageEnvelope{Tag: string(r.Tag)}
	if r.Tag == RequestRunInstructions {
		raw, err := json.Marshal(r.Run)
		if err != nil {
			return nil, err
		}
		env.V = raw
	}
	return json.Marshal(env)
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var env messageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch RequestTag(env.Tag) {
	case RequestInstructions, RequestResetState:
		*r = Request{Tag: RequestTag(env.Tag)}
	case RequestRunInstructions:
		var run RunInstructions
		if err := json.Unmarshal(env.V, &run); err != nil {
			return err
		}
		*r = Request{Tag: RequestRunInstructions, Run: &run}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRequestTag, env.Tag)
	}
	return nil
}

func (r *Response) MarshalJSON() ([]byte, error) {
	env := messageEnvelope{Tag: string(r.Tag)}
	var inner any
	switch r.Tag {
	case ResponseInstructions:
		inner = r.Catalog
	case ResponseExecutionOutput:
		inner = r.Output
	case ResponseError:
		inner = r.Error
	}
	if inner != nil {
		raw, err := json.Marshal(inner)
		if err != nil {
			return nil, err
		}
		env.V = raw
	}
	return json.Marshal(env)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var env messageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch ResponseTag(env.Tag) {
	case ResponseStateReset:
		*r = Response{Tag: ResponseStateReset}
	case ResponseInstructions:
		var c Catalog
		if err := json.Unmarshal(env.V, &c); err != nil {
			return err
		}
		*r = Response{Tag: ResponseInstructions, Catalog: &c}
	case ResponseExecutionOutput:
		var out ExecutionOutput
		if err := json.Unmarshal(env.V, &out); err != nil {
			return err
		}
		*r = Response{Tag: ResponseExecutionOutput, Output: &out}
	case ResponseError:
		var e Error
		if err := json.Unmarshal(env.V, &e); err != nil {
			return err
		}
		*r = Response{Tag: ResponseError, Error: &e}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResponseTag, env.Tag)
	}
	return nil
}
