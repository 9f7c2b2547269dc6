// Package sdk provides a builder for native veriflow engines. An engine
// declares a catalog of typed instructions and handles wire requests either
// in-process or over the standalone process contract (see Serve)
package sdk

import (
	"errors"
	"fmt"
	"sync"

	"github.com/veriflow-io/veriflow/pkg/api"
)

type (
	// InstructionFunc executes one validated instruction call. Outputs go
	// into out, audit artifacts are appended to ev. Returning an error
	// surfaces as EngineProcessingError to the caller
	InstructionFunc[T any] func(
		state *T, params Params, dryRun bool,
		out api.OutputMap, ev *EvidenceList,
	) error

	// EvidenceList accumulates evidence produced by one instruction call
	EvidenceList []api.Evidence

	// Engine is a native engine with instruction-scoped handlers and a
	// state value that resets to its zero value on ResetState
	Engine[T any] struct {
		mu      sync.Mutex
		catalog *api.Catalog
		funcs   map[string]InstructionFunc[T]
		state   T
		err     error
	}

	// Handler is the request surface shared by all engines regardless of
	// their state type
	Handler interface {
		Handle(req *api.Request) *api.Response
	}
)

var ErrBadInstruction = errors.New("invalid instruction declaration")

// New creates an engine with the given identity. The namespace is the name
// scripts use to address this engine's instructions
func New[T any](name, namespace, version, description string) *Engine[T] {
	return &Engine[T]{
		catalog: &api.Catalog{
			FriendlyName:    name,
			Description:     description,
			EngineVersion:   version,
			ScriptNamespace: namespace,
			ProtocolVersion: api.ProtocolVersion,
		},
		funcs: map[string]InstructionFunc[T]{},
	}
}

// WithInstruction declares an instruction and its handler. Declaration
// problems are recorded and reported by Err rather than panicking
func (e *Engine[T]) WithInstruction(
	inst *api.Instruction, fn InstructionFunc[T],
) *Engine[T] {
	if err := inst.Check(); err != nil && e.err == nil {
		e.err = fmt.Errorf("%w: %w", ErrBadInstruction, err)
	}
	if _, ok := e.funcs[inst.ID]; ok && e.err == nil {
		e.err = fmt.Errorf("%w: duplicate id %s", ErrBadInstruction, inst.ID)
	}
	e.funcs[inst.ID] = fn
	e.catalog.Instructions = append(e.catalog.Instructions, inst)
	return e
}

// Err reports the first declaration problem encountered while building
func (e *Engine[T]) Err() error {
	return e.err
}

// Catalog returns the engine's self-description
func (e *Engine[T]) Catalog() *api.Catalog {
	return e.catalog
}

// Add appends an evidence entry
func (l *EvidenceList) Add(ev api.Evidence) {
	*l = append(*l, ev)
}

// Handle dispatches one wire request. Calls within a RunInstructions batch
// run in request order; the first failing call aborts the batch with an
// error response
func (e *Engine[T]) Handle(req *api.Request) *api.Response {
	if e.err != nil {
		return api.ErrorResponse(api.ErrorEngineProcessing, e.err.Error())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch req.Tag {
	case api.RequestInstructions:
		return &api.Response{Tag: api.ResponseInstructions, Catalog: e.catalog}

	case api.RequestResetState:
		var zero T
		e.state = zero
		return &api.Response{Tag: api.ResponseStateReset}

	case api.RequestRunInstructions:
		return e.runCalls(req.Run.Calls)

	default:
		return api.ErrorResponse(api.ErrorEngineProcessing,
			fmt.Sprintf("unsupported request %q", req.Tag))
	}
}

func (e *Engine[T]) runCalls(calls []api.InstructionCall) *api.Response {
	output := make([]api.OutputMap, 0, len(calls))
	evidence := make([][]api.Evidence, 0, len(calls))

	for _, call := range calls {
		inst := e.findInstruction(call.Instruction)
		if inst == nil {
			return api.ErrorResponse(api.ErrorInvalidInstruction,
				fmt.Sprintf("engine %s cannot run %s",
					e.catalog.FriendlyName, call.Instruction))
		}
		if problem := inst.Validate(&call); problem != nil {
			return &api.Response{Tag: api.ResponseError, Error: problem}
		}

		out := api.OutputMap{}
		var ev EvidenceList
		fn := e.funcs[call.Instruction]
		if err := fn(&e.state, call.Parameters, call.DryRun, out, &ev); err != nil {
			return api.ErrorResponse(api.ErrorEngineProcessing, err.Error())
		}

		output = append(output, out)
		if ev == nil {
			ev = EvidenceList{}
		}
		evidence = append(evidence, ev)
	}

	return &api.Response{
		Tag:    api.ResponseExecutionOutput,
		Output: &api.ExecutionOutput{Output: output, Evidence: evidence},
	}
}

func (e *Engine[T]) findInstruction(id string) *api.Instruction {
	for _, inst := range e.catalog.Instructions {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}
