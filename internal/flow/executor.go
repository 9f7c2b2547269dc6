package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/veriflow-io/veriflow/internal/action"
	"github.com/veriflow-io/veriflow/internal/registry"
	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/log"
)

type (
	// ExecutionState tracks where an execution stands. Transitions are
	// linear: NotStarted, Running, then Completed or Failed
	ExecutionState string

	// Error is a failure localized to one step. Step is 1-based, matching
	// what users see in an editor
	Error struct {
		Step int
		Err  error
	}

	// Result is the terminal outcome of an execution. Evidence holds
	// everything produced up to the failure point, so partial runs can
	// still be reported
	Result struct {
		Evidence []api.Evidence
		Err      error
	}

	// Execution is a handle to one in-flight flow or action run. The work
	// happens on its own goroutine; Wait blocks for the outcome
	Execution struct {
		ID   uuid.UUID
		mu   sync.Mutex
		sta  ExecutionState
		step int
		done chan *Result
		once sync.Once
		res  *Result
	}

	// Executor runs flows and single actions against a loaded registry and
	// action library
	Executor struct {
		reg    *registry.Registry
		lib    *action.Library
		interp *action.Interpreter
	}
)

const (
	StateNotStarted ExecutionState = "NotStarted"
	StateRunning    ExecutionState = "Running"
	StateCompleted  ExecutionState = "Completed"
	StateFailed     ExecutionState = "Failed"
)

var (
	ErrMissingSource   = errors.New("no source configured for parameter")
	ErrFlowParameter   = errors.New("flow parameter index out of range")
	ErrStepReference   = errors.New("step reference is not strictly backward")
	ErrOutputReference = errors.New("step output index out of range")
)

func (e *Error) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewExecutor creates an executor over the given registry and library
func NewExecutor(reg *registry.Registry, lib *action.Library) *Executor {
	return &Executor{
		reg:    reg,
		lib:    lib,
		interp: action.NewInterpreter(reg),
	}
}

// ExecuteFlow starts a flow run on its own goroutine and returns a handle
// immediately. Engine state is reset first; reset failures downgrade to
// warning evidence rather than aborting the run
func (x *Executor) ExecuteFlow(
	ctx context.Context, f *AutomationFlow,
	params []api.ParameterValue, dryRun bool,
) *Execution {
	exec := newExecution()
	go func() {
		exec.finish(x.runFlow(ctx, exec, f, params, dryRun))
	}()
	return exec
}

// ExecuteAction starts a single-action run with the same handle shape as a
// flow run. The action behaves as a one-step flow, including state reset
func (x *Executor) ExecuteAction(
	ctx context.Context, act *action.Action,
	params []api.ParameterValue, dryRun bool,
) *Execution {
	exec := newExecution()
	go func() {
		exec.setRunning(1)
		evidence := x.reg.ResetAll(ctx)
		result, err := x.interp.Execute(ctx, act, params, dryRun)
		evidence = append(evidence, result.Evidence...)
		if err != nil {
			exec.finish(&Result{
				Evidence: evidence,
				Err:      &Error{Step: 1, Err: err},
			})
			return
		}
		exec.finish(&Result{Evidence: evidence})
	}()
	return exec
}

// State returns the execution's current state and, while running, the
// 1-based step being executed
func (e *Execution) State() (ExecutionState, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sta, e.step
}

// Wait blocks until the execution finishes and returns its result. It is
// safe to call more than once
func (e *Execution) Wait() *Result {
	e.once.Do(func() {
		e.res = <-e.done
	})
	return e.res
}

func newExecution() *Execution {
	return &Execution{
		ID:   uuid.New(),
		sta:  StateNotStarted,
		done: make(chan *Result, 1),
	}
}

func (e *Execution) setRunning(step int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sta = StateRunning
	e.step = step
}

func (e *Execution) finish(res *Result) {
	e.mu.Lock()
	if res.Err != nil {
		e.sta = StateFailed
	} else {
		e.sta = StateCompleted
	}
	e.mu.Unlock()
	e.done <- res
}

func (x *Executor) runFlow(
	ctx context.Context, exec *Execution, f *AutomationFlow,
	params []api.ParameterValue, dryRun bool,
) *Result {
	evidence := x.reg.ResetAll(ctx)

	fail := func(step int, err error) *Result {
		slog.Error("Flow step failed", log.Step(step), log.Error(err))
		return &Result{
			Evidence: evidence,
			Err:      &Error{Step: step, Err: err},
		}
	}

	outputs := make([][]api.ParameterValue, 0, len(f.Steps))
	for i, cfg := range f.Steps {
		step := i + 1
		exec.setRunning(step)

		act, err := x.lib.Get(cfg.ActionID)
		if err != nil {
			return fail(step, err)
		}
		slog.Debug("Running flow step",
			log.Step(step), log.Action(act.ID.String()))

		args, err := resolveParameters(cfg, act, params, outputs)
		if err != nil {
			return fail(step, err)
		}

		result, err := x.interp.Execute(ctx, act, args, dryRun)
		evidence = append(evidence, result.Evidence...)
		if err != nil {
			return fail(step, err)
		}
		outputs = append(outputs, result.Outputs)
	}
	return &Result{Evidence: evidence}
}

// resolveParameters builds the positional argument vector for one step. The
// backward-only constraint on step references is enforced here as well as at
// edit time, so a hand-crafted document cannot read forward or out of range
func resolveParameters(
	cfg *ActionConfiguration, act *action.Action,
	flowParams []api.ParameterValue, priorOutputs [][]api.ParameterValue,
) ([]api.ParameterValue, error) {
	params := act.Parameters()
	args := make([]api.ParameterValue, len(params))
	for idx := range params {
		src, ok := cfg.Sources[idx]
		if !ok {
			return nil, fmt.Errorf("%w: parameter %d", ErrMissingSource, idx)
		}
		switch src.Kind {
		case SourceLiteral:
			v, ok := cfg.Values[idx]
			if !ok {
				return nil, fmt.Errorf("%w: no literal for parameter %d",
					ErrMissingSource, idx)
			}
			args[idx] = v

		case SourceFromFlowParameter:
			if src.Parameter < 0 || src.Parameter >= len(flowParams) {
				return nil, fmt.Errorf("%w: %d", ErrFlowParameter, src.Parameter)
			}
			args[idx] = flowParams[src.Parameter]

		case SourceFromPriorStepOutput:
			if src.Step < 0 || src.Step >= len(priorOutputs) {
				return nil, fmt.Errorf("%w: %d", ErrStepReference, src.Step)
			}
			prior := priorOutputs[src.Step]
			if src.Output < 0 || src.Output >= len(prior) {
				return nil, fmt.Errorf("%w: step %d output %d",
					ErrOutputReference, src.Step, src.Output)
			}
			args[idx] = prior[src.Output]

		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSourceKind, src.Kind)
		}
	}
	return args, nil
}
