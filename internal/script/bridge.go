// Package script hosts the Lua environment action scripts run in. Each
// execution gets a fresh sandboxed state with one global table per engine
// namespace, whose functions call through to the engine's instructions
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shopify/go-lua"

	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/log"
)

type (
	// Caller sends one request to an engine. Satisfied by registry.Engine
	Caller interface {
		Call(ctx context.Context, req *api.Request) (*api.Response, error)
	}

	// Bridge is a single-use script environment. It accumulates evidence
	// from instruction calls and retains the first structured failure so
	// callers see it instead of a stringified Lua error
	Bridge struct {
		state    *lua.State
		evidence []api.Evidence
		callErr  error
		dryRun   bool
	}

	// CallError is an instruction failure reported by an engine, preserved
	// through the Lua boundary with its kind intact
	CallError struct {
		Instruction string
		Err         *api.Error
	}
)

// EntryFunction is the global an action script must define
const EntryFunction = "run_action"

var (
	ErrNoEntry        = errors.New("script does not define " + EntryFunction)
	ErrScript         = errors.New("script execution error")
	ErrWrongArgCount  = errors.New("instruction called with wrong number of parameters")
	ErrInvalidArgKind = errors.New("instruction called with an invalid parameter type")
	ErrBadEngineReply = errors.New("engine reply did not match the call")
	ErrReturnCount    = errors.New("action didn't return the correct number of values")
	ErrReturnKind     = errors.New("action didn't return valid values")
)

func (e *CallError) Error() string {
	return fmt.Sprintf("instruction %s failed: %s", e.Instruction, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// NewBridge creates a fresh sandboxed environment. When dryRun is set, every
// instruction call is flagged so engines skip their side effects
func NewBridge(dryRun bool) *Bridge {
	L := lua.NewState()
	setupSandbox(L)
	return &Bridge{state: L, dryRun: dryRun}
}

// Bind installs a global table named after the engine's script namespace,
// with one function per instruction keyed by its script name
func (b *Bridge) Bind(
	ctx context.Context, namespace string,
	instructions []*api.Instruction, caller Caller,
) {
	L := b.state
	L.NewTable()
	for _, inst := range instructions {
		L.PushGoFunction(b.instructionFunc(ctx, caller, inst))
		L.SetField(-2, inst.ScriptName)
	}
	L.SetGlobal(namespace)
}

// Evidence returns everything instruction calls collected so far
func (b *Bridge) Evidence() []api.Evidence {
	return b.evidence
}

// Run loads compiled action bytecode, calls its entry function with the
// given arguments, and converts the returned values against the declared
// outputs. Instruction failures surface as *CallError
func (b *Bridge) Run(
	bytecode []byte, args []api.ParameterValue, outputs []api.NamedKind,
) ([]api.ParameterValue, error) {
	L := b.state

	if err := L.Load(bytes.NewReader(bytecode), "action", "b"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}
	if err := L.ProtectedCall(0, 0, 0); err != nil {
		return nil, b.runError(err)
	}

	L.Global(EntryFunction)
	if !L.IsFunction(-1) {
		return nil, ErrNoEntry
	}
	for _, arg := range args {
		pushValue(L, arg)
	}
	if err := L.ProtectedCall(len(args), lua.MultipleReturns, 0); err != nil {
		return nil, b.runError(err)
	}

	if L.Top() != len(outputs) {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			ErrReturnCount, len(outputs), L.Top())
	}

	results := make([]api.ParameterValue, len(outputs))
	for i, out := range outputs {
		v, err := valueAt(L, i+1, out.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: output %s: %w",
				ErrReturnKind, out.ID, err)
		}
		results[i] = v
	}
	L.SetTop(0)
	return results, nil
}

// runError prefers the structured failure captured inside an instruction
// closure over the Lua-mangled error string
func (b *Bridge) runError(err error) error {
	if b.callErr != nil {
		return b.callErr
	}
	return fmt.Errorf("%w: %w", ErrScript, err)
}

func (b *Bridge) instructionFunc(
	ctx context.Context, caller Caller, inst *api.Instruction,
) lua.Function {
	return func(L *lua.State) int {
		if L.Top() != len(inst.Parameters) {
			return b.fail(L, fmt.Errorf("%w: %s takes %d, got %d",
				ErrWrongArgCount, inst.ScriptName,
				len(inst.Parameters), L.Top()))
		}

		params := map[string]api.ParameterValue{}
		for i, p := range inst.Parameters {
			v, err := valueAt(L, i+1, p.Kind)
			if err != nil {
				return b.fail(L, fmt.Errorf("%w: %s parameter %s: %w",
					ErrInvalidArgKind, inst.ScriptName, p.ID, err))
			}
			params[p.ID] = v
		}

		resp, err := caller.Call(ctx, api.RunRequest(api.InstructionCall{
			Instruction: inst.ID,
			DryRun:      b.dryRun,
			Parameters:  params,
		}))
		if err != nil {
			return b.fail(L, err)
		}
		if resp.Tag == api.ResponseError {
			slog.Warn("Instruction reported an error",
				log.Instruction(inst.ID), log.Error(resp.Error))
			return b.fail(L, &CallError{Instruction: inst.ID, Err: resp.Error})
		}
		if resp.Tag != api.ResponseExecutionOutput || resp.Output == nil ||
			len(resp.Output.Output) != 1 || len(resp.Output.Evidence) != 1 {
			return b.fail(L, fmt.Errorf("%w: for %s",
				ErrBadEngineReply, inst.ID))
		}

		b.evidence = append(b.evidence, resp.Output.Evidence[0]...)

		out := resp.Output.Output[0]
		for _, o := range inst.Outputs {
			pushValue(L, out[o.ID])
		}
		return len(inst.Outputs)
	}
}

// fail records the first structured failure and raises it as a Lua error so
// the script unwinds immediately
func (b *Bridge) fail(L *lua.State, err error) int {
	if b.callErr == nil {
		b.callErr = err
	}
	lua.Errorf(L, "%s", err.Error())
	return 0 // not reached
}
