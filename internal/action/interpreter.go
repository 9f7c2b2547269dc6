package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/veriflow-io/veriflow/internal/registry"
	"github.com/veriflow-io/veriflow/internal/script"
	"github.com/veriflow-io/veriflow/pkg/api"
)

type (
	// Interpreter executes actions against a loaded engine registry. It is
	// safe for concurrent use; each execution gets its own script
	// environment, sharing only the bytecode cache
	Interpreter struct {
		reg      *registry.Registry
		compiler *script.Compiler
	}

	// Result is the outcome of one successful action execution
	Result struct {
		Outputs  []api.ParameterValue
		Evidence []api.Evidence
	}
)

var (
	ErrArgumentCount = errors.New("wrong number of arguments for action")
	ErrArgumentKind  = errors.New("argument kind does not match declaration")
)

// NewInterpreter creates an interpreter over the given registry
func NewInterpreter(reg *registry.Registry) *Interpreter {
	return &Interpreter{reg: reg, compiler: script.NewCompiler()}
}

// Execute runs one action with positional arguments matching its declared
// parameters. Even a failed execution returns the evidence collected before
// the failure, so callers can report partial runs
func (i *Interpreter) Execute(
	ctx context.Context, act *Action,
	args []api.ParameterValue, dryRun bool,
) (*Result, error) {
	if err := checkArguments(act, args); err != nil {
		return &Result{}, err
	}

	bytecode, err := i.compiler.Compile(act.Script)
	if err != nil {
		return &Result{}, err
	}

	bridge := script.NewBridge(dryRun)
	for _, e := range i.reg.Engines() {
		bridge.Bind(ctx, e.Namespace, e.Instructions, e)
	}

	outputs, err := bridge.Run(bytecode, args, act.Outputs())
	if err != nil {
		return &Result{Evidence: bridge.Evidence()},
			fmt.Errorf("action %s: %w", act.ID, err)
	}
	return &Result{Outputs: outputs, Evidence: bridge.Evidence()}, nil
}

func checkArguments(act *Action, args []api.ParameterValue) error {
	params := act.Parameters()
	if len(args) != len(params) {
		return fmt.Errorf("%w: %s takes %d, got %d",
			ErrArgumentCount, act.ID, len(params), len(args))
	}
	for idx, p := range params {
		if !args[idx].Kind().Equal(p.Kind) {
			return fmt.Errorf("%w: %s parameter %d wants %s, got %s",
				ErrArgumentKind, act.ID, idx, p.Kind, args[idx].Kind())
		}
	}
	return nil
}
