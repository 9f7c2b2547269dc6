// Package arithmetic provides the built-in integer and decimal arithmetic
// engine, including a stateful counter used to demonstrate state resets
package arithmetic

import (
	"errors"
	"fmt"

	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

// State holds the engine's resettable counter
type State struct {
	Counter int32
}

const Version = "1.1.0"

var ErrDivideByZero = errors.New("cannot divide by zero")

// New builds the arithmetic engine
func New() *sdk.Engine[State] {
	return sdk.New[State](
		"Arithmetic", "Arithmetic", Version,
		"Basic integer and decimal arithmetic.",
	).
		WithInstruction(
			intInstruction("arithmetic-int-add", "add_int", "Add (Integer)",
				"Add together two integers.", "A + B"),
			intOp("+", func(a, b int32) (int32, error) { return a + b, nil }),
		).
		WithInstruction(
			intInstruction("arithmetic-int-sub", "sub_int",
				"Subtract (Integer)", "Subtract two integers.", "A - B"),
			intOp("-", func(a, b int32) (int32, error) { return a - b, nil }),
		).
		WithInstruction(
			intInstruction("arithmetic-int-mul", "mul_int",
				"Multiply (Integer)", "Multiply two integers.", "A × B"),
			intOp("×", func(a, b int32) (int32, error) { return a * b, nil }),
		).
		WithInstruction(
			intInstruction("arithmetic-int-div", "div_int",
				"Divide (Integer)",
				"Divide two integers, returning the floored result.", "A ÷ B"),
			intOp("÷", func(a, b int32) (int32, error) {
				if b == 0 {
					return 0, ErrDivideByZero
				}
				return a / b, nil
			}),
		).
		WithInstruction(
			api.NewInstruction("arithmetic-dec-add", "add_dec",
				"Add (Decimal)", "Add together two decimals.").
				WithParameter("val1", "A", api.Decimal).
				WithParameter("val2", "B", api.Decimal).
				WithOutput("result", "A + B", api.Decimal).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *State, params sdk.Params, _ bool,
				out api.OutputMap, ev *sdk.EvidenceList) error {
				a, b := params.Decimal("val1"), params.Decimal("val2")
				result := api.NewDecimal(a + b)
				out["result"] = result
				ev.Add(api.Textual("Arithmetic Operation",
					fmt.Sprintf("%v + %v = %s", a, b, result)))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("arithmetic-counter-inc", "increase_counter",
				"Increase Counter", "Increase a counter.").
				WithOutput("value", "Counter Value", api.Integer).
				WithFlags(api.FlagInfallible|api.FlagAutomatic),
			func(state *State, _ sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				state.Counter++
				out["value"] = api.NewInteger(state.Counter)
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("arithmetic-counter-dec", "decrease_counter",
				"Decrease Counter", "Decrease a counter.").
				WithOutput("value", "Counter Value", api.Integer).
				WithFlags(api.FlagInfallible|api.FlagAutomatic),
			func(state *State, _ sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				state.Counter--
				out["value"] = api.NewInteger(state.Counter)
				return nil
			},
		)
}

func intInstruction(id, scriptName, name, description, outName string) *api.Instruction {
	return api.NewInstruction(id, scriptName, name, description).
		WithParameter("val1", "A", api.Integer).
		WithParameter("val2", "B", api.Integer).
		WithOutput("result", outName, api.Integer).
		WithFlags(api.FlagPure | api.FlagAutomatic)
}

func intOp(symbol string, op func(a, b int32) (int32, error)) sdk.InstructionFunc[State] {
	return func(_ *State, params sdk.Params, _ bool,
		out api.OutputMap, ev *sdk.EvidenceList) error {
		a, b := params.Integer("val1"), params.Integer("val2")
		result, err := op(a, b)
		if err != nil {
			return err
		}
		out["result"] = api.NewInteger(result)
		ev.Add(api.Textual("Arithmetic Operation",
			fmt.Sprintf("%d %s %d = %d", a, symbol, b, result)))
		return nil
	}
}
