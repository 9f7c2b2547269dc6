// Package compare provides the built-in value comparison and boolean logic
// engine
package compare

import (
	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

const Version = "1.0.0"

// New builds the comparison engine
func New() *sdk.Engine[struct{}] {
	return sdk.New[struct{}](
		"Compare", "Compare", Version,
		"Compare values and combine booleans.",
	).
		WithInstruction(
			api.NewInstruction("compare-eq-ints", "eq_int",
				"Equal (Integer)",
				"Compare the value of two integers.").
				WithParameter("val1", "A", api.Integer).
				WithParameter("val2", "B", api.Integer).
				WithOutput("result", "A = B", api.Boolean).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewBoolean(
					params.Integer("val1") == params.Integer("val2"))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("compare-eq-str", "eq_str",
				"Equal (String)",
				"Compare the value of two strings.").
				WithParameter("val1", "A", api.String).
				WithParameter("val2", "B", api.String).
				WithOutput("result", "A = B", api.Boolean).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewBoolean(
					params.String("val1") == params.String("val2"))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("compare-eq-bool", "eq_bool",
				"Equal (Boolean)",
				"Compare the value of two Booleans.").
				WithParameter("val1", "A", api.Boolean).
				WithParameter("val2", "B", api.Boolean).
				WithOutput("result", "A = B", api.Boolean).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewBoolean(
					params.Boolean("val1") == params.Boolean("val2"))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("compare-not", "negate",
				"Not (Boolean)",
				"If fed true, returns false, if fed false, returns true.").
				WithParameter("val1", "A", api.Boolean).
				WithOutput("result", "not A", api.Boolean).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewBoolean(!params.Boolean("val1"))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("compare-and", "both",
				"And (Boolean)",
				"Returns true if both A and B are true.").
				WithParameter("val1", "A", api.Boolean).
				WithParameter("val2", "B", api.Boolean).
				WithOutput("result", "A and B", api.Boolean).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewBoolean(
					params.Boolean("val1") && params.Boolean("val2"))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("compare-or", "either",
				"Or (Boolean)",
				"Returns true if A or B is true.").
				WithParameter("val1", "A", api.Boolean).
				WithParameter("val2", "B", api.Boolean).
				WithOutput("result", "A or B", api.Boolean).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewBoolean(
					params.Boolean("val1") || params.Boolean("val2"))
				return nil
			},
		)
}
