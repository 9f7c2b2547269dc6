// Package convert provides the built-in type conversion engine
package convert

import (
	"strconv"

	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

const Version = "1.0.0"

// New builds the conversion engine
func New() *sdk.Engine[struct{}] {
	return sdk.New[struct{}](
		"Convert", "Convert", Version,
		"Convert values between parameter types.",
	).
		WithInstruction(
			api.NewInstruction("convert-int-string", "int_to_string",
				"Integer to String",
				"Convert an integer into a string.").
				WithParameter("val1", "Integer input", api.Integer).
				WithOutput("result", "String output", api.String).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewString(
					strconv.FormatInt(int64(params.Integer("val1")), 10))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("convert-decimal-string", "dec_to_string",
				"Decimal to String",
				"Convert a decimal into a string.").
				WithParameter("val1", "Decimal input", api.Decimal).
				WithOutput("result", "String output", api.String).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewString(strconv.FormatFloat(
					float64(params.Decimal("val1")), 'g', -1, 32))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("convert-concat-strings", "concat",
				"Concatenate Strings",
				"Concatenate two strings into one.").
				WithParameter("val1", "StringA", api.String).
				WithParameter("val2", "StringB", api.String).
				WithOutput("result", "StringAStringB", api.String).
				WithFlags(api.FlagPure|api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewString(
					params.String("val1") + params.String("val2"))
				return nil
			},
		)
}
