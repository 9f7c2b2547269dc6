// Package random provides the built-in randomness engine
package random

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

const Version = "1.0.2"

// New builds the randomness engine
func New() *sdk.Engine[struct{}] {
	return sdk.New[struct{}](
		"Random", "Random", Version, "Generate data with randomness.",
	).
		WithInstruction(
			api.NewInstruction("rand-int-between", "int_between",
				"Random Integer", "Generate a random integer between two "+
					"bounds, inclusive.").
				WithParameter("min", "Minimum", api.Integer).
				WithParameter("max", "Maximum", api.Integer).
				WithOutput("result", "Result", api.Integer).
				WithFlags(api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				lo, hi := params.Integer("min"), params.Integer("max")
				if hi < lo {
					return fmt.Errorf(
						"maximum %d is below minimum %d", hi, lo)
				}
				span := int64(hi) - int64(lo) + 1
				out["result"] = api.NewInteger(
					lo + int32(rand.Int64N(span)))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("rand-uuid", "new_uuid", "Random UUID",
				"Generate a random version 4 UUID.").
				WithOutput("result", "Result", api.String).
				WithFlags(api.FlagAutomatic),
			func(_ *struct{}, _ sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				out["result"] = api.NewString(uuid.NewString())
				return nil
			},
		)
}
