package arithmetic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/internal/engines/arithmetic"
	"github.com/veriflow-io/veriflow/pkg/api"
)

func run(t *testing.T, id string, params map[string]api.ParameterValue) *api.Response {
	t.Helper()
	e := arithmetic.New()
	require.NoError(t, e.Err())
	return e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: id,
		Parameters:  params,
	}))
}

func intParams(a, b int32) map[string]api.ParameterValue {
	return map[string]api.ParameterValue{
		"val1": api.NewInteger(a),
		"val2": api.NewInteger(b),
	}
}

func TestAddProducesResultAndEvidence(t *testing.T) {
	resp := run(t, "arithmetic-int-add", intParams(2, 3))
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)

	result, err := resp.Output.Output[0]["result"].AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int32(5), result)

	require.Len(t, resp.Output.Evidence[0], 1)
	ev := resp.Output.Evidence[0][0]
	assert.Equal(t, "Arithmetic Operation", ev.Label)
	assert.Equal(t, api.EvidenceTextual, ev.Content.Tag)
	assert.Contains(t, ev.Content.Value, "2 + 3 = 5")
}

func TestDivideByZero(t *testing.T) {
	resp := run(t, "arithmetic-int-div", intParams(1, 0))
	require.Equal(t, api.ResponseError, resp.Tag)
	assert.Equal(t, api.ErrorEngineProcessing, resp.Error.Kind)
}

func TestCounterState(t *testing.T) {
	e := arithmetic.New()

	inc := api.InstructionCall{Instruction: "arithmetic-counter-inc"}
	resp := e.Handle(api.RunRequest(inc, inc))
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)
	second, _ := resp.Output.Output[1]["value"].AsInteger()
	assert.Equal(t, int32(2), second)

	e.Handle(api.ResetStateRequest())
	resp = e.Handle(api.RunRequest(inc))
	first, _ := resp.Output.Output[0]["value"].AsInteger()
	assert.Equal(t, int32(1), first)
}
