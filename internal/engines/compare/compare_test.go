package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/internal/engines/compare"
	"github.com/veriflow-io/veriflow/pkg/api"
)

func run(t *testing.T, id string, params map[string]api.ParameterValue) bool {
	t.Helper()
	e := compare.New()
	require.NoError(t, e.Err())
	resp := e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: id,
		Parameters:  params,
	}))
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)
	result, err := resp.Output.Output[0]["result"].AsBoolean()
	require.NoError(t, err)
	return result
}

func boolParams(a, b bool) map[string]api.ParameterValue {
	return map[string]api.ParameterValue{
		"val1": api.NewBoolean(a),
		"val2": api.NewBoolean(b),
	}
}

func TestEqualIntegers(t *testing.T) {
	params := map[string]api.ParameterValue{
		"val1": api.NewInteger(3),
		"val2": api.NewInteger(3),
	}
	assert.True(t, run(t, "compare-eq-ints", params))

	params["val2"] = api.NewInteger(4)
	assert.False(t, run(t, "compare-eq-ints", params))
}

func TestEqualStrings(t *testing.T) {
	params := map[string]api.ParameterValue{
		"val1": api.NewString("same"),
		"val2": api.NewString("same"),
	}
	assert.True(t, run(t, "compare-eq-str", params))

	params["val2"] = api.NewString("other")
	assert.False(t, run(t, "compare-eq-str", params))
}

func TestEqualBooleans(t *testing.T) {
	assert.True(t, run(t, "compare-eq-bool", boolParams(true, true)))
	assert.False(t, run(t, "compare-eq-bool", boolParams(true, false)))
}

func TestNot(t *testing.T) {
	params := map[string]api.ParameterValue{"val1": api.NewBoolean(true)}
	assert.False(t, run(t, "compare-not", params))

	params["val1"] = api.NewBoolean(false)
	assert.True(t, run(t, "compare-not", params))
}

func TestAnd(t *testing.T) {
	assert.True(t, run(t, "compare-and", boolParams(true, true)))
	assert.False(t, run(t, "compare-and", boolParams(true, false)))
}

func TestOr(t *testing.T) {
	assert.True(t, run(t, "compare-or", boolParams(false, true)))
	assert.False(t, run(t, "compare-or", boolParams(false, false)))
}
