package regex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/internal/engines/regex"
	"github.com/veriflow-io/veriflow/pkg/api"
)

func strParams(pairs ...string) map[string]api.ParameterValue {
	params := map[string]api.ParameterValue{}
	for i := 0; i+1 < len(pairs); i += 2 {
		params[pairs[i]] = api.NewString(pairs[i+1])
	}
	return params
}

func TestMatch(t *testing.T) {
	e := regex.New()
	require.NoError(t, e.Err())

	resp := e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: "regex-match",
		Parameters:  strParams("regex", `^a+$`, "input", "aaa"),
	}))
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)
	matched, err := resp.Output.Output[0]["match"].AsBoolean()
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestValidateFailsWithScriptMessage(t *testing.T) {
	e := regex.New()

	resp := e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: "regex-validate",
		Parameters: strParams(
			"regex", `^\d+$`, "input", "abc", "error", "expected digits"),
	}))
	require.Equal(t, api.ResponseError, resp.Tag)
	assert.Equal(t, api.ErrorEngineProcessing, resp.Error.Kind)
	assert.Equal(t, "expected digits", resp.Error.Reason)
}

func TestBadPattern(t *testing.T) {
	e := regex.New()

	resp := e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: "regex-match",
		Parameters:  strParams("regex", `(`, "input", "x"),
	}))
	require.Equal(t, api.ResponseError, resp.Tag)
	assert.Contains(t, resp.Error.Reason, "invalid regex")
}
