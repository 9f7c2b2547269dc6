package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/pkg/api"
)

func TestRequestRoundTrip(t *testing.T) {
	reqs := []*api.Request{
		api.InstructionsRequest(),
		api.ResetStateRequest(),
		api.RunRequest(api.InstructionCall{
			Instruction: "arithmetic-int-add",
			Parameters: map[string]api.ParameterValue{
				"val1": api.NewInteger(2),
				"val2": api.NewInteger(3),
			},
		}),
	}

	for _, req := range reqs {
		data, err := json.Marshal(req)
		require.NoError(t, err)

		var back api.Request
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, req.Tag, back.Tag)
		if req.Run != nil {
			require.NotNil(t, back.Run)
			assert.Equal(t, req.Run.Calls, back.Run.Calls)
		}
	}
}

func TestResponseRoundTrip(t *testing.T) {
	resp := &api.Response{
		Tag: api.ResponseInstructions,
		Catalog: &api.Catalog{
			FriendlyName:    "Arithmetic",
			EngineVersion:   "1.0.0",
			ScriptNamespace: "Arithmetic",
			ProtocolVersion: api.ProtocolVersion,
			Instructions:    []*api.Instruction{addInstruction()},
		},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var back api.Response
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Catalog)
	assert.Equal(t, "Arithmetic", back.Catalog.FriendlyName)
	require.Len(t, back.Catalog.Instructions, 1)
	assert.Equal(t, "arithmetic-int-add", back.Catalog.Instructions[0].ID)
}

// Output and evidence arrays must stay aligned with the request's call order
// through a wire round trip.
func TestExecutionOutputAlignment(t *testing.T) {
	resp := &api.Response{
		Tag: api.ResponseExecutionOutput,
		Output: &api.ExecutionOutput{
			Output: []api.OutputMap{
				{"result": api.NewInteger(4)},
				{"result": api.NewInteger(9)},
			},
			Evidence: [][]api.Evidence{
				{api.Textual("Arithmetic Operation", "2 + 2 = 4")},
				{},
			},
		},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var back api.Response
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Output)
	require.Len(t, back.Output.Output, 2)
	require.Len(t, back.Output.Evidence, 2)

	result, err := back.Output.Output[0]["result"].AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int32(4), result)
	assert.Equal(t, "2 + 2 = 4", back.Output.Evidence[0][0].Content.Value)
	assert.Empty(t, back.Output.Evidence[1])
}

func TestErrorResponse(t *testing.T) {
	resp := api.ErrorResponse(api.ErrorInvalidInstruction, "no such instruction")

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"t":"Error","v":{"kind":"InvalidInstruction","reason":"no such instruction"}}`,
		string(data))

	var back api.Response
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Error)
	assert.Equal(t, "InvalidInstruction: no such instruction", back.Error.Error())
}

func TestUnknownTagsRejected(t *testing.T) {
	var req api.Request
	assert.ErrorIs(t,
		json.Unmarshal([]byte(`{"t":"Nonsense"}`), &req),
		api.ErrUnknownRequestTag)

	var resp api.Response
	assert.ErrorIs(t,
		json.Unmarshal([]byte(`{"t":"Nonsense"}`), &resp),
		api.ErrUnknownResponseTag)
}
