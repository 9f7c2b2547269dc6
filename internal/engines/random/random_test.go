package random_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/internal/engines/random"
	"github.com/veriflow-io/veriflow/pkg/api"
)

func TestIntBetweenStaysInBounds(t *testing.T) {
	e := random.New()
	require.NoError(t, e.Err())

	for range 50 {
		resp := e.Handle(api.RunRequest(api.InstructionCall{
			Instruction: "rand-int-between",
			Parameters: map[string]api.ParameterValue{
				"min": api.NewInteger(-3),
				"max": api.NewInteger(3),
			},
		}))
		require.Equal(t, api.ResponseExecutionOutput, resp.Tag)
		n, err := resp.Output.Output[0]["result"].AsInteger()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int32(-3))
		assert.LessOrEqual(t, n, int32(3))
	}
}

func TestIntBetweenRejectsInvertedBounds(t *testing.T) {
	e := random.New()

	resp := e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: "rand-int-between",
		Parameters: map[string]api.ParameterValue{
			"min": api.NewInteger(5),
			"max": api.NewInteger(1),
		},
	}))
	require.Equal(t, api.ResponseError, resp.Tag)
	assert.Equal(t, api.ErrorEngineProcessing, resp.Error.Kind)
}

func TestUUID(t *testing.T) {
	e := random.New()

	resp := e.Handle(api.RunRequest(
		api.InstructionCall{Instruction: "rand-uuid"}))
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)
	s, err := resp.Output.Output[0]["result"].AsString()
	require.NoError(t, err)
	_, err = uuid.Parse(s)
	assert.NoError(t, err)
}
