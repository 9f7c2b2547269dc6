package transport_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/internal/engines/arithmetic"
	"github.com/veriflow-io/veriflow/internal/transport"
	"github.com/veriflow-io/veriflow/pkg/api"
)

func TestLocalRoundTrip(t *testing.T) {
	tr := transport.NewLocal(arithmetic.New())
	defer func() { _ = tr.Close() }()

	resp, err := tr.Call(context.Background(), api.InstructionsRequest())
	require.NoError(t, err)
	require.Equal(t, api.ResponseInstructions, resp.Tag)
	assert.Equal(t, "Arithmetic", resp.Catalog.FriendlyName)

	resp, err = tr.Call(context.Background(), api.RunRequest(
		api.InstructionCall{
			Instruction: "arithmetic-int-add",
			Parameters: map[string]api.ParameterValue{
				"val1": api.NewInteger(2),
				"val2": api.NewInteger(3),
			},
		}))
	require.NoError(t, err)
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)
	result, err := resp.Output.Output[0]["result"].AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int32(5), result)
}

// An engine-reported error is a normal response, not a transport failure.
func TestLocalEngineErrorIsNotTransportFailure(t *testing.T) {
	tr := transport.NewLocal(arithmetic.New())

	resp, err := tr.Call(context.Background(), api.RunRequest(
		api.InstructionCall{Instruction: "no-such-instruction"}))
	require.NoError(t, err)
	require.Equal(t, api.ResponseError, resp.Tag)
	assert.Equal(t, api.ErrorInvalidInstruction, resp.Error.Kind)
}
