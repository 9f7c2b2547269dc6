package evidence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriflow-io/veriflow/internal/engines/evidence"
	"github.com/veriflow-io/veriflow/pkg/api"
)

func TestAddText(t *testing.T) {
	e := evidence.New()
	require.NoError(t, e.Err())

	resp := e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: "evidence-add-text",
		Parameters: map[string]api.ParameterValue{
			"label":   api.NewString("Checkpoint"),
			"content": api.NewString("reached step 3"),
		},
	}))
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)

	require.Len(t, resp.Output.Evidence, 1)
	require.Len(t, resp.Output.Evidence[0], 1)
	ev := resp.Output.Evidence[0][0]
	assert.Equal(t, "Checkpoint", ev.Label)
	assert.Equal(t, api.EvidenceTextual, ev.Content.Tag)
	assert.Equal(t, "reached step 3", ev.Content.Value)
}

func TestAddImageRequiresSpecialKind(t *testing.T) {
	e := evidence.New()

	// a plain string is not the declared image type
	resp := e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: "evidence-add-image",
		Parameters: map[string]api.ParameterValue{
			"label": api.NewString("Screenshot"),
			"image": api.NewString("aGVsbG8="),
		},
	}))
	require.Equal(t, api.ResponseError, resp.Tag)
	assert.Equal(t, api.ErrorInvalidParameterType, resp.Error.Kind)

	resp = e.Handle(api.RunRequest(api.InstructionCall{
		Instruction: "evidence-add-image",
		Parameters: map[string]api.ParameterValue{
			"label": api.NewString("Screenshot"),
			"image": api.NewSpecial("image-png-base64", "aGVsbG8="),
		},
	}))
	require.Equal(t, api.ResponseExecutionOutput, resp.Tag)
	ev := resp.Output.Evidence[0][0]
	assert.Equal(t, api.EvidenceImagePNG, ev.Content.Tag)
	assert.Equal(t, "aGVsbG8=", ev.Content.Value)
}
