package transport

import (
	"context"
	"encoding/json"

	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

// Local adapts a native engine to the transport interface. Requests still
// round-trip through the wire encoding so native engines see exactly the
// same bytes an external engine would
type Local struct {
	handler sdk.Handler
}

// NewLocal wraps a native engine handler
func NewLocal(h sdk.Handler) *Local {
	return &Local{handler: h}
}

func (t *Local) Call(_ context.Context, req *api.Request) (*api.Response, error) {
	data, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	resp := sdk.HandleRaw(t.handler, data)

	// re-encode so the response also passes through the wire shape
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return decodeResponse(raw)
}

func (t *Local) Close() error {
	return nil
}
