// Package transport carries wire requests to engines and returns their
// responses, whether the engine is a spawned process, a loaded plugin, or a
// native in-process handler.
//
// Failures at this layer (process crashed, undecodable bytes) are reported
// as Go errors wrapping ErrIPCFailure. Engine-reported protocol errors come
// back as ordinary responses with the Error tag and are never conflated with
// transport failures
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/veriflow-io/veriflow/pkg/api"
)

type (
	// Transport delivers one request to an engine and returns its response
	Transport interface {
		// Call performs a full request/response round trip
		Call(ctx context.Context, req *api.Request) (*api.Response, error)

		// Close releases the engine's transport resources
		Close() error
	}
)

var (
	ErrIPCFailure   = errors.New("ipc failure")
	ErrNotCompliant = errors.New("engine does not follow the entry contract")
)

func encodeRequest(req *api.Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %w", ErrIPCFailure, err)
	}
	return data, nil
}

func decodeResponse(data []byte) (*api.Response, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrIPCFailure)
	}
	var resp api.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrIPCFailure, err)
	}
	return &resp, nil
}
