package transport

import (
	"context"
	"fmt"
	"plugin"

	"github.com/veriflow-io/veriflow/pkg/api"
)

type (
	// aliases so plugin symbol assertions see the plain function types
	callFunc    = func([]byte) []byte
	releaseFunc = func([]byte)

	// Plugin calls an engine loaded as a Go plugin. The engine exposes a
	// single entry point taking a request buffer and returning a response
	// buffer that the engine owns; ownership comes back across the boundary
	// and the transport must hand it back through the paired release entry
	// point exactly once per produced buffer
	Plugin struct {
		call    callFunc
		release releaseFunc
		path    string
	}
)

// Plugin entry point symbol names
const (
	CallSymbol    = "VFCall"
	ReleaseSymbol = "VFRelease"
)

// OpenPlugin loads an engine plugin and resolves its entry contract
func OpenPlugin(path string) (*Plugin, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrIPCFailure, path, err)
	}

	call, err := lookupFunc[callFunc](p, path, CallSymbol)
	if err != nil {
		return nil, err
	}
	release, err := lookupFunc[releaseFunc](p, path, ReleaseSymbol)
	if err != nil {
		return nil, err
	}

	return &Plugin{call: call, release: release, path: path}, nil
}

func (t *Plugin) Call(_ context.Context, req *api.Request) (*api.Response, error) {
	data, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	out, err := t.exchange(data)
	if err != nil {
		return nil, err
	}
	return decodeResponse(out)
}

func (t *Plugin) Close() error {
	// loaded plugins cannot be unloaded
	return nil
}

// exchange performs the raw buffer round trip. The response buffer is
// released on every path out of this function, so the caller only ever sees
// a copy it owns
func (t *Plugin) exchange(req []byte) (_ []byte, err error) {
	buf := t.call(req)
	if buf == nil {
		return nil, fmt.Errorf("%w: %s returned no response buffer",
			ErrIPCFailure, t.path)
	}
	defer t.release(buf)

	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func lookupFunc[F any](p *plugin.Plugin, path, symbol string) (F, error) {
	var zero F
	sym, err := p.Lookup(symbol)
	if err != nil {
		return zero, fmt.Errorf("%w: %s is missing %s",
			ErrNotCompliant, path, symbol)
	}
	fn, ok := sym.(F)
	if !ok {
		return zero, fmt.Errorf("%w: %s has the wrong type for %s",
			ErrNotCompliant, path, symbol)
	}
	return fn, nil
}
