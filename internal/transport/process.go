package transport

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/veriflow-io/veriflow/pkg/api"
)

type (
	// ProcessMode selects how a request reaches an engine process
	ProcessMode int

	// Process spawns an engine executable once per request. The request
	// travels as a single argument or as one line on standard input; the
	// response is the process's entire standard output
	Process struct {
		path string
		mode ProcessMode
	}
)

const (
	// ModeArgument passes the request JSON as the first argument
	ModeArgument ProcessMode = iota

	// ModeStdin writes the request JSON as one line on standard input
	ModeStdin
)

// NewProcess creates a process transport for the executable at path
func NewProcess(path string, mode ProcessMode) *Process {
	return &Process{path: path, mode: mode}
}

func (t *Process) Call(ctx context.Context, req *api.Request) (*api.Response, error) {
	data, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}

	var cmd *exec.Cmd
	switch t.mode {
	case ModeStdin:
		cmd = exec.CommandContext(ctx, t.path)
		cmd.Stdin = strings.NewReader(string(data) + "\n")
	default:
		cmd = exec.CommandContext(ctx, t.path, string(data))
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: engine process %s: %w",
			ErrIPCFailure, t.path, err)
	}

	return decodeResponse(bytes.TrimSpace(stdout.Bytes()))
}

func (t *Process) Close() error {
	return nil
}
