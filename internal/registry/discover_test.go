package registry_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/internal/registry"
	"github.com/veriflow-io/veriflow/pkg/api"
)

// scriptCatalog builds the catalog response a fixture engine answers with
func scriptCatalog(t *testing.T, name, namespace, instructionID string) string {
	t.Helper()
	resp := &api.Response{
		Tag: api.ResponseInstructions,
		Catalog: &api.Catalog{
			FriendlyName:    name,
			EngineVersion:   "1.0.0",
			ScriptNamespace: namespace,
			ProtocolVersion: api.ProtocolVersion,
			Instructions: []*api.Instruction{
				api.NewInstruction(instructionID, "say", "Say", "").
					WithParameter("input", "Input", api.String).
					WithOutput("output", "Output", api.String),
			},
		},
	}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(data)
}

func writeEngineScript(t *testing.T, dir, file, output string) {
	t.Helper()
	script := "#!/bin/sh\necho '" + output + "'\n"
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
}

func TestDiscoverRegistersExecutables(t *testing.T) {
	dir := t.TempDir()
	writeEngineScript(t, dir, "alpha.sh", scriptCatalog(t, "Alpha", "alpha", "alpha-say"))

	// engines in nested directories are found too
	sub := filepath.Join(dir, "extra")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeEngineScript(t, sub, "beta.sh", scriptCatalog(t, "Beta", "beta", "beta-say"))

	// a plain data file is not an engine candidate
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("not an engine"), 0o644))

	reg := registry.New()
	require.NoError(t, reg.Discover(context.Background(), dir))

	assert.Len(t, reg.Engines(), 2)
	_, ok := reg.Instruction("alpha-say")
	assert.True(t, ok)
	_, ok = reg.Instruction("beta-say")
	assert.True(t, ok)
}

func TestDiscoverSkipsBrokenCandidate(t *testing.T) {
	dir := t.TempDir()
	writeEngineScript(t, dir, "broken.sh", "this is not a catalog")
	writeEngineScript(t, dir, "alpha.sh", scriptCatalog(t, "Alpha", "alpha", "alpha-say"))

	reg := registry.New()
	require.NoError(t, reg.Discover(context.Background(), dir))

	require.Len(t, reg.Engines(), 1)
	assert.Equal(t, "Alpha", reg.Engines()[0].Name)
}

func TestDiscoverAbortsOnInstructionCollision(t *testing.T) {
	dir := t.TempDir()
	writeEngineScript(t, dir, "alpha.sh", scriptCatalog(t, "Alpha", "alpha", "shared-say"))
	writeEngineScript(t, dir, "zz-clash.sh", scriptCatalog(t, "Clash", "clash", "shared-say"))

	reg := registry.New()
	err := reg.Discover(context.Background(), dir)
	assert.ErrorIs(t, err, registry.ErrDuplicateInstruction)
}

func TestDiscoverMissingDirectory(t *testing.T) {
	reg := registry.New()
	err := reg.Discover(context.Background(),
		filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
