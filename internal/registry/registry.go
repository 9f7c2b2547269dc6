// Package registry discovers engines, merges their instruction catalogs
// into one addressable index, and owns each engine's transport handle and
// state lifecycle for the life of the process
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/veriflow-io/veriflow/internal/transport"
	"github.com/veriflow-io/veriflow/internal/util"
	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/log"
)

type (
	// Engine is one registered engine. The registry owns it exclusively;
	// all requests go through Call, which keeps at most one request in
	// flight per engine
	Engine struct {
		mu           sync.Mutex
		tr           transport.Transport
		Name         string
		Version      string
		Namespace    string
		Instructions []*api.Instruction
	}

	entry struct {
		engine      *Engine
		instruction *api.Instruction
	}

	// Registry is the merged instruction index across all engines. It is
	// read-only after loading and safe for concurrent use
	Registry struct {
		engines []*Engine
		byID    map[string]entry
	}
)

var (
	ErrBadCatalog           = errors.New("engine did not return a catalog")
	ErrProtocolVersion      = errors.New("unsupported engine protocol version")
	ErrDuplicateNamespace   = errors.New("engine script namespace already registered")
	ErrDuplicateInstruction = errors.New("instruction id registered by multiple engines")
	ErrUnknownInstruction   = errors.New("unknown instruction")
	ErrResetFailed          = errors.New("engine state reset failed")
)

// Warning evidence recorded when an engine's state could not be reset
const (
	stateWarningLabel = "WARNING: State Warning"
	stateWarningText  = "For this test execution, the state couldn't be " +
		"correctly reset. Some results may not be accurate."
)

// New creates an empty registry
func New() *Registry {
	return &Registry{byID: map[string]entry{}}
}

// Add queries an engine's catalog over the given transport and merges it
// into the index. Two engines exposing the same instruction ID is a
// configuration error, never resolved by registration order
func (r *Registry) Add(ctx context.Context, tr transport.Transport) error {
	resp, err := tr.Call(ctx, api.InstructionsRequest())
	if err != nil {
		return err
	}
	if resp.Tag != api.ResponseInstructions || resp.Catalog == nil {
		return fmt.Errorf("%w: got %q", ErrBadCatalog, resp.Tag)
	}
	cat := resp.Catalog

	if cat.ProtocolVersion != api.ProtocolVersion {
		return fmt.Errorf("%w: engine %s speaks version %d",
			ErrProtocolVersion, cat.FriendlyName, cat.ProtocolVersion)
	}
	for _, e := range r.engines {
		if e.Namespace == cat.ScriptNamespace {
			return fmt.Errorf("%w: %q wanted by engine %s",
				ErrDuplicateNamespace, cat.ScriptNamespace, cat.FriendlyName)
		}
	}

	engine := &Engine{
		tr:           tr,
		Name:         cat.FriendlyName,
		Version:      cat.EngineVersion,
		Namespace:    cat.ScriptNamespace,
		Instructions: cat.Instructions,
	}

	for _, inst := range cat.Instructions {
		if err := inst.Check(); err != nil {
			return fmt.Errorf("engine %s: %w", cat.FriendlyName, err)
		}
		if prev, ok := r.byID[inst.ID]; ok {
			return fmt.Errorf("%w: %s exposed by %s and %s",
				ErrDuplicateInstruction, inst.ID,
				prev.engine.Name, cat.FriendlyName)
		}
	}
	for _, inst := range cat.Instructions {
		r.byID[inst.ID] = entry{engine: engine, instruction: inst}
	}
	r.engines = append(r.engines, engine)

	slog.Info("Registered engine",
		log.Engine(engine.Name),
		slog.String("version", engine.Version),
		slog.Int("instructions", len(engine.Instructions)))
	return nil
}

// Engines returns all registered engines in registration order
func (r *Registry) Engines() []*Engine {
	return r.engines
}

// Instruction looks up an instruction declaration by ID
func (r *Registry) Instruction(id string) (*api.Instruction, bool) {
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.instruction, true
}

// EngineFor returns the engine that exposes the given instruction
func (r *Registry) EngineFor(id string) (*Engine, bool) {
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.engine, true
}

// Missing returns the subset of required instruction IDs that no registered
// engine exposes, without duplicates, preserving order
func (r *Registry) Missing(required []string) []string {
	var missing []string
	seen := util.Set[string]{}
	for _, id := range required {
		if _, ok := r.byID[id]; ok {
			continue
		}
		if seen.Contains(id) {
			continue
		}
		seen.Add(id)
		missing = append(missing, id)
	}
	return missing
}

// ResetAll asks every engine to reset its state. A failing engine is
// recoverable but must be visible: it is downgraded to a warning evidence
// entry rather than aborting the caller's run
func (r *Registry) ResetAll(ctx context.Context) []api.Evidence {
	var warnings []api.Evidence
	for _, e := range r.engines {
		if err := e.ResetState(ctx); err != nil {
			slog.Warn("Engine state reset failed",
				log.Engine(e.Name), log.Error(err))
			warnings = append(warnings, api.Textual(
				stateWarningLabel, stateWarningText))
		}
	}
	return warnings
}

// Close releases every engine's transport
func (r *Registry) Close() error {
	var errs []error
	for _, e := range r.engines {
		errs = append(errs, e.tr.Close())
	}
	return errors.Join(errs...)
}

// Call sends one request to this engine. Requests are serialized so that
// concurrent executions sharing the engine never interleave on its
// transport handle
func (e *Engine) Call(ctx context.Context, req *api.Request) (*api.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tr.Call(ctx, req)
}

// ResetState returns the engine's state to its documented default
func (e *Engine) ResetState(ctx context.Context) error {
	resp, err := e.Call(ctx, api.ResetStateRequest())
	if err != nil {
		return err
	}
	if resp.Tag == api.ResponseError {
		return fmt.Errorf("%w: %w", ErrResetFailed, resp.Error)
	}
	if resp.Tag != api.ResponseStateReset {
		return fmt.Errorf("%w: got %q", ErrResetFailed, resp.Tag)
	}
	return nil
}
