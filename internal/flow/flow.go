// Package flow defines automation flow documents, the renumbering that keeps
// step references consistent across edits, and the executor that drives a
// flow's actions in order
package flow

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/veriflow-io/veriflow/internal/action"
	"github.com/veriflow-io/veriflow/pkg/api"
)

type (
	// ActionConfiguration is one flow step: the action it runs and, per
	// positional parameter index, where that parameter's value comes from.
	// Both maps always cover exactly the action's declared parameter
	// indices; a non-literal source keeps its stored value so degrading
	// back to Literal never loses data
	ActionConfiguration struct {
		ActionID uuid.UUID                  `json:"action_id"`
		Sources  map[int]ParameterSource    `json:"parameter_sources"`
		Values   map[int]api.ParameterValue `json:"parameter_values"`
	}

	// AutomationFlow is an ordered pipeline of action configurations
	AutomationFlow struct {
		Version int                    `json:"version"`
		Name    string                 `json:"name,omitempty"`
		Steps   []*ActionConfiguration `json:"actions"`
	}
)

// DocumentVersion is the only flow document version this build reads
const DocumentVersion = 1

var ErrFlowVersion = errors.New("unsupported flow document version")

// NewFlow creates an empty named flow at the current document version
func NewFlow(name string) *AutomationFlow {
	return &AutomationFlow{Version: DocumentVersion, Name: name}
}

// NewConfiguration creates a step for the given action with every parameter
// sourced as a kind-appropriate literal default
func NewConfiguration(act *action.Action) *ActionConfiguration {
	cfg := &ActionConfiguration{
		ActionID: act.ID,
		Sources:  map[int]ParameterSource{},
		Values:   map[int]api.ParameterValue{},
	}
	cfg.reset(act.Parameters())
	return cfg
}

// Load parses a flow document from raw JSON, refusing any version this build
// does not read rather than guessing at field meanings
func Load(data []byte) (*AutomationFlow, error) {
	version := gjson.GetBytes(data, "version")
	if !version.Exists() || version.Int() != DocumentVersion {
		return nil, fmt.Errorf("%w: %s", ErrFlowVersion, version.Raw)
	}
	var f AutomationFlow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// reset returns every source to Literal with default values, keyed exactly
// by the declared parameter indices
func (c *ActionConfiguration) reset(params []api.NamedKind) {
	c.Sources = make(map[int]ParameterSource, len(params))
	c.Values = make(map[int]api.ParameterValue, len(params))
	for i, p := range params {
		c.Sources[i] = Literal()
		c.Values[i] = p.Kind.DefaultValue()
	}
}

// matchesSignature reports whether the stored values still line up with the
// declared parameters, by count and kind
func (c *ActionConfiguration) matchesSignature(params []api.NamedKind) bool {
	if len(c.Values) != len(params) {
		return false
	}
	for i, p := range params {
		v, ok := c.Values[i]
		if !ok || !v.Kind().Equal(p.Kind) {
			return false
		}
	}
	return true
}

func (c *ActionConfiguration) clone() *ActionConfiguration {
	cfg := &ActionConfiguration{
		ActionID: c.ActionID,
		Sources:  make(map[int]ParameterSource, len(c.Sources)),
		Values:   make(map[int]api.ParameterValue, len(c.Values)),
	}
	for k, v := range c.Sources {
		cfg.Sources[k] = v
	}
	for k, v := range c.Values {
		cfg.Values[k] = v
	}
	return cfg
}
