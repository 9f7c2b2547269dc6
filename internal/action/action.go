// Package action loads and executes user-authored actions: Lua scripts with
// a typed signature declared in descriptor comments, addressed by stable IDs
// so flows survive renames
package action

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/veriflow-io/veriflow/pkg/api"
)

type (
	// Action is one loadable action document. Its human-facing metadata and
	// typed signature live in the script's descriptor comments; the document
	// itself carries only identity, the script, and the instructions the
	// script depends on
	Action struct {
		Version              int       `json:"version"`
		ID                   uuid.UUID `json:"id"`
		Script               string    `json:"script"`
		RequiredInstructions []string  `json:"required_instructions"`

		meta signature
	}

	// signature is everything parsed out of the descriptor comments
	signature struct {
		name        string
		group       string
		creator     string
		description string
		hidden      bool
		parameters  []api.NamedKind
		outputs     []api.NamedKind
	}
)

// DocumentVersion is the only action document version this build reads
const DocumentVersion = 3

var (
	ErrDocumentVersion  = errors.New("unsupported action document version")
	ErrBadDescriptor    = errors.New("invalid action descriptor")
	ErrUnknownParamKind = errors.New("unknown parameter kind in descriptor")
)

var (
	descriptorLine = regexp.MustCompile(`^--:\s*(\S+)(?:\s+(.*\S))?\s*$`)
	slotDescriptor = regexp.MustCompile(`^(\S+)\s+(.*\S)$`)
)

var descriptorKinds = map[string]api.ParameterKind{
	"String":  api.String,
	"Integer": api.Integer,
	"Decimal": api.Decimal,
	"Boolean": api.Boolean,
}

// Parse validates the document and extracts the signature from the script's
// descriptor comments. It must be called once before any other accessor
func (a *Action) Parse() error {
	if a.Version != DocumentVersion {
		return fmt.Errorf("%w: %d", ErrDocumentVersion, a.Version)
	}
	meta, err := parseDescriptors(a.Script)
	if err != nil {
		return fmt.Errorf("action %s: %w", a.ID, err)
	}
	a.meta = *meta
	return nil
}

// Name returns the action's display name
func (a *Action) Name() string {
	return a.meta.name
}

// Group returns the palette group the action sorts under
func (a *Action) Group() string {
	return a.meta.group
}

// Creator returns the action's author attribution
func (a *Action) Creator() string {
	return a.meta.creator
}

// Description returns the action's long description
func (a *Action) Description() string {
	return a.meta.description
}

// Hidden reports whether the action is kept out of the flow editor palette
func (a *Action) Hidden() bool {
	return a.meta.hidden
}

// Parameters returns the declared inputs in descriptor order. Slot IDs are
// positional, so editing the signature changes the contract
func (a *Action) Parameters() []api.NamedKind {
	return a.meta.parameters
}

// Outputs returns the declared return values in descriptor order
func (a *Action) Outputs() []api.NamedKind {
	return a.meta.outputs
}

// SignatureEqual reports whether another action declares the same parameter
// and output kinds in the same order. Names may differ; only the typed shape
// matters to saved configurations
func (a *Action) SignatureEqual(other *Action) bool {
	return kindsEqual(a.meta.parameters, other.meta.parameters) &&
		kindsEqual(a.meta.outputs, other.meta.outputs)
}

func kindsEqual(a, b []api.NamedKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Kind.Equal(b[i].Kind) {
			return false
		}
	}
	return true
}

func parseDescriptors(source string) (*signature, error) {
	meta := &signature{}
	for _, line := range strings.Split(source, "\n") {
		m := descriptorLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key, rest := m[1], m[2]
		switch key {
		case "name":
			meta.name = rest
		case "group":
			meta.group = rest
		case "creator":
			meta.creator = rest
		case "description":
			meta.description = rest
		case "hide-in-flow-editor":
			meta.hidden = true
		case "param":
			slot, err := parseSlot(rest, len(meta.parameters))
			if err != nil {
				return nil, err
			}
			meta.parameters = append(meta.parameters, slot)
		case "return":
			slot, err := parseSlot(rest, len(meta.outputs))
			if err != nil {
				return nil, err
			}
			meta.outputs = append(meta.outputs, slot)
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadDescriptor, key)
		}
	}
	return meta, nil
}

func parseSlot(rest string, index int) (api.NamedKind, error) {
	m := slotDescriptor.FindStringSubmatch(rest)
	if m == nil {
		return api.NamedKind{},
			fmt.Errorf("%w: want \"<Kind> <Name>\", got %q",
				ErrBadDescriptor, rest)
	}
	kind, ok := descriptorKinds[m[1]]
	if !ok {
		return api.NamedKind{},
			fmt.Errorf("%w: %q", ErrUnknownParamKind, m[1])
	}
	return api.NamedKind{
		ID:   fmt.Sprintf("%d", index),
		Name: m[2],
		Kind: kind,
	}, nil
}
