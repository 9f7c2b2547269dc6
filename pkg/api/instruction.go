package api

import (
	"errors"
	"fmt"
	"regexp"
)

type (
	// NamedKind declares one named, typed parameter or output slot
	NamedKind struct {
		ID   string        `json:"id"`
		Name string        `json:"name"`
		Kind ParameterKind `json:"kind"`
	}

	// InstructionFlags carry informational hints about an instruction. They
	// are surfaced to editors and never enforced at runtime
	InstructionFlags uint8

	// Instruction describes one typed, named operation an engine can
	// execute. Instructions are immutable once registered
	Instruction struct {
		ID           string           `json:"id"`
		ScriptName   string           `json:"script_name"`
		FriendlyName string           `json:"friendly_name"`
		Description  string           `json:"description"`
		Flags        InstructionFlags `json:"flags,omitempty"`
		Parameters   []NamedKind      `json:"parameters"`
		Outputs      []NamedKind      `json:"outputs"`
	}

	// InstructionCall is a request to run one instruction with a parameter
	// map keyed by parameter ID
	InstructionCall struct {
		Instruction string                    `json:"instruction"`
		DryRun      bool                      `json:"dry_run"`
		Parameters  map[string]ParameterValue `json:"parameters"`
	}
)

const (
	// FlagPure marks an instruction without observable side effects
	FlagPure InstructionFlags = 1 << iota

	// FlagInfallible marks an instruction that cannot fail at runtime
	FlagInfallible

	// FlagAutomatic marks an instruction that needs no user interaction
	FlagAutomatic
)

var (
	ErrInvalidScriptName = errors.New("invalid script name")
	ErrDuplicateSlotID   = errors.New("duplicate parameter or output id")
)

// scriptNameOK matches valid identifiers in the embedded scripting language
var scriptNameOK = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewInstruction starts building an instruction declaration
func NewInstruction(id, scriptName, friendlyName, description string) *Instruction {
	return &Instruction{
		ID:           id,
		ScriptName:   scriptName,
		FriendlyName: friendlyName,
		Description:  description,
	}
}

// WithParameter appends a declared parameter slot
func (i *Instruction) WithParameter(id, name string, kind ParameterKind) *Instruction {
	i.Parameters = append(i.Parameters, NamedKind{ID: id, Name: name, Kind: kind})
	return i
}

// WithOutput appends a declared output slot
func (i *Instruction) WithOutput(id, name string, kind ParameterKind) *Instruction {
	i.Outputs = append(i.Outputs, NamedKind{ID: id, Name: name, Kind: kind})
	return i
}

// WithFlags sets the informational flag set
func (i *Instruction) WithFlags(flags InstructionFlags) *Instruction {
	i.Flags = flags
	return i
}

// Check verifies the structural invariants of a declaration: the script name
// must be a valid script identifier and slot IDs must be unique within their
// list
func (i *Instruction) Check() error {
	if !scriptNameOK.MatchString(i.ScriptName) {
		return fmt.Errorf("%w: %q for instruction %s",
			ErrInvalidScriptName, i.ScriptName, i.ID)
	}
	if err := checkSlotIDs(i.ID, i.Parameters); err != nil {
		return err
	}
	return checkSlotIDs(i.ID, i.Outputs)
}

// Validate checks a call against this declaration. Every declared parameter
// must be present with a value of exactly the declared kind. Outputs are
// produced, not supplied, and are not checked here. Validation is pure
func (i *Instruction) Validate(call *InstructionCall) *Error {
	for _, p := range i.Parameters {
		val, ok := call.Parameters[p.ID]
		if !ok {
			return &Error{
				Kind: ErrorMissingParameter,
				Reason: fmt.Sprintf("Missing parameter %s from call to %s",
					p.ID, call.Instruction),
			}
		}
		if !val.Kind().Equal(p.Kind) {
			return &Error{
				Kind: ErrorInvalidParameterType,
				Reason: fmt.Sprintf(
					"Invalid kind of parameter %s from call to %s",
					p.ID, call.Instruction),
			}
		}
	}
	return nil
}

func checkSlotIDs(instructionID string, slots []NamedKind) error {
	seen := map[string]struct{}{}
	for _, s := range slots {
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: %q in instruction %s",
				ErrDuplicateSlotID, s.ID, instructionID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
