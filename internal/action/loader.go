package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/veriflow-io/veriflow/pkg/log"
)

// Library is the set of loaded actions, indexed by ID
type Library struct {
	actions map[uuid.UUID]*Action
	ordered []*Action
}

var (
	ErrDuplicateAction = errors.New("action id loaded twice")
	ErrUnknownAction   = errors.New("unknown action")
)

// NewLibrary creates an empty action library
func NewLibrary() *Library {
	return &Library{actions: map[uuid.UUID]*Action{}}
}

// LoadDir walks dir recursively and loads every .json action document. A
// document that fails to parse is logged and skipped; two documents claiming
// the same ID abort the load, since flows address actions by that ID
func (l *Library) LoadDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		act, err := LoadFile(path)
		if err != nil {
			slog.Warn("Skipping action", log.Path(path), log.Error(err))
			return nil
		}
		if err := l.Add(act); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}

// LoadFile reads and parses one action document
func LoadFile(path string) (*Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Load parses an action document from raw JSON. The version is peeked before
// decoding so an unsupported document fails closed instead of half-reading
func Load(data []byte) (*Action, error) {
	version := gjson.GetBytes(data, "version")
	if !version.Exists() || version.Int() != DocumentVersion {
		return nil, fmt.Errorf("%w: %s", ErrDocumentVersion, version.Raw)
	}

	var act Action
	if err := json.Unmarshal(data, &act); err != nil {
		return nil, err
	}
	if err := act.Parse(); err != nil {
		return nil, err
	}
	return &act, nil
}

// Add registers one parsed action
func (l *Library) Add(act *Action) error {
	if _, ok := l.actions[act.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, act.ID)
	}
	l.actions[act.ID] = act
	l.ordered = append(l.ordered, act)
	return nil
}

// Get looks up an action by ID
func (l *Library) Get(id uuid.UUID) (*Action, error) {
	act, ok := l.actions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, id)
	}
	return act, nil
}

// Actions returns every loaded action in load order
func (l *Library) Actions() []*Action {
	return l.ordered
}

// MissingInstructions collects, per action, the required instruction IDs the
// given lookup cannot resolve. An empty result means every action can run
func (l *Library) MissingInstructions(
	missing func(required []string) []string,
) map[uuid.UUID][]string {
	result := map[uuid.UUID][]string{}
	for _, act := range l.ordered {
		if m := missing(act.RequiredInstructions); len(m) > 0 {
			result[act.ID] = m
		}
	}
	return result
}
