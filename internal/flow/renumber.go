package flow

import (
	"errors"
	"fmt"

	"github.com/veriflow-io/veriflow/internal/action"
)

// The edit operations are pure: they return a renumbered copy of the step
// list and never touch their input. Editors apply the result wholesale,
// which keeps undo trivial and makes the renumbering directly testable

var ErrStepIndex = errors.New("step index out of range")

// RemoveStep removes step k. Later references to k degrade to Literal (the
// stored value takes over); references beyond k shift down by one
func RemoveStep(steps []*ActionConfiguration, k int) ([]*ActionConfiguration, error) {
	if k < 0 || k >= len(steps) {
		return nil, fmt.Errorf("%w: remove %d of %d", ErrStepIndex, k, len(steps))
	}
	out := make([]*ActionConfiguration, 0, len(steps)-1)
	for i, cfg := range steps {
		if i == k {
			continue
		}
		c := cfg.clone()
		retargetSources(c, func(src ParameterSource) ParameterSource {
			switch {
			case src.Step == k:
				return Literal()
			case src.Step > k:
				src.Step--
			}
			return src
		})
		out = append(out, c)
	}
	return out, nil
}

// InsertStep inserts cfg so that it becomes step k. References at or beyond
// k shift up by one
func InsertStep(
	steps []*ActionConfiguration, k int, cfg *ActionConfiguration,
) ([]*ActionConfiguration, error) {
	if k < 0 || k > len(steps) {
		return nil, fmt.Errorf("%w: insert %d of %d", ErrStepIndex, k, len(steps))
	}
	out := make([]*ActionConfiguration, 0, len(steps)+1)
	for _, c := range steps {
		out = append(out, c.clone())
	}
	for _, c := range out {
		retargetSources(c, func(src ParameterSource) ParameterSource {
			if src.Step >= k {
				src.Step++
			}
			return src
		})
	}
	out = append(out[:k], append(
		[]*ActionConfiguration{cfg.clone()}, out[k:]...)...)
	return out, nil
}

// MoveStep cuts step from and pastes it so that it becomes step to.
// References to the moving step follow it when it lands before them; a
// reference that would have to point forward after the paste degrades to
// Literal instead
func MoveStep(
	steps []*ActionConfiguration, from, to int,
) ([]*ActionConfiguration, error) {
	if from < 0 || from >= len(steps) {
		return nil, fmt.Errorf("%w: move from %d of %d",
			ErrStepIndex, from, len(steps))
	}
	if to < 0 || to >= len(steps) {
		return nil, fmt.Errorf("%w: move to %d of %d",
			ErrStepIndex, to, len(steps))
	}

	// cut, marking references to the moving step as pending instead of
	// degrading them, so they can reattach after the paste
	moved := steps[from].clone()
	rest := make([]*ActionConfiguration, 0, len(steps)-1)
	for i, cfg := range steps {
		if i == from {
			continue
		}
		c := cfg.clone()
		retargetSources(c, func(src ParameterSource) ParameterSource {
			switch {
			case src.Step == from:
				src.Kind = sourcePending
			case src.Step > from:
				src.Step--
			}
			return src
		})
		rest = append(rest, c)
	}
	// the moved step cannot reference itself; only the shift applies
	retargetSources(moved, func(src ParameterSource) ParameterSource {
		if src.Step > from {
			src.Step--
		}
		return src
	})

	// paste, shifting non-pending references that now sit at or beyond the
	// paste position
	for _, c := range append(rest[:len(rest):len(rest)], moved) {
		retargetSources(c, func(src ParameterSource) ParameterSource {
			if src.Kind != sourcePending && src.Step >= to {
				src.Step++
			}
			return src
		})
	}
	out := append(rest[:to], append(
		[]*ActionConfiguration{moved}, rest[to:]...)...)

	// resolve pending references against the step's final position, and
	// degrade anything no longer strictly backward
	for j, c := range out {
		retargetSources(c, func(src ParameterSource) ParameterSource {
			if src.Kind == sourcePending {
				if to < j {
					return FromPriorStepOutput(to, src.Output)
				}
				return Literal()
			}
			if src.Step >= j {
				return Literal()
			}
			return src
		})
	}
	return out, nil
}

// UpdateActionSignature invalidates every configuration of act whose stored
// signature no longer matches the action's declared parameters: its sources
// reset to Literal with kind-appropriate defaults. Returns the affected step
// indices so the caller can notify the user
func UpdateActionSignature(
	steps []*ActionConfiguration, act *action.Action,
) []int {
	var affected []int
	params := act.Parameters()
	for i, cfg := range steps {
		if cfg.ActionID != act.ID || cfg.matchesSignature(params) {
			continue
		}
		cfg.reset(params)
		affected = append(affected, i)
	}
	return affected
}

func retargetSources(
	c *ActionConfiguration, f func(ParameterSource) ParameterSource,
) {
	for idx, src := range c.Sources {
		if src.Kind != SourceFromPriorStepOutput && src.Kind != sourcePending {
			continue
		}
		c.Sources[idx] = f(src)
	}
}
