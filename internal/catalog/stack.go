package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StackLimit is the per-slot stack cap of an item. The host encodes it as
// true (unbounded), false or absent (1), or an integer cap.
type StackLimit struct {
	unbounded bool
	max       int
	// numeric is set when the host gave an explicit number, which also caps
	// shop cart lines.
	numeric bool
}

// Unbounded returns a limit with no cap.
func Unbounded() StackLimit {
	return StackLimit{unbounded: true}
}

// NotStackable is the limit for false or absent: one unit per slot.
func NotStackable() StackLimit {
	return StackLimit{max: 1}
}

// Limit returns a limit capped at n. Values below 1 mean not stackable.
func Limit(n int) StackLimit {
	if n < 1 {
		return NotStackable()
	}
	return StackLimit{max: n, numeric: true}
}

// Max returns the cap and true, or 0 and false when unbounded.
func (s StackLimit) Max() (int, bool) {
	if s.unbounded {
		return 0, false
	}
	if s.max < 1 {
		return 1, true
	}
	return s.max, true
}

// Numeric reports whether the cap was given as an explicit number.
func (s StackLimit) Numeric() bool {
	return s.numeric
}

// Stackable reports whether more than one unit can share a slot.
func (s StackLimit) Stackable() bool {
	m, capped := s.Max()
	return !capped || m > 1
}

// Allows reports whether a stack of total units fits in one slot.
func (s StackLimit) Allows(total int) bool {
	m, capped := s.Max()
	return !capped || total <= m
}

func (s StackLimit) MarshalJSON() ([]byte, error) {
	m, capped := s.Max()
	switch {
	case !capped:
		return []byte("true"), nil
	case !s.numeric:
		return []byte("false"), nil
	default:
		return json.Marshal(m)
	}
}

func (s *StackLimit) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decoding stack limit: %w", err)
	}
	return s.set(raw)
}

func (s *StackLimit) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decoding stack limit: %w", err)
	}
	return s.set(raw)
}

func (s *StackLimit) set(raw any) error {
	switch v := raw.(type) {
	case nil:
		*s = NotStackable()
	case bool:
		if v {
			*s = Unbounded()
		} else {
			*s = NotStackable()
		}
	case float64:
		*s = Limit(int(v))
	case int:
		*s = Limit(v)
	default:
		return fmt.Errorf("stack limit must be a bool or number, got %T", raw)
	}
	return nil
}
