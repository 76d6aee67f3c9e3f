// Package drag tracks the single stack currently carried by the cursor.
package drag

import (
	"errors"

	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/transfer"
)

var (
	ErrAlreadyHolding = errors.New("already holding an item")
	ErrEmptySlot      = errors.New("slot is empty")
	ErrSlotPending    = errors.New("slot is waiting on the host")
	ErrNotHolding     = errors.New("not holding an item")
)

// Mode selects how much of a stack is picked up.
type Mode int

const (
	ModeFull Mode = iota
	ModeHalf
	ModeSingle
	ModeAmount
)

func (m Mode) String() string {
	switch m {
	case ModeHalf:
		return "half"
	case ModeSingle:
		return "single"
	case ModeAmount:
		return "amount"
	default:
		return "full"
	}
}

// State is the session's position in its two-state machine.
type State int

const (
	Idle State = iota
	Holding
)

// Held is the carried copy and where it came from.
type Held struct {
	Container *inventory.Container
	Slot      int
	Stack     *inventory.Item
	Carried   *inventory.Item
}

// Origin converts the held stack for the transfer resolver.
func (h *Held) Origin() transfer.Origin {
	return transfer.Origin{
		Container: h.Container,
		Slot:      h.Slot,
		Stack:     h.Stack.Clone(),
		Carried:   h.Carried.Clone(),
	}
}

// CarryCount returns how many units a pick-up in mode takes from a stack of
// count. amount only applies to ModeAmount.
func CarryCount(count int, mode Mode, amount int) int {
	switch mode {
	case ModeHalf:
		return (count + 1) / 2
	case ModeSingle:
		return 1
	case ModeAmount:
		return max(1, min(amount, count))
	default:
		return count
	}
}

// Session holds at most one carried stack.
type Session struct {
	held *Held
}

func NewSession() *Session {
	return &Session{}
}

// Hold picks up part or all of the stack in slot.
func (s *Session) Hold(c *inventory.Container, slot int, mode Mode, amount int) (*Held, error) {
	if s.held != nil {
		return nil, ErrAlreadyHolding
	}
	if c.IsDisabled(slot) {
		return nil, ErrSlotPending
	}

	stack, ok := c.Item(slot)
	if !ok {
		return nil, ErrEmptySlot
	}

	carried := stack.Clone()
	carried.Count = CarryCount(stack.Count, mode, amount)

	s.held = &Held{
		Container: c,
		Slot:      slot,
		Stack:     stack,
		Carried:   carried,
	}
	return s.held, nil
}

// Held returns the current carry, if any.
func (s *Session) Held() (*Held, bool) {
	return s.held, s.held != nil
}

func (s *Session) State() State {
	if s.held != nil {
		return Holding
	}
	return Idle
}

// Release ends the session and returns what was held, for resolving a drop.
func (s *Session) Release() (*Held, error) {
	if s.held == nil {
		return nil, ErrNotHolding
	}
	h := s.held
	s.held = nil
	return h, nil
}

// Cancel drops the carry without a transfer.
func (s *Session) Cancel() {
	s.held = nil
}

// CancelFrom cancels the session if the carry came from c.
func (s *Session) CancelFrom(c *inventory.Container) bool {
	if s.held == nil || s.held.Container != c {
		return false
	}
	s.held = nil
	return true
}
