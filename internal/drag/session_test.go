package drag

import (
	"errors"
	"testing"

	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-testutil"
)

func TestCarryCount(t *testing.T) {
	tests := map[string]struct {
		count  int
		mode   Mode
		amount int
		exp    int
	}{
		"full":              {count: 7, mode: ModeFull, exp: 7},
		"half rounds up":    {count: 7, mode: ModeHalf, exp: 4},
		"half of even":      {count: 8, mode: ModeHalf, exp: 4},
		"half of one":       {count: 1, mode: ModeHalf, exp: 1},
		"single":            {count: 7, mode: ModeSingle, exp: 1},
		"amount":            {count: 7, mode: ModeAmount, amount: 5, exp: 5},
		"amount clamps low": {count: 7, mode: ModeAmount, amount: 0, exp: 1},
		"amount clamps top": {count: 7, mode: ModeAmount, amount: 30, exp: 7},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "carried", CarryCount(tt.count, tt.mode, tt.amount), tt.exp)
		})
	}
}

func TestSession_Hold(t *testing.T) {
	tests := map[string]struct {
		slot    int
		pending bool
		holding bool
		expErr  error
	}{
		"picks up":        {slot: 1},
		"empty slot":      {slot: 2, expErr: ErrEmptySlot},
		"pending slot":    {slot: 1, pending: true, expErr: ErrSlotPending},
		"already holding": {slot: 1, holding: true, expErr: ErrAlreadyHolding},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := inventory.NewContainer("char-1", inventory.TypePlayer, 5)
			_ = c.PatchSlot(1, &inventory.Item{Name: "burger", Count: 7})
			_ = c.PatchSlot(3, &inventory.Item{Name: "water", Count: 1})
			if tt.pending {
				c.SetDisabled(tt.slot, true)
			}

			s := NewSession()
			if tt.holding {
				if _, err := s.Hold(c, 3, ModeFull, 0); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			h, err := s.Hold(c, tt.slot, ModeHalf, 0)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "state", s.State(), Holding)
			testutil.AssertEqual(t, "carried", h.Carried.Count, 4)
			testutil.AssertEqual(t, "stack", h.Stack.Count, 7)
			testutil.AssertEqual(t, "split", h.Origin().Carried.Count != h.Origin().Stack.Count, true)

			stillThere, _ := c.Item(tt.slot)
			testutil.AssertEqual(t, "container untouched", stillThere.Count, 7)
		})
	}
}

func TestSession_ReleaseAndCancel(t *testing.T) {
	player := inventory.NewContainer("char-1", inventory.TypePlayer, 5)
	stash := inventory.NewContainer("stash", 2, 5)
	_ = stash.PatchSlot(1, &inventory.Item{Name: "rock", Count: 1})

	s := NewSession()
	if _, err := s.Release(); !errors.Is(err, ErrNotHolding) {
		t.Fatalf("expected ErrNotHolding, got %v", err)
	}

	if _, err := s.Hold(stash, 1, ModeFull, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "other container", s.CancelFrom(player), false)
	testutil.AssertEqual(t, "origin container", s.CancelFrom(stash), true)
	testutil.AssertEqual(t, "state", s.State(), Idle)

	if _, err := s.Hold(stash, 1, ModeFull, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, err := s.Release()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "released slot", h.Slot, 1)
	testutil.AssertEqual(t, "idle after release", s.State(), Idle)
}
