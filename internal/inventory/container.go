// Package inventory models slot-indexed item containers and how host
// snapshots reconcile with optimistic local changes.
package inventory

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"

	"github.com/pixil98/go-inventory/internal/catalog"
)

var (
	ErrSlotOutOfRange = errors.New("slot out of range")
)

// Snapshot is the host's authoritative push of one container.
type Snapshot struct {
	Size           int       `json:"size"`
	InvType        Type      `json:"invType"`
	Name           string    `json:"name"`
	Inventory      ItemList  `json:"inventory"`
	Disabled       SlotFlags `json:"disabled,omitempty"`
	Owner          Owner     `json:"owner"`
	Capacity       float64   `json:"capacity"`
	WeaponEligible bool      `json:"isWeaponEligble,omitempty"`
	Shop           bool      `json:"shop,omitempty"`
}

// Container is one owner's bounded set of slots plus the overlay of slots
// with a transfer awaiting host confirmation.
type Container struct {
	Owner          Owner
	Type           Type
	Name           string
	Size           int
	Capacity       float64
	Shop           bool
	WeaponEligible bool

	items    map[int]*Item
	disabled map[int]bool
}

// NewContainer creates an empty container.
func NewContainer(owner Owner, typ Type, size int) *Container {
	return &Container{
		Owner:    owner,
		Type:     typ,
		Size:     size,
		items:    map[int]*Item{},
		disabled: map[int]bool{},
	}
}

// FromSnapshot builds a container holding exactly snap.
func FromSnapshot(snap Snapshot) *Container {
	return Reconcile(nil, snap)
}

// Reconcile returns the container that results from applying snap on top of
// prev without modifying prev. Confirmed items are always replaced. The
// pending overlay is taken from the snapshot when it carries one; otherwise
// pending slots of the same owner and type survive only where the snapshot
// leaves the slot empty.
func Reconcile(prev *Container, snap Snapshot) *Container {
	next := &Container{
		Owner:          snap.Owner,
		Type:           snap.InvType,
		Name:           snap.Name,
		Size:           snap.Size,
		Capacity:       snap.Capacity,
		Shop:           snap.Shop,
		WeaponEligible: snap.WeaponEligible,
		items:          make(map[int]*Item, len(snap.Inventory)),
		disabled:       map[int]bool{},
	}

	for _, it := range snap.Inventory {
		if it.Count < 1 {
			continue
		}
		if _, dup := next.items[it.Slot]; dup {
			slog.Warn("snapshot has more than one stack in a slot", "owner", snap.Owner, "type", snap.InvType, "slot", it.Slot)
		}
		next.items[it.Slot] = it.Clone()
	}

	switch {
	case snap.Disabled != nil:
		for slot, d := range snap.Disabled {
			if d {
				next.disabled[slot] = true
			}
		}
	case prev != nil && prev.Owner == snap.Owner && prev.Type == snap.InvType:
		for slot, d := range prev.disabled {
			if _, occupied := next.items[slot]; d && !occupied {
				next.disabled[slot] = true
			}
		}
	}

	return next
}

// SetInventory replaces the container with an authoritative snapshot.
func (c *Container) SetInventory(snap Snapshot) {
	*c = *Reconcile(c, snap)
}

// Contains reports whether slot is addressable in the container.
func (c *Container) Contains(slot int) bool {
	return slot >= 1 && slot <= c.Size
}

// PatchSlot inserts, updates, or removes the stack in slot. A nil item or a
// count below one empties the slot.
func (c *Container) PatchSlot(slot int, it *Item) error {
	if !c.Contains(slot) {
		return fmt.Errorf("patching slot %d of %d: %w", slot, c.Size, ErrSlotOutOfRange)
	}
	if c.items == nil {
		c.items = map[int]*Item{}
	}

	if it == nil || it.Count < 1 {
		delete(c.items, slot)
		return nil
	}

	next := it.Clone()
	next.Slot = slot
	c.items[slot] = next
	return nil
}

// SetSlot applies a single-slot host update. The item is only touched when
// hasItem is set; a nil item then clears the slot.
func (c *Container) SetSlot(slot int, disabled bool, it *Item, hasItem bool) error {
	c.SetDisabled(slot, disabled)
	if !hasItem {
		return nil
	}
	return c.PatchSlot(slot, it)
}

// Item returns a copy of the stack in slot.
func (c *Container) Item(slot int) (*Item, bool) {
	it, ok := c.items[slot]
	if !ok {
		return nil, false
	}
	return it.Clone(), true
}

func (c *Container) Occupied(slot int) bool {
	_, ok := c.items[slot]
	return ok
}

// Items returns copies of every stack in slot order.
func (c *Container) Items() []*Item {
	slots := make([]int, 0, len(c.items))
	for s := range c.items {
		slots = append(slots, s)
	}
	sort.Ints(slots)

	out := make([]*Item, 0, len(slots))
	for _, s := range slots {
		out = append(out, c.items[s].Clone())
	}
	return out
}

func (c *Container) Len() int {
	return len(c.items)
}

// FirstFree returns the lowest slot that is neither occupied nor pending.
func (c *Container) FirstFree() (int, bool) {
	for s := 1; s <= c.Size; s++ {
		if !c.Occupied(s) && !c.disabled[s] {
			return s, true
		}
	}
	return 0, false
}

func (c *Container) IsDisabled(slot int) bool {
	return c.disabled[slot]
}

func (c *Container) SetDisabled(slot int, disabled bool) {
	if c.disabled == nil {
		c.disabled = map[int]bool{}
	}
	if disabled {
		c.disabled[slot] = true
		return
	}
	delete(c.disabled, slot)
}

// Disabled returns a copy of the pending overlay.
func (c *Container) Disabled() map[int]bool {
	return maps.Clone(c.disabled)
}

// Count returns how many units of name the container holds.
func (c *Container) Count(name string) int {
	total := 0
	for _, it := range c.items {
		if it.Name == name {
			total += it.Count
		}
	}
	return total
}

// Weight sums definition weight times count. Unknown items weigh nothing.
func (c *Container) Weight(defs catalog.Lookup) float64 {
	total := 0.0
	for _, it := range c.items {
		if d, ok := defs.Lookup(it.Name); ok {
			total += d.Weight * float64(it.Count)
		}
	}
	return total
}

// Snapshot exports the container in the host's wire shape.
func (c *Container) Snapshot() Snapshot {
	return Snapshot{
		Size:           c.Size,
		InvType:        c.Type,
		Name:           c.Name,
		Inventory:      c.Items(),
		Disabled:       c.Disabled(),
		Owner:          c.Owner,
		Capacity:       c.Capacity,
		WeaponEligible: c.WeaponEligible,
		Shop:           c.Shop,
	}
}

func (c *Container) Clone() *Container {
	if c == nil {
		return nil
	}
	next := *c
	next.items = make(map[int]*Item, len(c.items))
	for s, it := range c.items {
		next.items[s] = it.Clone()
	}
	next.disabled = maps.Clone(c.disabled)
	if next.disabled == nil {
		next.disabled = map[int]bool{}
	}
	return &next
}

// Reset empties the container but keeps its pending overlay.
func (c *Container) Reset() {
	c.items = map[int]*Item{}
	c.Name = ""
	c.Size = 0
	c.Capacity = 0
	c.Shop = false
	c.WeaponEligible = false
}
