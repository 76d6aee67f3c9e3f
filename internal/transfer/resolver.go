// Package transfer decides what a drop or quick transfer means and applies
// it optimistically to the affected containers.
package transfer

import (
	"fmt"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/inventory"
)

// Kind is the outcome of resolving a transfer.
type Kind int

const (
	KindNoop Kind = iota
	KindMerge
	KindSwap
	KindMove
)

func (k Kind) String() string {
	switch k {
	case KindMerge:
		return "merge"
	case KindSwap:
		return "swap"
	case KindMove:
		return "move"
	default:
		return "noop"
	}
}

// Variant classifies which containers a transfer crosses.
type Variant int

const (
	PlayerSame Variant = iota
	PlayerToSecondary
	SecondaryToPlayer
	SecondarySame
)

func (v Variant) String() string {
	switch v {
	case PlayerToSecondary:
		return "player-to-secondary"
	case SecondaryToPlayer:
		return "secondary-to-player"
	case SecondarySame:
		return "secondary-same"
	default:
		return "player-same"
	}
}

// Origin is where a carried stack was picked up. Stack is the full stack as
// it was when picked up; Carried is the possibly reduced copy in hand.
type Origin struct {
	Container *inventory.Container
	Slot      int
	Stack     *inventory.Item
	Carried   *inventory.Item
}

// Destination is the slot a stack is dropped on.
type Destination struct {
	Container *inventory.Container
	Slot      int
}

// Decision is a resolved transfer. DestItem is the stack that occupied the
// destination when the decision was made.
type Decision struct {
	Kind     Kind
	Variant  Variant
	Split    bool
	Origin   Origin
	Dest     Destination
	DestItem *inventory.Item
}

// Resolver is the pure rule set for transfers between two containers.
type Resolver struct {
	defs       catalog.Lookup
	playerType inventory.Type
}

type ResolverOpt func(*Resolver)

// WithPlayerType overrides the inventory type tag that marks the player's own
// container.
func WithPlayerType(t inventory.Type) ResolverOpt {
	return func(r *Resolver) {
		r.playerType = t
	}
}

func NewResolver(defs catalog.Lookup, opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		defs:       defs,
		playerType: inventory.TypePlayer,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// IsPlayer reports whether c is the player's own container.
func (r *Resolver) IsPlayer(c *inventory.Container) bool {
	return c != nil && c.Type == r.playerType
}

func (r *Resolver) variant(from, to *inventory.Container) Variant {
	switch fp, tp := r.IsPlayer(from), r.IsPlayer(to); {
	case fp && tp:
		return PlayerSame
	case fp:
		return PlayerToSecondary
	case tp:
		return SecondaryToPlayer
	default:
		return SecondarySame
	}
}

func isShopStack(c *inventory.Container, it *inventory.Item) bool {
	return c.Shop || (it != nil && it.Shop)
}

// Resolve decides what dropping the carried stack on dest does.
func (r *Resolver) Resolve(o Origin, dest Destination) (Decision, error) {
	if o.Container == nil || dest.Container == nil {
		return Decision{}, ErrNoContainer
	}
	if o.Carried == nil || o.Stack == nil {
		return Decision{}, ErrEmptySlot
	}

	d := Decision{
		Kind:    KindNoop,
		Variant: r.variant(o.Container, dest.Container),
		Split:   o.Carried.Count != o.Stack.Count,
		Origin:  o,
		Dest:    dest,
	}

	if o.Container == dest.Container && o.Slot == dest.Slot {
		return d, nil
	}

	if o.Container.IsDisabled(o.Slot) || dest.Container.IsDisabled(dest.Slot) {
		return Decision{}, ErrSlotPending
	}
	if !dest.Container.Contains(dest.Slot) {
		return Decision{}, fmt.Errorf("slot %d of %d: %w", dest.Slot, dest.Container.Size, ErrBadSlot)
	}

	def, ok := r.defs.Lookup(o.Carried.Name)
	if !ok {
		return Decision{}, fmt.Errorf("%s: %w", o.Carried.Name, ErrUnknownItem)
	}

	if r.IsPlayer(o.Container) && !r.IsPlayer(dest.Container) && dest.Container.Shop {
		return Decision{}, ErrShopSell
	}

	destItem, occupied := dest.Container.Item(dest.Slot)
	switch {
	case occupied && destItem.Name == o.Carried.Name && def.Stackable.Allows(destItem.Count+o.Carried.Count):
		d.Kind = KindMerge
	case occupied:
		// A swap out of a shop would hand the shop the player's stack.
		if isShopStack(o.Container, o.Stack) {
			return Decision{}, ErrShopSell
		}
		d.Kind = KindSwap
	default:
		d.Kind = KindMove
	}
	d.DestItem = destItem

	return d, nil
}

// QuickTransfer sends the whole stack in slot to the other container: onto
// the first stack of the same item with room, else into the lowest free slot.
func (r *Resolver) QuickTransfer(source *inventory.Container, slot int, target *inventory.Container) (Decision, error) {
	if source == nil {
		return Decision{}, ErrNoContainer
	}
	if target == nil || target.Owner == "" {
		return Decision{}, ErrNoSecondary
	}
	if source.IsDisabled(slot) {
		return Decision{}, ErrSlotPending
	}

	stack, ok := source.Item(slot)
	if !ok {
		return Decision{}, ErrEmptySlot
	}

	def, ok := r.defs.Lookup(stack.Name)
	if !ok {
		return Decision{}, fmt.Errorf("%s: %w", stack.Name, ErrUnknownItem)
	}

	if r.IsPlayer(source) && !r.IsPlayer(target) && target.Shop {
		return Decision{}, ErrShopSell
	}

	o := Origin{
		Container: source,
		Slot:      slot,
		Stack:     stack,
		Carried:   stack.Clone(),
	}
	d := Decision{
		Variant: r.variant(source, target),
		Origin:  o,
	}

	if def.Stackable.Stackable() {
		for _, candidate := range target.Items() {
			if candidate.Name != stack.Name || target.IsDisabled(candidate.Slot) {
				continue
			}
			if def.Stackable.Allows(candidate.Count + stack.Count) {
				d.Kind = KindMerge
				d.Dest = Destination{Container: target, Slot: candidate.Slot}
				d.DestItem = candidate
				return d, nil
			}
		}
	}

	free, ok := target.FirstFree()
	if !ok {
		return Decision{}, ErrDestinationFull
	}
	d.Kind = KindMove
	d.Dest = Destination{Container: target, Slot: free}
	return d, nil
}
