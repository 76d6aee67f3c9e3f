package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/protocol"
)

// Sender delivers a fire-and-forget call to the host.
type Sender interface {
	Send(ctx context.Context, event string, data any) error
}

// Patch sets one slot of one container. A nil Item empties the slot.
type Patch struct {
	Container *inventory.Container
	Slot      int
	Item      *inventory.Item
}

// Result is what Apply did locally and what it asked the host to do.
type Result struct {
	Patches []Patch
	Event   string
	Request protocol.TransferRequest
}

// Plan returns the optimistic patches for d without touching any container.
// A split move does not leave a remainder behind; the host's next update for
// the origin slot settles it.
func Plan(d Decision) []Patch {
	o, dest := d.Origin, d.Dest

	switch d.Kind {
	case KindMerge:
		merged := d.DestItem.Clone()
		merged.Count += d.Origin.Carried.Count
		patches := []Patch{}
		if !isShopStack(o.Container, o.Stack) {
			patches = append(patches, Patch{Container: o.Container, Slot: o.Slot})
		}
		return append(patches, Patch{Container: dest.Container, Slot: dest.Slot, Item: merged})

	case KindSwap:
		return []Patch{
			{Container: o.Container, Slot: o.Slot, Item: d.DestItem.Clone()},
			{Container: dest.Container, Slot: dest.Slot, Item: o.Stack.Clone()},
		}

	case KindMove:
		return []Patch{
			{Container: o.Container, Slot: o.Slot},
			{Container: dest.Container, Slot: dest.Slot, Item: o.Carried.Clone()},
		}
	}

	return nil
}

// Request builds the host call describing d.
func Request(d Decision) (string, protocol.TransferRequest) {
	req := protocol.TransferRequest{
		OwnerFrom:   d.Origin.Container.Owner,
		OwnerTo:     d.Dest.Container.Owner,
		SlotFrom:    d.Origin.Slot,
		SlotTo:      d.Dest.Slot,
		Name:        d.Origin.Carried.Name,
		CountFrom:   d.Origin.Stack.Count,
		CountTo:     d.Origin.Carried.Count,
		InvTypeFrom: d.Origin.Container.Type,
		InvTypeTo:   d.Dest.Container.Type,
		IsSplit:     d.Split,
	}

	switch d.Kind {
	case KindMerge:
		return protocol.EventMergeSlot, req
	case KindSwap:
		return protocol.EventSwapSlot, req
	default:
		return protocol.EventMoveSlot, req
	}
}

// Engine applies resolved transfers locally and reports them to the host.
type Engine struct {
	host Sender
}

func NewEngine(host Sender) *Engine {
	return &Engine{host: host}
}

// Apply patches both containers, locks both slots, and sends exactly one
// request. A failed send is logged; the host's next snapshot corrects any
// divergence.
func (e *Engine) Apply(ctx context.Context, d Decision) (*Result, error) {
	if d.Kind == KindNoop {
		return &Result{}, nil
	}

	patches := Plan(d)
	for _, p := range patches {
		if !p.Container.Contains(p.Slot) {
			return nil, fmt.Errorf("applying %s to slot %d: %w", d.Kind, p.Slot, inventory.ErrSlotOutOfRange)
		}
	}
	for _, p := range patches {
		if err := p.Container.PatchSlot(p.Slot, p.Item); err != nil {
			return nil, fmt.Errorf("applying %s: %w", d.Kind, err)
		}
	}
	d.Origin.Container.SetDisabled(d.Origin.Slot, true)
	d.Dest.Container.SetDisabled(d.Dest.Slot, true)

	event, req := Request(d)
	if err := e.host.Send(ctx, event, req); err != nil {
		slog.WarnContext(ctx, "transfer request failed", "event", event, "slotFrom", req.SlotFrom, "slotTo", req.SlotTo, "error", err)
	}

	slog.DebugContext(ctx, "transfer applied", "kind", d.Kind, "variant", d.Variant, "item", req.Name, "split", d.Split)

	return &Result{
		Patches: patches,
		Event:   event,
		Request: req,
	}, nil
}
