// Package overlay owns the overlay's root state. Every user action and host
// message goes through the Store, which serializes them like an event loop.
package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/crafting"
	"github.com/pixil98/go-inventory/internal/drag"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/notify"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/shop"
	"github.com/pixil98/go-inventory/internal/transfer"
	"github.com/shopspring/decimal"
)

// Host is the script on the other side of the bridge. Send is fire and
// forget; Call waits for the host's answer.
type Host interface {
	Send(ctx context.Context, event string, data any) error
	Call(ctx context.Context, event string, data any) (json.RawMessage, error)
}

// Side picks one of the two visible containers.
type Side int

const (
	SidePlayer Side = iota
	SideSecondary
)

func (s Side) String() string {
	if s == SideSecondary {
		return "secondary"
	}
	return "player"
}

func ParseSide(s string) (Side, error) {
	switch s {
	case "p", "player":
		return SidePlayer, nil
	case "s", "secondary":
		return SideSecondary, nil
	default:
		return SidePlayer, fmt.Errorf("unknown side %q", s)
	}
}

type Mode string

const (
	ModeInventory Mode = "inventory"
	ModeCrafting  Mode = "crafting"
)

// PendingGive is the stack waiting for the player to pick a recipient.
type PendingGive struct {
	Owner    inventory.Owner
	Slot     int
	InvType  inventory.Type
	ItemName string
	Count    int
}

// Store is the single state container for one overlay session.
type Store struct {
	host       Host
	now        func() time.Time
	playerType inventory.Type

	defs     *catalog.Catalog
	resolver *transfer.Resolver
	engine   *transfer.Engine
	tracker  *crafting.Tracker

	mu            sync.Mutex
	player        *inventory.Container
	secondary     *inventory.Container
	showSecondary bool
	hidden        bool
	mode          Mode
	settings      protocol.Settings
	showHotbar    bool
	hotbar        []*inventory.Item
	equipped      *inventory.Item
	equipment     inventory.ItemList
	tooltip       *inventory.Item
	session       *drag.Session
	inUse         bool
	cart          *shop.Cart
	bench         *crafting.Bench
	alerts        *notify.Feed
	nearby        []protocol.NearbyPlayer
	playersNearby bool
	pendingGive   *PendingGive
	craftStarting bool
}

type StoreOpt func(*Store)

// WithPlayerType sets the inventory type tag of the player's own container.
func WithPlayerType(t inventory.Type) StoreOpt {
	return func(s *Store) {
		s.playerType = t
	}
}

func WithClock(now func() time.Time) StoreOpt {
	return func(s *Store) {
		s.now = now
	}
}

func WithCatalog(c *catalog.Catalog) StoreOpt {
	return func(s *Store) {
		s.defs = c
	}
}

func WithAlertLimit(n int) StoreOpt {
	return func(s *Store) {
		s.alerts = notify.NewFeed(notify.WithLimit(n), notify.WithClock(s.clock))
	}
}

func NewStore(host Host, opts ...StoreOpt) *Store {
	s := &Store{
		host:       host,
		now:        time.Now,
		playerType: inventory.TypePlayer,
		hidden:     true,
		mode:       ModeInventory,
		session:    drag.NewSession(),
		cart:       shop.NewCart(),
	}
	s.alerts = notify.NewFeed(notify.WithClock(s.clock))

	for _, opt := range opts {
		opt(s)
	}

	if s.defs == nil {
		s.defs = catalog.New(nil)
	}
	s.player = inventory.NewContainer("", s.playerType, 0)
	s.secondary = inventory.NewContainer("", 0, 0)
	s.resolver = transfer.NewResolver(s.defs, transfer.WithPlayerType(s.playerType))
	s.engine = transfer.NewEngine(host)
	s.tracker = crafting.NewTracker(host, crafting.WithClock(s.clock))

	return s
}

func (s *Store) clock() time.Time {
	return s.now()
}

// Catalog exposes the item definitions for readers.
func (s *Store) Catalog() catalog.Lookup {
	return s.defs
}

// Tracker is ticked by the driver to advance the active craft.
func (s *Store) Tracker() *crafting.Tracker {
	return s.tracker
}

func (s *Store) container(side Side) *inventory.Container {
	if side == SideSecondary {
		return s.secondary
	}
	return s.player
}

func (s *Store) other(side Side) *inventory.Container {
	if side == SideSecondary {
		return s.player
	}
	return s.secondary
}

// cue asks the host to play a front-end sound. Callers hold mu.
func (s *Store) cue(ctx context.Context, c protocol.Cue) {
	if err := s.host.Send(ctx, protocol.EventFrontEndSound, protocol.SoundRequest{Sound: c}); err != nil {
		slog.WarnContext(ctx, "sending sound cue", "sound", c, "error", err)
	}
}

// reject plays the deny cue and returns err unchanged.
func (s *Store) reject(ctx context.Context, err error) error {
	slog.DebugContext(ctx, "action rejected", "error", err)
	s.cue(ctx, protocol.CueDisabled)
	return err
}

func (s *Store) send(ctx context.Context, event string, data any) {
	if data == nil {
		data = struct{}{}
	}
	if err := s.host.Send(ctx, event, data); err != nil {
		slog.WarnContext(ctx, "sending to host", "event", event, "error", err)
	}
}

// HeldView describes the carried stack.
type HeldView struct {
	Side    Side
	Slot    int
	Stack   *inventory.Item
	Carried *inventory.Item
}

// View is a deep copy of the store's state.
type View struct {
	Hidden        bool
	Mode          Mode
	Settings      protocol.Settings
	ItemsLoaded   bool
	Player        *inventory.Container
	Secondary     *inventory.Container
	ShowSecondary bool
	ShowHotbar    bool
	Hotbar        []*inventory.Item
	Equipped      *inventory.Item
	Equipment     inventory.ItemList
	Tooltip       *inventory.Item
	Held          *HeldView
	InUse         bool
	Cart          []shop.Line
	CartTotal     decimal.Decimal
	PaymentMethod shop.Method
	Purchasing    bool
	Bench         *crafting.Bench
	Craft         *crafting.Progress
	Alerts        []notify.Alert
	Nearby        []protocol.NearbyPlayer
	PlayersNearby bool
	PendingGive   *PendingGive
}

func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Hidden:        s.hidden,
		Mode:          s.mode,
		Settings:      s.settings,
		ItemsLoaded:   s.defs.Loaded(),
		Player:        s.player.Clone(),
		Secondary:     s.secondary.Clone(),
		ShowSecondary: s.showSecondary,
		ShowHotbar:    s.showHotbar,
		Hotbar:        cloneItems(s.hotbar),
		Equipped:      s.equipped.Clone(),
		Equipment:     inventory.ItemList(cloneItems(s.equipment)),
		Tooltip:       s.tooltip.Clone(),
		InUse:         s.inUse,
		Cart:          s.cart.Lines(),
		CartTotal:     s.cart.Total(),
		PaymentMethod: s.cart.Method(),
		Purchasing:    s.cart.Purchasing(),
		Bench:         s.bench.Clone(),
		Alerts:        s.alerts.All(),
		Nearby:        slices.Clone(s.nearby),
		PlayersNearby: s.playersNearby,
	}

	if h, ok := s.session.Held(); ok {
		side := SidePlayer
		if h.Container == s.secondary {
			side = SideSecondary
		}
		v.Held = &HeldView{
			Side:    side,
			Slot:    h.Slot,
			Stack:   h.Stack.Clone(),
			Carried: h.Carried.Clone(),
		}
	}
	if p, ok := s.tracker.Progress(); ok {
		v.Craft = &p
	}
	if s.pendingGive != nil {
		g := *s.pendingGive
		v.PendingGive = &g
	}

	return v
}

func cloneItems(items []*inventory.Item) []*inventory.Item {
	if items == nil {
		return nil
	}
	out := make([]*inventory.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
