package overlay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-inventory/internal/crafting"
	"github.com/pixil98/go-inventory/internal/drag"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/shop"
	"github.com/pixil98/go-inventory/internal/transfer"
)

// Hold picks up a stack to drag.
func (s *Store) Hold(ctx context.Context, side Side, slot int, mode drag.Mode, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.Hold(s.container(side), slot, mode, amount); err != nil {
		return s.reject(ctx, err)
	}
	return nil
}

// Drop releases the carried stack onto a slot. The drag ends whether or not
// the transfer is accepted.
func (s *Store) Drop(ctx context.Context, side Side, slot int) (transfer.Kind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.session.Release()
	if err != nil {
		return transfer.KindNoop, s.reject(ctx, err)
	}

	cur, ok := h.Container.Item(h.Slot)
	if !ok || cur.Name != h.Stack.Name {
		return transfer.KindNoop, s.reject(ctx, ErrOriginChanged)
	}
	origin := h.Origin()
	origin.Stack = cur
	origin.Carried.Count = min(origin.Carried.Count, cur.Count)

	d, err := s.resolver.Resolve(origin, transfer.Destination{Container: s.container(side), Slot: slot})
	if err != nil {
		return transfer.KindNoop, s.reject(ctx, err)
	}
	if err := s.apply(ctx, d); err != nil {
		return transfer.KindNoop, err
	}
	return d.Kind, nil
}

// CancelDrag puts the carried stack back without telling the host.
func (s *Store) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Cancel()
}

// QuickTransfer sends a whole stack to the other container.
func (s *Store) QuickTransfer(ctx context.Context, side Side, slot int) (transfer.Kind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.State() == drag.Holding {
		return transfer.KindNoop, s.reject(ctx, drag.ErrAlreadyHolding)
	}

	d, err := s.resolver.QuickTransfer(s.container(side), slot, s.other(side))
	if err != nil {
		return transfer.KindNoop, s.reject(ctx, err)
	}
	if err := s.apply(ctx, d); err != nil {
		return transfer.KindNoop, err
	}
	return d.Kind, nil
}

func (s *Store) apply(ctx context.Context, d transfer.Decision) error {
	if d.Kind == transfer.KindNoop {
		return nil
	}
	if _, err := s.engine.Apply(ctx, d); err != nil {
		return s.reject(ctx, err)
	}
	s.cue(ctx, protocol.CueDrag)
	return nil
}

// UseSlot asks the host to use the stack in a player slot and locks the slot
// until the host answers.
func (s *Store) UseSlot(ctx context.Context, side Side, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.use(ctx, s.container(side), slot)
}

// UseHeld uses the carried stack. The drag ends once the request is sent.
func (s *Store) UseHeld(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.session.Held()
	if !ok {
		return s.reject(ctx, drag.ErrNotHolding)
	}
	if err := s.use(ctx, h.Container, h.Slot); err != nil {
		return err
	}
	s.session.Cancel()
	return nil
}

func (s *Store) use(ctx context.Context, c *inventory.Container, slot int) error {
	if !s.resolver.IsPlayer(c) {
		return s.reject(ctx, ErrNotPlayerSlot)
	}
	if s.inUse {
		return s.reject(ctx, ErrInUse)
	}
	if c.IsDisabled(slot) {
		return s.reject(ctx, transfer.ErrSlotPending)
	}
	it, ok := c.Item(slot)
	if !ok {
		return s.reject(ctx, transfer.ErrEmptySlot)
	}
	def, ok := s.defs.Lookup(it.Name)
	if !ok {
		return s.reject(ctx, transfer.ErrUnknownItem)
	}
	if !def.Usable {
		return s.reject(ctx, ErrNotUsable)
	}
	if def.IsBroken(it.EffectiveCreateDate(), s.now()) {
		return s.reject(ctx, ErrBroken)
	}

	s.cue(ctx, protocol.CueSelect)
	s.send(ctx, protocol.EventUseItem, protocol.UseRequest{
		Owner:   c.Owner,
		Slot:    slot,
		InvType: c.Type,
	})
	c.SetDisabled(slot, true)
	return nil
}

// CanGive reports whether the carried stack may be handed to another player.
func (s *Store) CanGive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.canGive() == nil
}

func (s *Store) canGive() error {
	h, ok := s.session.Held()
	switch {
	case !ok:
		return drag.ErrNotHolding
	case !s.playersNearby, s.defs.Len() == 0, s.secondary.Shop, s.inUse:
		return ErrCannotGive
	case !s.resolver.IsPlayer(h.Container) || h.Container.Owner != s.player.Owner:
		return ErrCannotGive
	}

	def, ok := s.defs.Lookup(h.Stack.Name)
	if !ok || !def.IsDurable(h.Stack.EffectiveCreateDate(), s.now()) {
		return ErrCannotGive
	}
	return nil
}

// GiveHeld starts handing the carried stack to a nearby player. The host
// answers with the list of candidates.
func (s *Store) GiveHeld(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canGive(); err != nil {
		return s.reject(ctx, err)
	}

	h, _ := s.session.Held()
	s.pendingGive = &PendingGive{
		Owner:    h.Container.Owner,
		Slot:     h.Slot,
		InvType:  h.Container.Type,
		ItemName: h.Stack.Name,
		Count:    h.Carried.Count,
	}
	s.session.Cancel()

	s.cue(ctx, protocol.CueSelect)
	s.send(ctx, protocol.EventGetNearbyPlayers, nil)
	return nil
}

// SelectGiveTarget completes a give to the chosen player.
func (s *Store) SelectGiveTarget(ctx context.Context, serverId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingGive == nil {
		return s.reject(ctx, ErrNoPendingGive)
	}
	known := false
	for _, p := range s.nearby {
		if p.ServerId == serverId {
			known = true
			break
		}
	}
	if !known {
		return s.reject(ctx, fmt.Errorf("%w: %d", ErrUnknownPlayer, serverId))
	}

	g := s.pendingGive
	s.cue(ctx, protocol.CueSelect)
	s.send(ctx, protocol.EventGiveItem, protocol.GiveRequest{
		TargetServerId: serverId,
		Owner:          g.Owner,
		Slot:           g.Slot,
		InvType:        g.InvType,
		ItemName:       g.ItemName,
		Count:          g.Count,
	})
	s.nearby = nil
	s.pendingGive = nil
	return nil
}

// CancelGive closes the player picker.
func (s *Store) CancelGive(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nearby = nil
	s.pendingGive = nil
	s.cue(ctx, protocol.CueBack)
}

// AddToCart adds one unit of the shop stack in slot to the cart.
func (s *Store) AddToCart(ctx context.Context, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.secondary.Shop {
		return s.reject(ctx, ErrNotShop)
	}
	it, ok := s.secondary.Item(slot)
	if !ok {
		return s.reject(ctx, transfer.ErrEmptySlot)
	}
	def, ok := s.defs.Lookup(it.Name)
	if !ok {
		return s.reject(ctx, transfer.ErrUnknownItem)
	}

	price := def.Price
	if it.Price != nil {
		price = *it.Price
	}
	if err := s.cart.Add(it.Name, slot, price, def.Stackable, it.Count); err != nil {
		return s.reject(ctx, err)
	}
	s.cue(ctx, protocol.CueSelect)
	return nil
}

func (s *Store) RemoveFromCart(ctx context.Context, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.Remove(item); err != nil {
		return s.reject(ctx, err)
	}
	s.cue(ctx, protocol.CueBack)
	return nil
}

func (s *Store) UpdateCartQuantity(ctx context.Context, item string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.UpdateQuantity(item, qty); err != nil {
		return s.reject(ctx, err)
	}
	return nil
}

func (s *Store) SetPaymentMethod(ctx context.Context, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := shop.ParseMethod(method)
	if err != nil {
		return s.reject(ctx, err)
	}
	s.cart.SetMethod(m)
	return nil
}

// Purchase submits the cart. The host answers with a success or failure
// message.
func (s *Store) Purchase(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.secondary.Shop {
		return s.reject(ctx, ErrNotShop)
	}
	req, err := s.cart.BeginPurchase(s.secondary.Owner, s.secondary.Type)
	if err != nil {
		return s.reject(ctx, err)
	}

	if err := s.host.Send(ctx, protocol.EventPurchaseCart, req); err != nil {
		s.cart.EndPurchase()
		return s.reject(ctx, fmt.Errorf("sending purchase: %w", err))
	}
	slog.InfoContext(ctx, "purchase submitted", "shop", s.secondary.Owner, "items", len(req.Items), "total", req.TotalPrice)
	return nil
}

// SelectRecipe moves the bench cursor.
func (s *Store) SelectRecipe(ctx context.Context, idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bench == nil {
		return s.reject(ctx, ErrNoBench)
	}
	if idx < 0 || idx >= len(s.bench.Recipes) {
		return s.reject(ctx, fmt.Errorf("%w: index %d", ErrUnknownRecipe, idx))
	}
	s.bench.Current = idx
	return nil
}

// StartCraft asks the host to craft qty of a recipe and starts tracking it
// once the host accepts. Only one start may be in flight at a time.
func (s *Store) StartCraft(ctx context.Context, recipeId string, qty int) error {
	s.mu.Lock()
	req, recipe, err := s.craftRequest(recipeId, qty)
	if err != nil {
		err = s.reject(ctx, err)
		s.mu.Unlock()
		return err
	}
	s.craftStarting = true
	s.mu.Unlock()

	raw, err := s.host.Call(ctx, protocol.EventCraftStart, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.craftStarting = false

	if err != nil {
		return s.reject(ctx, fmt.Errorf("starting craft: %w", err))
	}
	if err := craftAccepted(raw); err != nil {
		return s.reject(ctx, err)
	}

	s.cue(ctx, protocol.CueSelect)
	s.tracker.Start(recipe.Id, s.now(), time.Duration(recipe.Time*int64(req.Qty))*time.Millisecond)
	return nil
}

// craftAccepted reads the host's answer to a craft start. An object is
// checked for an error field; anything else must be truthy.
func craftAccepted(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var resp protocol.CraftResponse
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrHostRefused, err)
		}
		if resp.Refused() {
			return fmt.Errorf("%w: %v", ErrHostRefused, resp.Error)
		}
		return nil
	}
	if !truthy(trimmed) {
		return ErrHostRefused
	}
	return nil
}

func (s *Store) craftRequest(recipeId string, qty int) (protocol.CraftRequest, protocol.Recipe, error) {
	if s.bench == nil {
		return protocol.CraftRequest{}, protocol.Recipe{}, ErrNoBench
	}
	recipe, ok := s.bench.Recipe(recipeId)
	if !ok {
		return protocol.CraftRequest{}, protocol.Recipe{}, fmt.Errorf("%w: %s", ErrUnknownRecipe, recipeId)
	}
	if s.tracker.Active() || s.craftStarting {
		return protocol.CraftRequest{}, protocol.Recipe{}, ErrCrafting
	}
	if wait, on := crafting.Cooldown(recipe, s.bench.Cooldowns, s.now()); on {
		return protocol.CraftRequest{}, protocol.Recipe{}, fmt.Errorf("%w: available in %s", ErrOnCooldown, wait.Round(time.Second))
	}

	qty = crafting.ClampQty(recipe, qty)
	if !crafting.HasReagents(recipe, qty, s.bench.Counts) {
		return protocol.CraftRequest{}, protocol.Recipe{}, ErrMissingReagents
	}

	return protocol.CraftRequest{
		Bench:  s.bench.Id,
		Qty:    qty,
		Result: recipe.Id,
	}, recipe, nil
}

// CancelCraft asks the host to stop the active craft.
func (s *Store) CancelCraft(ctx context.Context) error {
	s.mu.Lock()
	if !s.tracker.Active() {
		err := s.reject(ctx, ErrNotCrafting)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	raw, err := s.host.Call(ctx, protocol.EventCraftCancel, struct{}{})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		return s.reject(ctx, fmt.Errorf("cancelling craft: %w", err))
	}
	if !truthy(raw) {
		return s.reject(ctx, ErrHostRefused)
	}
	s.tracker.End()
	s.cue(ctx, protocol.CueBack)
	return nil
}

// Close hides the overlay and tells the host.
func (s *Store) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hidden = true
	s.session.Cancel()
	s.cart.Clear()
	s.send(ctx, protocol.EventClose, nil)
}

// UpdateSettings merges a partial settings change and sends the result.
func (s *Store) UpdateSettings(ctx context.Context, patch protocol.SettingsData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mergeSettings(patch)
	s.send(ctx, protocol.EventUpdateSettings, s.settings)
}

func (s *Store) mergeSettings(patch protocol.SettingsData) {
	if patch.Muted != nil {
		s.settings.Muted = *patch.Muted
	}
	if patch.UseBank != nil {
		s.settings.UseBank = *patch.UseBank
	}
}

// SubmitAction forwards a free-form action string to the host.
func (s *Store) SubmitAction(ctx context.Context, action string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.send(ctx, protocol.EventSubmitAction, protocol.ActionRequest{Action: action})
}

// Notify asks the host to show a game notification.
func (s *Store) Notify(ctx context.Context, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.send(ctx, protocol.EventSendNotify, protocol.NotifyRequest{Message: msg})
}

// truthy reads a host answer the loose way the host writes it.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
