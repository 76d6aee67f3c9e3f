package overlay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/crafting"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/protocol"
)

// Handle applies one host message. Unknown types are logged and ignored; a
// message that cannot be decoded leaves the state untouched.
func (s *Store) Handle(ctx context.Context, msg protocol.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case protocol.AppShow:
		s.hidden = false

	case protocol.AppHide:
		s.hidden = true
		s.session.Cancel()
		if s.bench != nil {
			s.bench.Recipes = nil
		}
		s.cart.Clear()

	case protocol.SetMode:
		var d protocol.ModeData
		if len(msg.Data) > 0 {
			if err := msg.Decode(&d); err != nil {
				return err
			}
		}
		s.mode = ModeInventory
		if Mode(d.Mode) == ModeCrafting {
			s.mode = ModeCrafting
		}

	case protocol.SetPlayerInventory:
		var snap inventory.Snapshot
		if err := msg.Decode(&snap); err != nil {
			return err
		}
		snap.InvType = s.playerType
		s.player.SetInventory(snap)

	case protocol.SetSecondaryInventory:
		var snap inventory.Snapshot
		if err := msg.Decode(&snap); err != nil {
			return err
		}
		if snap.Owner != s.secondary.Owner || snap.InvType != s.secondary.Type {
			s.session.CancelFrom(s.secondary)
		}
		s.secondary.SetInventory(snap)

	case protocol.ShowSecondary:
		s.showSecondary = true

	case protocol.HideSecondary:
		s.showSecondary = false
		s.session.CancelFrom(s.secondary)
		s.secondary.SetInventory(inventory.Snapshot{})
		s.cart.Clear()

	case protocol.SetPlayerSlot:
		return s.setSlot(msg, s.player)

	case protocol.SetSecondarySlot:
		return s.setSlot(msg, s.secondary)

	case protocol.UseInProgress:
		var d protocol.UseStateData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.inUse = d.State

	case protocol.AddAlert:
		var d protocol.AlertData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.alerts.Add(d.Type, d.Item)

	case protocol.OpenStaticTooltip:
		var d protocol.TooltipData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.tooltip = d.Item

	case protocol.CloseStaticTooltip:
		s.tooltip = nil

	case protocol.UpdateSettings:
		var d protocol.SettingsData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.mergeSettings(d)

	case protocol.HotbarShow:
		var d protocol.HotbarData
		if len(msg.Data) > 0 {
			if err := msg.Decode(&d); err != nil {
				return err
			}
		}
		s.showHotbar = true
		s.hotbar = d.Items

	case protocol.HotbarHide:
		s.showHotbar = false

	case protocol.SetEquipped:
		var it *inventory.Item
		if len(msg.Data) > 0 {
			if err := msg.Decode(&it); err != nil {
				return err
			}
		}
		s.equipped = it

	case protocol.SetItems:
		var defs map[string]*catalog.Definition
		if err := msg.Decode(&defs); err != nil {
			return err
		}
		s.defs.Replace(defs)

	case protocol.AddItem:
		var d protocol.AddItemData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		if d.Id == "" || d.Item == nil {
			return fmt.Errorf("%s: missing id or item", msg.Type)
		}
		s.defs.Add(d.Id, d.Item)

	case protocol.ResetItems:
		s.defs.Reset()

	case protocol.SetEquipment:
		var d protocol.EquipmentData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.equipment = d.Inventory

	case protocol.SlotNotUsed:
		var d protocol.SlotNotUsedData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		if d.OriginSlot != 0 {
			s.player.SetDisabled(d.OriginSlot, false)
		}

	case protocol.ItemsLoaded:
		s.defs.SetLoaded(true)

	case protocol.ItemsUnloaded:
		s.defs.SetLoaded(false)

	case protocol.SetBench:
		var d protocol.BenchData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.bench = crafting.NewBench(d)

	case protocol.SetCrafting:
		var d protocol.CraftingData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.tracker.Start(d.Recipe, msToTime(d.Start), msToDuration(d.Time))

	case protocol.EndCrafting:
		s.tracker.End()

	case protocol.CraftProgress:
		var d protocol.ProgressData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		s.tracker.SetProgress(d.Progress)

	case protocol.CurrentCraft:
		var d protocol.CurrentCraftData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		if s.bench != nil {
			s.bench.Current = d.CurrentCraft
		}

	case protocol.UpdateCraftingCounts:
		var d protocol.CountsData
		if err := msg.Decode(&d); err != nil {
			return err
		}
		if s.bench != nil {
			s.bench.Counts = d.MyCounts
		}

	case protocol.PurchaseSuccess:
		s.cart.Clear()
		s.cue(ctx, protocol.CueSuccess)

	case protocol.PurchaseFailed:
		s.cart.Clear()
		s.cue(ctx, protocol.CueDisabled)

	case protocol.NearbyPlayersList:
		var players []protocol.NearbyPlayer
		if len(msg.Payload) > 0 {
			msg.Data = msg.Payload
		}
		if err := msg.Decode(&players); err != nil {
			return err
		}
		s.nearby = players

	default:
		slog.DebugContext(ctx, "ignoring unknown message", "type", msg.Type)
	}

	return nil
}

func (s *Store) setSlot(msg protocol.Message, c *inventory.Container) error {
	var d protocol.SlotData
	if err := msg.Decode(&d); err != nil {
		return err
	}
	it, touched, err := d.Item()
	if err != nil {
		return err
	}
	if err := c.SetSlot(d.Slot, false, it, touched); err != nil {
		return fmt.Errorf("%s slot %d: %w", msg.Type, d.Slot, err)
	}
	return nil
}
