package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/inventory"
)

// MessageType tags an inbound host message.
type MessageType string

const (
	AppShow               MessageType = "APP_SHOW"
	AppHide               MessageType = "APP_HIDE"
	SetMode               MessageType = "SET_MODE"
	SetPlayerInventory    MessageType = "SET_PLAYER_INVENTORY"
	SetSecondaryInventory MessageType = "SET_SECONDARY_INVENTORY"
	ShowSecondary         MessageType = "SHOW_SECONDARY_INVENTORY"
	HideSecondary         MessageType = "HIDE_SECONDARY_INVENTORY"
	SetPlayerSlot         MessageType = "SET_PLAYER_SLOT"
	SetSecondarySlot      MessageType = "SET_SECONDARY_SLOT"
	UseInProgress         MessageType = "USE_IN_PROGRESS"
	AddAlert              MessageType = "ADD_ALERT"
	OpenStaticTooltip     MessageType = "OPEN_STATIC_TOOLTIP"
	CloseStaticTooltip    MessageType = "CLOSE_STATIC_TOOLTIP"
	UpdateSettings        MessageType = "UPDATE_SETTINGS"
	HotbarShow            MessageType = "HOTBAR_SHOW"
	HotbarHide            MessageType = "HOTBAR_HIDE"
	SetEquipped           MessageType = "SET_EQUIPPED"
	SetItems              MessageType = "SET_AVALIABLE_ITEMS"
	AddItem               MessageType = "ADD_ITEM"
	ResetItems            MessageType = "RESET_ITEMS"
	SetEquipment          MessageType = "SET_EQUIPMENT"
	SlotNotUsed           MessageType = "SLOT_NOT_USED"
	ItemsLoaded           MessageType = "ITEMS_LOADED"
	ItemsUnloaded         MessageType = "ITEMS_UNLOADED"
	SetBench              MessageType = "SET_BENCH"
	SetCrafting           MessageType = "SET_CRAFTING"
	EndCrafting           MessageType = "END_CRAFTING"
	CraftProgress         MessageType = "CRAFT_PROGRESS"
	CurrentCraft          MessageType = "CURRENT_CRAFT"
	UpdateCraftingCounts  MessageType = "UPDATE_CRAFTING_COUNTS"
	PurchaseSuccess       MessageType = "SHOP_PURCHASE_SUCCESS"
	PurchaseFailed        MessageType = "SHOP_PURCHASE_FAILED"
	NearbyPlayersList     MessageType = "NEARBY_PLAYERS_LIST"
)

// Message is one inbound host message. Most types carry their body in Data;
// the nearby player list arrives in Payload.
type Message struct {
	Type    MessageType     `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds a message with data encoded as its body.
func NewMessage(typ MessageType, data any) (Message, error) {
	msg := Message{Type: typ}
	if data == nil {
		return msg, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("encoding %s: %w", typ, err)
	}
	msg.Data = b
	return msg, nil
}

// Decode unmarshals the message data into v.
func (m Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s: missing data", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", m.Type, err)
	}
	return nil
}

type ModeData struct {
	Mode string `json:"mode"`
}

// SlotData updates one slot. ItemData is tri-state: absent leaves the item
// alone, null clears it, and an object replaces it.
type SlotData struct {
	Slot     int             `json:"slot"`
	ItemData json.RawMessage `json:"itemData,omitempty"`
}

// Item returns the slot's item and whether the message touched it.
func (d SlotData) Item() (*inventory.Item, bool, error) {
	if len(d.ItemData) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(d.ItemData), []byte("null")) {
		return nil, true, nil
	}
	var it inventory.Item
	if err := json.Unmarshal(d.ItemData, &it); err != nil {
		return nil, false, fmt.Errorf("decoding slot item: %w", err)
	}
	return &it, true, nil
}

type UseStateData struct {
	State bool `json:"state"`
}

type AlertData struct {
	Type string          `json:"type"`
	Item *inventory.Item `json:"item"`
}

type TooltipData struct {
	Item *inventory.Item `json:"item"`
}

// SettingsData is a partial settings update; absent fields are unchanged.
type SettingsData struct {
	Muted   *bool `json:"muted,omitempty"`
	UseBank *bool `json:"useBank,omitempty"`
}

type HotbarData struct {
	Items []*inventory.Item `json:"items"`
}

type AddItemData struct {
	Id   string              `json:"id"`
	Item *catalog.Definition `json:"item"`
}

type EquipmentData struct {
	Inventory inventory.ItemList `json:"inventory"`
}

type SlotNotUsedData struct {
	OriginSlot int `json:"originSlot"`
}

type RecipeItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Recipe struct {
	Id       string       `json:"id"`
	Result   RecipeItem   `json:"result"`
	Items    []RecipeItem `json:"items"`
	Time     int64        `json:"time"`
	Cooldown int64        `json:"cooldown,omitempty"`
}

type BenchData struct {
	BenchName    string           `json:"benchName"`
	Bench        string           `json:"bench"`
	Cooldowns    map[string]int64 `json:"cooldowns"`
	Recipes      []Recipe         `json:"recipes"`
	MyCounts     map[string]int   `json:"myCounts"`
	ActionString string           `json:"actionString"`
}

// CraftingData starts a craft: start is unix milliseconds and time the total
// duration in milliseconds.
type CraftingData struct {
	Recipe string `json:"recipe"`
	Start  int64  `json:"start"`
	Time   int64  `json:"time"`
}

type ProgressData struct {
	Progress float64 `json:"progress"`
}

type CurrentCraftData struct {
	CurrentCraft int `json:"currentCraft"`
}

type CountsData struct {
	MyCounts map[string]int `json:"myCounts"`
}

type NearbyPlayer struct {
	ServerId int     `json:"serverId"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}
