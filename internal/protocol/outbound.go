// Package protocol defines the messages exchanged with the host script.
package protocol

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pixil98/go-inventory/internal/inventory"
)

// Outbound event names.
const (
	EventClose            = "Close"
	EventFrontEndSound    = "FrontEndSound"
	EventUpdateSettings   = "UpdateSettings"
	EventSubmitAction     = "SubmitAction"
	EventMergeSlot        = "MergeSlot"
	EventSwapSlot         = "SwapSlot"
	EventMoveSlot         = "MoveSlot"
	EventUseItem          = "UseItem"
	EventGiveItem         = "GiveItem"
	EventGetNearbyPlayers = "GetNearbyPlayers"
	EventSendNotify       = "SendNotify"
	EventCraftStart       = "Crafting:Craft"
	EventCraftCancel      = "Crafting:Cancel"
	EventCraftEnd         = "Crafting:End"
	EventPurchaseCart     = "PurchaseCart"
)

// Cue names a front-end sound the host plays.
type Cue string

const (
	CueSelect   Cue = "SELECT"
	CueDisabled Cue = "DISABLED"
	CueDrag     Cue = "drag"
	CueBack     Cue = "BACK"
	CueSuccess  Cue = "SUCCESS"
)

// Envelope wraps every outbound call. Id only tags log lines; the host never
// echoes it back on pushed messages.
type Envelope struct {
	Id    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope encodes data under a fresh request id.
func NewEnvelope(event string, data any) (*Envelope, error) {
	env := &Envelope{
		Id:    uuid.New().String(),
		Event: event,
	}
	if data == nil {
		return env, nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	env.Data = b
	return env, nil
}

// ReplyType tags a frame that answers an earlier Call.
const ReplyType = "reply"

// Reply is the websocket frame answering a Call.
type Reply struct {
	Type  string          `json:"type"`
	Id    string          `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

type SoundRequest struct {
	Sound Cue `json:"sound"`
}

type Settings struct {
	Muted   bool `json:"muted"`
	UseBank bool `json:"useBank"`
}

type ActionRequest struct {
	Action string `json:"action"`
}

type NotifyRequest struct {
	Message string `json:"message"`
}

// TransferRequest asks the host to perform a merge, swap, or move.
type TransferRequest struct {
	OwnerFrom   inventory.Owner `json:"ownerFrom"`
	OwnerTo     inventory.Owner `json:"ownerTo"`
	SlotFrom    int             `json:"slotFrom"`
	SlotTo      int             `json:"slotTo"`
	Name        string          `json:"name"`
	CountFrom   int             `json:"countFrom"`
	CountTo     int             `json:"countTo"`
	InvTypeFrom inventory.Type  `json:"invTypeFrom"`
	InvTypeTo   inventory.Type  `json:"invTypeTo"`
	IsSplit     bool            `json:"isSplit"`
}

type UseRequest struct {
	Owner   inventory.Owner `json:"owner"`
	Slot    int             `json:"slot"`
	InvType inventory.Type  `json:"invType"`
}

type GiveRequest struct {
	TargetServerId int             `json:"targetServerId"`
	Owner          inventory.Owner `json:"owner"`
	Slot           int             `json:"slot"`
	InvType        inventory.Type  `json:"invType"`
	ItemName       string          `json:"itemName"`
	Count          int             `json:"count"`
}

type CraftRequest struct {
	Bench  string `json:"bench"`
	Qty    int    `json:"qty"`
	Result string `json:"result"`
}

// CraftResponse answers Crafting:Craft. A non-empty error means the host
// refused the craft.
type CraftResponse struct {
	Error   any    `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Refused reports whether the host rejected the craft.
func (r CraftResponse) Refused() bool {
	switch e := r.Error.(type) {
	case nil:
		return false
	case bool:
		return e
	case string:
		return e != ""
	default:
		return true
	}
}

type NearbyResponse struct {
	Count int `json:"count"`
}

type CartLine struct {
	ItemName  string      `json:"itemName"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
	Slot      int         `json:"slot"`
}

type PurchaseRequest struct {
	ShopOwner     inventory.Owner `json:"shopOwner"`
	ShopInvType   inventory.Type  `json:"shopInvType"`
	Items         []CartLine      `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalPrice    json.Number     `json:"totalPrice"`
}
