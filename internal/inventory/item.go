package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Type is the host's inventory-type tag.
type Type int

const (
	TypePlayer Type = 1
	TypeMax    Type = 12
)

// Owner identifies whoever holds a container: a character id, a stash name,
// or a numeric server id.
type Owner string

func (o *Owner) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = Owner(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("owner must be a string or number: %w", err)
	}
	*o = Owner(n.String())
	return nil
}

// MarshalJSON writes integer owners back as numbers.
func (o Owner) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(o), 10, 64); err == nil {
		return []byte(o), nil
	}
	return json.Marshal(string(o))
}

// Item is one stack occupying one slot.
type Item struct {
	Name       string           `json:"Name"`
	Slot       int              `json:"Slot"`
	Count      int              `json:"Count"`
	Quality    *int             `json:"Quality,omitempty"`
	MetaData   Metadata         `json:"MetaData,omitempty"`
	CreateDate int64            `json:"CreateDate,omitempty"`
	Price      *decimal.Decimal `json:"Price,omitempty"`
	Shop       bool             `json:"shop,omitempty"`
}

func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.Quality != nil {
		q := *i.Quality
		c.Quality = &q
	}
	if i.Price != nil {
		p := *i.Price
		c.Price = &p
	}
	c.MetaData = i.MetaData.Clone()
	return &c
}

// EffectiveCreateDate prefers the stack's own creation date over the one
// carried in metadata.
func (i *Item) EffectiveCreateDate() int64 {
	if i.CreateDate != 0 {
		return i.CreateDate
	}
	d, _ := i.MetaData.CreateDate()
	return d
}

// Label returns the metadata label override or fallback.
func (i *Item) Label(fallback string) string {
	if l := i.MetaData.CustomItemLabel(); l != "" {
		return l
	}
	return fallback
}

// ItemList decodes the host's inventory payload, which is either an array or
// an object keyed by slot. Null entries are dropped.
type ItemList []*Item

func (l *ItemList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}

	var items []*Item
	if b[0] == '{' {
		var keyed map[string]*Item
		if err := json.Unmarshal(b, &keyed); err != nil {
			return fmt.Errorf("decoding keyed inventory: %w", err)
		}
		for _, it := range keyed {
			items = append(items, it)
		}
	} else if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("decoding inventory: %w", err)
	}

	out := make(ItemList, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Slot < out[b].Slot })
	*l = out
	return nil
}

// SlotFlags is a slot-keyed boolean overlay. Lua sends it as an object keyed
// by slot or, when the keys are contiguous from 1, as an array.
type SlotFlags map[int]bool

func (f *SlotFlags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = nil
		return nil
	}

	if len(b) > 0 && b[0] == '[' {
		var list []bool
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("decoding slot flags: %w", err)
		}
		out := make(SlotFlags, len(list))
		for i, v := range list {
			out[i+1] = v
		}
		*f = out
		return nil
	}

	var keyed map[int]bool
	if err := json.Unmarshal(b, &keyed); err != nil {
		return fmt.Errorf("decoding slot flags: %w", err)
	}
	*f = keyed
	return nil
}
