package catalog

import (
	"fmt"
	"math"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/shopspring/decimal"
)

// ItemType is the host's item category tag.
type ItemType int

// Rarity is the host's rarity tier, 1 (common) through 5.
type Rarity int

const (
	RarityMin Rarity = 1
	RarityMax Rarity = 5
)

// Definition is the static, host-provided description of an item.
type Definition struct {
	Label           string          `json:"label" yaml:"label"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty"`
	Price           decimal.Decimal `json:"price" yaml:"price"`
	Usable          bool            `json:"isUsable" yaml:"isUsable"`
	Removed         bool            `json:"isRemoved" yaml:"isRemoved"`
	Stackable       StackLimit      `json:"isStackable" yaml:"isStackable"`
	Type            ItemType        `json:"type" yaml:"type"`
	Rarity          Rarity          `json:"rarity" yaml:"rarity"`
	Metallic        bool            `json:"metalic" yaml:"metalic"`
	Weight          float64         `json:"weight" yaml:"weight"`
	Durability      int64           `json:"durability,omitempty" yaml:"durability,omitempty"` // seconds
	RequiresLicense bool            `json:"requiresLicense,omitempty" yaml:"requiresLicense,omitempty"`
	Qualification   string          `json:"qualification,omitempty" yaml:"qualification,omitempty"`
	CloseUseMenu    bool            `json:"closeUseMenu,omitempty" yaml:"closeUseMenu,omitempty"`
	IconOverride    string          `json:"iconOverride,omitempty" yaml:"iconOverride,omitempty"`
}

// Validate satisfies storage.ValidatingSpec
func (d *Definition) Validate() error {
	el := errors.NewErrorList()

	if d.Label == "" {
		el.Add(fmt.Errorf("label is required"))
	}
	if d.Rarity != 0 && (d.Rarity < RarityMin || d.Rarity > RarityMax) {
		el.Add(fmt.Errorf("rarity %d is out of range %d-%d", d.Rarity, RarityMin, RarityMax))
	}
	if d.Weight < 0 {
		el.Add(fmt.Errorf("weight must not be negative"))
	}
	if d.Durability < 0 {
		el.Add(fmt.Errorf("durability must not be negative"))
	}
	if d.Price.IsNegative() {
		el.Add(fmt.Errorf("price must not be negative"))
	}

	return el.Err()
}

// DurabilityPercent returns the remaining durability of a stack created at
// createDate (unix seconds). ok is false when the item does not decay or the
// stack has no creation date.
func (d *Definition) DurabilityPercent(createDate int64, now time.Time) (pct int, ok bool) {
	if d.Durability <= 0 || createDate == 0 {
		return 0, false
	}
	age := float64(now.Unix() - createDate)
	return int(math.Ceil(100 - age/float64(d.Durability)*100)), true
}

// IsBroken reports whether a decaying stack has used up its durability window.
func (d *Definition) IsBroken(createDate int64, now time.Time) bool {
	pct, ok := d.DurabilityPercent(createDate, now)
	return ok && pct <= 0
}

// IsDurable reports whether a stack may still be used or given away. Items
// with a durability window need a creation date inside that window.
func (d *Definition) IsDurable(createDate int64, now time.Time) bool {
	if d.Durability <= 0 {
		return true
	}
	return createDate != 0 && createDate+d.Durability > now.Unix()
}
