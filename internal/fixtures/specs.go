// Package fixtures feeds canned host data to the overlay so it can run
// without a game attached.
package fixtures

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/storage"
)

// InventorySpec is a container snapshot as the host would push it.
type InventorySpec struct {
	inventory.Snapshot
	Label string `json:"label,omitempty"`
}

func (s *InventorySpec) Validate() error {
	el := errors.NewErrorList()

	if s.Size <= 0 {
		el.Add(fmt.Errorf("size must be positive"))
	}
	if s.Owner == "" {
		el.Add(fmt.Errorf("owner is required"))
	}

	seen := map[int]bool{}
	for _, it := range s.Inventory {
		if it == nil {
			continue
		}
		if it.Name == "" {
			el.Add(fmt.Errorf("slot %d: name is required", it.Slot))
		}
		if it.Slot < 1 || it.Slot > s.Size {
			el.Add(fmt.Errorf("slot %d is outside 1-%d", it.Slot, s.Size))
		}
		if it.Count < 1 {
			el.Add(fmt.Errorf("slot %d: count must be positive", it.Slot))
		}
		if seen[it.Slot] {
			el.Add(fmt.Errorf("slot %d is used twice", it.Slot))
		}
		seen[it.Slot] = true
	}

	return el.Err()
}

func (s *InventorySpec) Selector() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Counts totals the stacks of each item name.
func (s *InventorySpec) Counts() map[string]int {
	counts := map[string]int{}
	for _, it := range s.Inventory {
		if it != nil {
			counts[it.Name] += it.Count
		}
	}
	return counts
}

type RecipeSpec struct {
	protocol.Recipe
}

func (r *RecipeSpec) Validate() error {
	el := errors.NewErrorList()

	if r.Result.Name == "" {
		el.Add(fmt.Errorf("result name is required"))
	}
	if r.Result.Count < 1 {
		el.Add(fmt.Errorf("result count must be positive"))
	}
	if r.Time <= 0 {
		el.Add(fmt.Errorf("time must be positive"))
	}
	if r.Cooldown < 0 {
		el.Add(fmt.Errorf("cooldown must not be negative"))
	}
	if len(r.Items) == 0 {
		el.Add(fmt.Errorf("at least one reagent is required"))
	}
	for i, it := range r.Items {
		if it.Name == "" || it.Count < 1 {
			el.Add(fmt.Errorf("reagent %d needs a name and a positive count", i))
		}
	}

	return el.Err()
}

type BenchSpec struct {
	Name         string                                 `json:"name"`
	ActionString string                                 `json:"actionString,omitempty"`
	Recipes      []storage.SmartIdentifier[*RecipeSpec] `json:"recipes"`
	Cooldowns    map[string]int64                       `json:"cooldowns,omitempty"`
}

func (b *BenchSpec) Validate() error {
	el := errors.NewErrorList()

	if b.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if len(b.Recipes) == 0 {
		el.Add(fmt.Errorf("at least one recipe is required"))
	}
	for _, r := range b.Recipes {
		el.Add(r.Validate())
	}

	return el.Err()
}

// Data builds the bench message for the resolved recipes. Each recipe takes
// the id it was stored under.
func (b *BenchSpec) Data(id string, counts map[string]int) protocol.BenchData {
	d := protocol.BenchData{
		BenchName:    b.Name,
		Bench:        id,
		ActionString: b.ActionString,
		Cooldowns:    b.Cooldowns,
		MyCounts:     counts,
	}
	for _, ref := range b.Recipes {
		spec := ref.Get()
		if spec == nil {
			continue
		}
		r := spec.Recipe
		r.Id = ref.Key()
		d.Recipes = append(d.Recipes, r)
	}
	return d
}
