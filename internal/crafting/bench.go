// Package crafting holds the open workbench and tracks the running craft.
package crafting

import (
	"maps"
	"slices"
	"time"

	"github.com/pixil98/go-inventory/internal/protocol"
)

const (
	MinQty = 1
	MaxQty = 99
)

// Bench is the crafting context pushed by the host.
type Bench struct {
	Name         string
	Id           string
	ActionString string
	Recipes      []protocol.Recipe
	Cooldowns    map[string]int64 // recipe id to unix milliseconds
	Counts       map[string]int
	Current      int
}

// NewBench builds a bench from a SET_BENCH body.
func NewBench(data protocol.BenchData) *Bench {
	return &Bench{
		Name:         data.BenchName,
		Id:           data.Bench,
		ActionString: data.ActionString,
		Recipes:      slices.Clone(data.Recipes),
		Cooldowns:    maps.Clone(data.Cooldowns),
		Counts:       maps.Clone(data.MyCounts),
	}
}

func (b *Bench) Recipe(id string) (protocol.Recipe, bool) {
	for _, r := range b.Recipes {
		if r.Id == id {
			return r, true
		}
	}
	return protocol.Recipe{}, false
}

// Selected returns the recipe at the current index.
func (b *Bench) Selected() (protocol.Recipe, bool) {
	if b.Current < 0 || b.Current >= len(b.Recipes) {
		return protocol.Recipe{}, false
	}
	return b.Recipes[b.Current], true
}

func (b *Bench) Clone() *Bench {
	if b == nil {
		return nil
	}
	c := *b
	c.Recipes = slices.Clone(b.Recipes)
	c.Cooldowns = maps.Clone(b.Cooldowns)
	c.Counts = maps.Clone(b.Counts)
	return &c
}

// Reagents totals what qty crafts of r consume.
func Reagents(r protocol.Recipe, qty int) map[string]int {
	need := map[string]int{}
	for _, it := range r.Items {
		need[it.Name] += it.Count * qty
	}
	return need
}

// HasReagents reports whether counts cover qty crafts of r.
func HasReagents(r protocol.Recipe, qty int, counts map[string]int) bool {
	for name, n := range Reagents(r, qty) {
		if have := counts[name]; have == 0 || n > have {
			return false
		}
	}
	return true
}

// Cooldown returns how long until r can be crafted again.
func Cooldown(r protocol.Recipe, cooldowns map[string]int64, now time.Time) (time.Duration, bool) {
	if r.Cooldown == 0 {
		return 0, false
	}
	until, ok := cooldowns[r.Id]
	if !ok || until <= now.UnixMilli() {
		return 0, false
	}
	return time.Duration(until-now.UnixMilli()) * time.Millisecond, true
}

// ClampQty bounds qty for r. Recipes with a cooldown always craft once.
func ClampQty(r protocol.Recipe, qty int) int {
	if r.Cooldown != 0 {
		return MinQty
	}
	return max(MinQty, min(qty, MaxQty))
}
