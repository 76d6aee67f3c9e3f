package console

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/crafting"
	"github.com/pixil98/go-inventory/internal/display"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/overlay"
	"github.com/shopspring/decimal"
)

// templateFuncs provides sprig plus the display helpers to the view.
var templateFuncs = func() map[string]any {
	funcs := sprig.TxtFuncMap()
	funcs["price"] = display.Price
	funcs["bar"] = display.Bar
	return funcs
}()

const viewTemplate = `Overlay {{ if .Hidden }}hidden{{ else }}shown{{ end }}, {{ .Mode }} mode{{ if not .ItemsLoaded }}, items loading{{ end }}
{{- range .Containers }}

== {{ .Title }} ({{ .Owner }}) {{ printf "%.1f" .Weight }}/{{ .Capacity }}
{{- range .Rows }}
  {{ printf "%3d" .Slot }}. {{ .Label | trunc 24 | printf "%-24s" }} x{{ .Count }}{{ with .Flags }} [{{ . }}]{{ end }}
{{- else }}
  (empty)
{{- end }}
{{- end }}
{{- with .Held }}

Holding {{ . }}
{{- end }}
{{- with .Give }}

Give {{ . }}
{{- end }}
{{- if .Cart }}

Cart, paying by {{ default "nothing yet" .Method }}
{{- range .Cart }}
  {{ .Label }} x{{ .Quantity }} @ {{ price .UnitPrice }} = {{ price .Subtotal }}
{{- end }}
  Total {{ price .Total }}{{ if .Purchasing }} (purchasing){{ end }}
{{- end }}
{{- with .Bench }}

{{ .Name }}
{{- range .Recipes }}
  {{ if .Selected }}>{{ else }} {{ end }} {{ .Id }}: {{ .Result }} from {{ .Reagents }}{{ with .Note }} ({{ . }}){{ end }}
{{- end }}
{{- end }}
{{- with .Craft }}

Crafting {{ .Recipe }} {{ bar .Percent 20 }} {{ printf "%.0f" .Percent }}%
{{- end }}
`

type screen struct {
	Hidden      bool
	Mode        overlay.Mode
	ItemsLoaded bool
	Containers  []containerView
	Held        string
	Give        string
	Cart        []cartRow
	Total       decimal.Decimal
	Method      string
	Purchasing  bool
	Bench       *benchView
	Craft       *crafting.Progress
}

type containerView struct {
	Title    string
	Owner    inventory.Owner
	Weight   float64
	Capacity float64
	Rows     []slotRow
}

type slotRow struct {
	Slot  int
	Label string
	Count int
	Flags string
}

type cartRow struct {
	Label     string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

type benchView struct {
	Name    string
	Recipes []recipeRow
}

type recipeRow struct {
	Id       string
	Selected bool
	Result   string
	Reagents string
	Note     string
}

func label(defs catalog.Lookup, it *inventory.Item) string {
	fallback := it.Name
	if def, ok := defs.Lookup(it.Name); ok {
		fallback = def.Label
	}
	return it.Label(fallback)
}

func defLabel(defs catalog.Lookup, name string) string {
	if def, ok := defs.Lookup(name); ok {
		return def.Label
	}
	return name
}

func newContainerView(title string, c *inventory.Container, defs catalog.Lookup, now time.Time) containerView {
	v := containerView{
		Title:    title,
		Owner:    c.Owner,
		Weight:   c.Weight(defs),
		Capacity: c.Capacity,
	}
	if c.Name != "" {
		v.Title = c.Name
	}

	for _, it := range c.Items() {
		var flags []string
		if c.IsDisabled(it.Slot) {
			flags = append(flags, "pending")
		}
		if it.Shop {
			flags = append(flags, "shop")
		}
		if def, ok := defs.Lookup(it.Name); ok {
			if pct, ok := def.DurabilityPercent(it.EffectiveCreateDate(), now); ok {
				if def.IsBroken(it.EffectiveCreateDate(), now) {
					flags = append(flags, "broken")
				} else {
					flags = append(flags, fmt.Sprintf("%d%%", pct))
				}
			}
		}
		v.Rows = append(v.Rows, slotRow{
			Slot:  it.Slot,
			Label: label(defs, it),
			Count: it.Count,
			Flags: strings.Join(flags, ", "),
		})
	}
	return v
}

func newScreen(v overlay.View, defs catalog.Lookup, now time.Time) screen {
	s := screen{
		Hidden:      v.Hidden,
		Mode:        v.Mode,
		ItemsLoaded: v.ItemsLoaded,
		Containers:  []containerView{newContainerView("Player", v.Player, defs, now)},
		Total:       v.CartTotal,
		Method:      string(v.PaymentMethod),
		Purchasing:  v.Purchasing,
		Craft:       v.Craft,
	}
	if v.ShowSecondary {
		s.Containers = append(s.Containers, newContainerView("Secondary", v.Secondary, defs, now))
	}

	if h := v.Held; h != nil {
		s.Held = fmt.Sprintf("%d of %s from %s slot %d", h.Carried.Count, label(defs, h.Carried), h.Side, h.Slot)
	}
	if g := v.PendingGive; g != nil {
		var names []string
		for _, p := range v.Nearby {
			names = append(names, fmt.Sprintf("%d %s (%.1fm)", p.ServerId, p.Name, p.Distance))
		}
		s.Give = fmt.Sprintf("%d %s to: %s", g.Count, defLabel(defs, g.ItemName), strings.Join(names, ", "))
	}

	for _, l := range v.Cart {
		s.Cart = append(s.Cart, cartRow{
			Label:     defLabel(defs, l.Item),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}

	if b := v.Bench; b != nil && len(b.Recipes) > 0 {
		bv := &benchView{Name: b.Name}
		for i, r := range b.Recipes {
			row := recipeRow{
				Id:       r.Id,
				Selected: i == b.Current,
				Result:   fmt.Sprintf("%d %s", r.Result.Count, defLabel(defs, r.Result.Name)),
			}
			var reagents []string
			for _, it := range r.Items {
				reagents = append(reagents, fmt.Sprintf("%d %s", it.Count, defLabel(defs, it.Name)))
			}
			row.Reagents = strings.Join(reagents, ", ")

			if wait, on := crafting.Cooldown(r, b.Cooldowns, now); on {
				row.Note = "ready in " + wait.Round(time.Second).String()
			} else if !crafting.HasReagents(r, 1, b.Counts) {
				row.Note = "missing reagents"
			}
			bv.Recipes = append(bv.Recipes, row)
		}
		s.Bench = bv
	}

	return s
}

func (c *Console) render(v overlay.View) (string, error) {
	var buf bytes.Buffer
	if err := c.view.Execute(&buf, newScreen(v, c.store.Catalog(), c.now())); err != nil {
		return "", fmt.Errorf("rendering view: %w", err)
	}
	return buf.String(), nil
}
