package console

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-inventory/internal/display"
	"github.com/pixil98/go-inventory/internal/drag"
	"github.com/pixil98/go-inventory/internal/overlay"
)

var (
	sideInput     = InputSpec{Name: "side", Type: InputTypeString, Required: true}
	slotInput     = InputSpec{Name: "slot", Type: InputTypeNumber, Required: true}
	sideSlotUsage = []InputSpec{sideInput, slotInput}
)

func (c *Console) builtins() []*Command {
	return []*Command{
		{
			Name:        "show",
			Category:    "info",
			Description: "Show both containers, the carried stack, the cart and the bench.",
			Run:         c.show,
		},
		{
			Name:        "alerts",
			Category:    "info",
			Description: "List recent inventory changes, newest first.",
			Run:         c.alerts,
		},
		{
			Name:        "help",
			Category:    "info",
			Description: "List commands, or describe one.",
			Inputs:      []InputSpec{{Name: "command", Type: InputTypeString}},
			Run:         c.help,
		},
		{
			Name:        "hold",
			Category:    "inventory",
			Description: "Pick up a stack. Amount is half, single or a number; the whole stack by default.",
			Inputs:      []InputSpec{sideInput, slotInput, {Name: "amount", Type: InputTypeString}},
			Run:         c.hold,
		},
		{
			Name:        "drop",
			Category:    "inventory",
			Description: "Drop the carried stack onto a slot.",
			Inputs:      sideSlotUsage,
			Run:         c.drop,
		},
		{
			Name:        "cancel",
			Category:    "inventory",
			Description: "Put the carried stack back, or back out of choosing a give target.",
			Run:         c.cancel,
		},
		{
			Name:        "quick",
			Category:    "inventory",
			Description: "Send a whole stack to the other container.",
			Inputs:      sideSlotUsage,
			Run:         c.quick,
		},
		{
			Name:        "use",
			Category:    "inventory",
			Description: "Use the item in a player slot, or the carried item.",
			Inputs:      []InputSpec{{Name: "side", Type: InputTypeString}, {Name: "slot", Type: InputTypeNumber}},
			Run:         c.use,
		},
		{
			Name:        "give",
			Category:    "inventory",
			Description: "Offer the carried stack to a nearby player, then pick them by server id.",
			Inputs:      []InputSpec{{Name: "player", Type: InputTypeNumber}},
			Run:         c.give,
		},
		{
			Name:        "cart",
			Category:    "shop",
			Description: "Show the cart, or add <slot>, remove <item>, set <item> <qty>.",
			Inputs: []InputSpec{
				{Name: "action", Type: InputTypeString},
				{Name: "item", Type: InputTypeString},
				{Name: "qty", Type: InputTypeNumber},
			},
			Run: c.cart,
		},
		{
			Name:        "pay",
			Category:    "shop",
			Description: "Pick the payment method: bank or cash.",
			Inputs:      []InputSpec{{Name: "method", Type: InputTypeString, Required: true}},
			Run:         c.pay,
		},
		{
			Name:        "buy",
			Category:    "shop",
			Description: "Purchase everything in the cart.",
			Run:         c.buy,
		},
		{
			Name:        "recipe",
			Category:    "crafting",
			Description: "Move the bench cursor to a recipe, counting from 1.",
			Inputs:      []InputSpec{{Name: "number", Type: InputTypeNumber, Required: true}},
			Run:         c.recipe,
		},
		{
			Name:        "craft",
			Category:    "crafting",
			Description: "Craft a recipe, optionally several at once.",
			Inputs: []InputSpec{
				{Name: "recipe", Type: InputTypeString, Required: true},
				{Name: "qty", Type: InputTypeNumber},
			},
			Run: c.craft,
		},
		{
			Name:        "uncraft",
			Category:    "crafting",
			Description: "Cancel the running craft.",
			Run:         c.uncraft,
		},
		{
			Name:        "seed",
			Category:    "dev",
			Description: "List fixture inventories, or open one as the secondary container.",
			Inputs:      []InputSpec{{Name: "number", Type: InputTypeNumber}},
			Run:         c.seed,
		},
		{
			Name:        "close",
			Category:    "session",
			Description: "Close the overlay.",
			Run:         c.close,
		},
		{
			Name:        "quit",
			Category:    "session",
			Description: "Leave the console.",
			Run: func(context.Context, *Session, Input) error {
				return errQuit
			},
		},
	}
}

func parseSide(in Input) (overlay.Side, error) {
	side, err := overlay.ParseSide(strings.ToLower(in.String("side")))
	if err != nil {
		return side, NewUserError("Side must be player (p) or secondary (s).")
	}
	return side, nil
}

func (c *Console) show(_ context.Context, sess *Session, _ Input) error {
	out, err := c.render(c.store.View())
	if err != nil {
		return err
	}
	return sess.Println(strings.TrimRight(out, "\n"))
}

func (c *Console) alerts(_ context.Context, sess *Session, _ Input) error {
	alerts := c.store.View().Alerts
	if len(alerts) == 0 {
		return sess.Println("No recent changes.")
	}
	for _, a := range alerts {
		line, err := c.formatter.Format(a)
		if err != nil {
			return err
		}
		if err := sess.Println(display.Indent(line, 2)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) help(_ context.Context, sess *Session, in Input) error {
	if name := in.String("command"); name != "" {
		cmd, ok := c.handler.Get(name)
		if !ok {
			return NewUserError(fmt.Sprintf("Command %q is unknown.", name))
		}
		return sess.Printf("%s\nUsage: %s\n", cmd.Description, cmd.Usage())
	}

	groups := c.handler.Groups()
	categories := make([]string, 0, len(groups))
	for cat := range groups {
		categories = append(categories, cat)
	}
	slices.Sort(categories)

	lines := []string{"Available commands:"}
	for _, cat := range categories {
		lines = append(lines, fmt.Sprintf("  %s: %s", display.Capitalize(cat), strings.Join(groups[cat], ", ")))
	}
	return sess.Println(strings.Join(lines, "\n"))
}

func (c *Console) hold(ctx context.Context, sess *Session, in Input) error {
	side, err := parseSide(in)
	if err != nil {
		return err
	}

	mode, amount := drag.ModeFull, 0
	switch a := strings.ToLower(in.String("amount")); a {
	case "", "all", "full":
	case "half":
		mode = drag.ModeHalf
	case "single", "one":
		mode = drag.ModeSingle
	default:
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return NewUserError("Amount must be half, single or a positive number.")
		}
		mode, amount = drag.ModeAmount, n
	}

	if err := c.store.Hold(ctx, side, in.Int("slot"), mode, amount); err != nil {
		return rejected(err)
	}
	return c.show(ctx, sess, nil)
}

func (c *Console) drop(ctx context.Context, sess *Session, in Input) error {
	side, err := parseSide(in)
	if err != nil {
		return err
	}
	kind, err := c.store.Drop(ctx, side, in.Int("slot"))
	if err != nil {
		return rejected(err)
	}
	return sess.Println(display.Capitalize(kind.String()) + ".")
}

func (c *Console) cancel(ctx context.Context, sess *Session, _ Input) error {
	if c.store.View().PendingGive != nil {
		c.store.CancelGive(ctx)
		return sess.Println("Give cancelled.")
	}
	c.store.CancelDrag()
	return sess.Println("Put back.")
}

func (c *Console) quick(ctx context.Context, sess *Session, in Input) error {
	side, err := parseSide(in)
	if err != nil {
		return err
	}
	kind, err := c.store.QuickTransfer(ctx, side, in.Int("slot"))
	if err != nil {
		return rejected(err)
	}
	return sess.Println(display.Capitalize(kind.String()) + ".")
}

func (c *Console) use(ctx context.Context, sess *Session, in Input) error {
	if !in.Has("side") {
		if err := c.store.UseHeld(ctx); err != nil {
			return rejected(err)
		}
		return sess.Println("Used.")
	}
	if !in.Has("slot") {
		return NewUserError("Usage: use [side] [slot]")
	}

	side, err := parseSide(in)
	if err != nil {
		return err
	}
	if err := c.store.UseSlot(ctx, side, in.Int("slot")); err != nil {
		return rejected(err)
	}
	return sess.Println("Used.")
}

func (c *Console) give(ctx context.Context, sess *Session, in Input) error {
	if in.Has("player") {
		if err := c.store.SelectGiveTarget(ctx, in.Int("player")); err != nil {
			return rejected(err)
		}
		return sess.Println("Given.")
	}

	if err := c.store.GiveHeld(ctx); err != nil {
		return rejected(err)
	}

	nearby := c.store.View().Nearby
	if len(nearby) == 0 {
		return sess.Println("Waiting for the nearby player list.")
	}
	lines := []string{"Give to:"}
	for _, p := range nearby {
		lines = append(lines, fmt.Sprintf("  %d. %s (%.1fm)", p.ServerId, p.Name, p.Distance))
	}
	return sess.Println(strings.Join(lines, "\n"))
}

func (c *Console) cart(ctx context.Context, sess *Session, in Input) error {
	item := in.String("item")

	switch action := strings.ToLower(in.String("action")); action {
	case "":
		return c.show(ctx, sess, nil)
	case "add":
		slot, err := strconv.Atoi(item)
		if err != nil {
			return NewUserError("Usage: cart add <slot>")
		}
		if err := c.store.AddToCart(ctx, slot); err != nil {
			return rejected(err)
		}
	case "remove":
		if item == "" {
			return NewUserError("Usage: cart remove <item>")
		}
		if err := c.store.RemoveFromCart(ctx, item); err != nil {
			return rejected(err)
		}
	case "set":
		if item == "" || !in.Has("qty") {
			return NewUserError("Usage: cart set <item> <qty>")
		}
		if err := c.store.UpdateCartQuantity(ctx, item, in.Int("qty")); err != nil {
			return rejected(err)
		}
	default:
		return NewUserError(fmt.Sprintf("Unknown cart action %q.", action))
	}

	v := c.store.View()
	return sess.Println(fmt.Sprintf("Cart: %d line(s), %s.", len(v.Cart), display.Price(v.CartTotal)))
}

func (c *Console) pay(ctx context.Context, sess *Session, in Input) error {
	if err := c.store.SetPaymentMethod(ctx, strings.ToLower(in.String("method"))); err != nil {
		return rejected(err)
	}
	return sess.Println("Paying by " + strings.ToLower(in.String("method")) + ".")
}

func (c *Console) buy(ctx context.Context, sess *Session, _ Input) error {
	total := c.store.View().CartTotal
	if err := c.store.Purchase(ctx); err != nil {
		return rejected(err)
	}
	return sess.Println("Purchasing for " + display.Price(total) + ".")
}

func (c *Console) recipe(ctx context.Context, sess *Session, in Input) error {
	if err := c.store.SelectRecipe(ctx, in.Int("number")-1); err != nil {
		return rejected(err)
	}
	return c.show(ctx, sess, nil)
}

func (c *Console) craft(ctx context.Context, sess *Session, in Input) error {
	qty := 1
	if in.Has("qty") {
		qty = in.Int("qty")
	}
	if err := c.store.StartCraft(ctx, in.String("recipe"), qty); err != nil {
		return rejected(err)
	}
	return sess.Println("Crafting " + in.String("recipe") + ".")
}

func (c *Console) uncraft(ctx context.Context, sess *Session, _ Input) error {
	if err := c.store.CancelCraft(ctx); err != nil {
		return rejected(err)
	}
	return sess.Println("Craft cancelled.")
}

func (c *Console) seed(ctx context.Context, sess *Session, in Input) error {
	if c.fixtures == nil {
		return NewUserError("No fixtures are loaded.")
	}
	if !in.Has("number") {
		if c.menu.Len() == 0 {
			return sess.Println("No fixture inventories.")
		}
		return sess.Println(c.menu.Menu())
	}

	id, ok := c.menu.Select(in.Int("number"))
	if !ok {
		return NewUserError("Invalid selection!")
	}
	if err := c.fixtures.ShowSecondary(ctx, c.store, id); err != nil {
		return err
	}
	return c.show(ctx, sess, nil)
}

func (c *Console) close(ctx context.Context, sess *Session, _ Input) error {
	c.store.Close(ctx)
	return sess.Println("Closed.")
}
