// Package shop models the checkout cart shown while a shop is open.
package shop

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps any single cart line.
const MaxQuantity = 999

var (
	ErrNotForSale    = errors.New("item has no price")
	ErrOutOfStock    = errors.New("not enough stock")
	ErrNotInCart     = errors.New("item is not in the cart")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNoMethod      = errors.New("no payment method selected")
	ErrPurchasing    = errors.New("purchase already in progress")
	ErrUnknownMethod = errors.New("unknown payment method")
)

type Method string

const (
	MethodNone Method = ""
	MethodBank Method = "bank"
	MethodCash Method = "cash"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodBank, MethodCash:
		return m, nil
	default:
		return MethodNone, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Line is one item in the cart.
type Line struct {
	Item      string
	Slot      int
	Quantity  int
	UnitPrice decimal.Decimal
	Max       int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MaxFor bounds a line by the item's numeric stack cap and the shop's
// stock. Items marked false, absent or unbounded are bounded by stock alone.
func MaxFor(limit catalog.StackLimit, stock int) int {
	most := MaxQuantity
	if n, ok := limit.Max(); ok && limit.Numeric() {
		most = n
	}
	return max(0, min(most, stock, MaxQuantity))
}

// Cart holds at most one line per item.
type Cart struct {
	lines      []Line
	method     Method
	purchasing bool
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts one more unit of item into the cart.
func (c *Cart) Add(item string, slot int, unitPrice decimal.Decimal, limit catalog.StackLimit, stock int) error {
	if !unitPrice.IsPositive() {
		return fmt.Errorf("%w: %s", ErrNotForSale, item)
	}

	most := MaxFor(limit, stock)
	if i := c.index(item); i >= 0 {
		l := &c.lines[i]
		l.Max = most
		if l.Quantity >= most {
			return fmt.Errorf("%w: %s", ErrOutOfStock, item)
		}
		l.Quantity++
		return nil
	}

	if most < 1 {
		return fmt.Errorf("%w: %s", ErrOutOfStock, item)
	}
	c.lines = append(c.lines, Line{
		Item:      item,
		Slot:      slot,
		Quantity:  1,
		UnitPrice: unitPrice,
		Max:       most,
	})
	return nil
}

func (c *Cart) Remove(item string) error {
	i := c.index(item)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotInCart, item)
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return nil
}

// UpdateQuantity sets a line's quantity. Anything below one removes the line.
func (c *Cart) UpdateQuantity(item string, qty int) error {
	i := c.index(item)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotInCart, item)
	}
	if qty < 1 {
		c.lines = slices.Delete(c.lines, i, i+1)
		return nil
	}
	c.lines[i].Quantity = min(qty, c.lines[i].Max)
	return nil
}

func (c *Cart) Quantity(item string) int {
	if i := c.index(item); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) SetMethod(m Method) {
	c.method = m
}

func (c *Cart) Method() Method {
	return c.method
}

func (c *Cart) Purchasing() bool {
	return c.purchasing
}

// BeginPurchase locks the cart and builds the purchase request for the shop.
func (c *Cart) BeginPurchase(owner inventory.Owner, typ inventory.Type) (*protocol.PurchaseRequest, error) {
	switch {
	case c.purchasing:
		return nil, ErrPurchasing
	case len(c.lines) == 0:
		return nil, ErrEmptyCart
	case c.method == MethodNone:
		return nil, ErrNoMethod
	}

	req := &protocol.PurchaseRequest{
		ShopOwner:     owner,
		ShopInvType:   typ,
		PaymentMethod: string(c.method),
		TotalPrice:    json.Number(c.Total().String()),
	}
	for _, l := range c.lines {
		req.Items = append(req.Items, protocol.CartLine{
			ItemName:  l.Item,
			Quantity:  l.Quantity,
			UnitPrice: json.Number(l.UnitPrice.String()),
			Slot:      l.Slot,
		})
	}

	c.purchasing = true
	return req, nil
}

// EndPurchase unlocks the cart after a failed send.
func (c *Cart) EndPurchase() {
	c.purchasing = false
}

func (c *Cart) Clear() {
	c.lines = nil
	c.method = MethodNone
	c.purchasing = false
}

func (c *Cart) Clone() *Cart {
	cp := *c
	cp.lines = slices.Clone(c.lines)
	return &cp
}

func (c *Cart) index(item string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool {
		return l.Item == item
	})
}
