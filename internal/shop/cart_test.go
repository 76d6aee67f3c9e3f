package shop

import (
	"errors"
	"testing"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-testutil"
	"github.com/shopspring/decimal"
)

func TestMaxFor(t *testing.T) {
	tests := map[string]struct {
		limit catalog.StackLimit
		stock int
		exp   int
	}{
		"stack cap below stock": {limit: catalog.Limit(10), stock: 25, exp: 10},
		"stock below stack cap": {limit: catalog.Limit(10), stock: 4, exp: 4},
		"unbounded":             {limit: catalog.Unbounded(), stock: 5000, exp: MaxQuantity},
		"not stackable":         {limit: catalog.NotStackable(), stock: 3, exp: 3},
		"numeric cap of one":    {limit: catalog.Limit(1), stock: 3, exp: 1},
		"no stock":              {limit: catalog.Unbounded(), stock: 0, exp: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "max", MaxFor(tt.limit, tt.stock), tt.exp)
		})
	}
}

func TestCart_Add(t *testing.T) {
	price := decimal.RequireFromString("2.50")

	tests := map[string]struct {
		price  decimal.Decimal
		stock  int
		times  int
		expQty int
		expErr error
	}{
		"first unit":       {price: price, stock: 5, times: 1, expQty: 1},
		"same item stacks": {price: price, stock: 5, times: 3, expQty: 3},
		"stops at stock":   {price: price, stock: 2, times: 3, expQty: 2, expErr: ErrOutOfStock},
		"free item":        {price: decimal.Zero, stock: 5, times: 1, expErr: ErrNotForSale},
		"negative price":   {price: decimal.NewFromInt(-1), stock: 5, times: 1, expErr: ErrNotForSale},
		"nothing in stock": {price: price, stock: 0, times: 1, expErr: ErrOutOfStock},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCart()
			var err error
			for range tt.times {
				err = c.Add("water", 1, tt.price, catalog.Limit(10), tt.stock)
			}
			if tt.expErr != nil && !errors.Is(err, tt.expErr) {
				t.Fatalf("expected %v, got %v", tt.expErr, err)
			}
			if tt.expErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "quantity", c.Quantity("water"), tt.expQty)
			testutil.AssertEqual(t, "at most one line", c.Len() <= 1, true)
		})
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := map[string]struct {
		qty      int
		expQty   int
		expLines int
	}{
		"within bounds": {qty: 4, expQty: 4, expLines: 1},
		"clamped":       {qty: 50, expQty: 6, expLines: 1},
		"zero removes":  {qty: 0, expQty: 0, expLines: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCart()
			if err := c.Add("burger", 3, decimal.NewFromInt(5), catalog.Limit(100), 6); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := c.UpdateQuantity("burger", tt.qty); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "quantity", c.Quantity("burger"), tt.expQty)
			testutil.AssertEqual(t, "lines", c.Len(), tt.expLines)
		})
	}

	c := NewCart()
	err := c.UpdateQuantity("ghost", 2)
	testutil.AssertErrorContains(t, err, "not in the cart")
}

func TestCart_Total(t *testing.T) {
	c := NewCart()
	_ = c.Add("water", 1, decimal.RequireFromString("0.10"), catalog.Unbounded(), 50)
	_ = c.UpdateQuantity("water", 3)
	_ = c.Add("burger", 2, decimal.RequireFromString("12.25"), catalog.Unbounded(), 50)

	testutil.AssertEqual(t, "total", c.Total().String(), "12.55")

	_ = c.Remove("water")
	testutil.AssertEqual(t, "after remove", c.Total().String(), "12.25")
}

func TestCart_BeginPurchase(t *testing.T) {
	c := NewCart()

	_, err := c.BeginPurchase("shop-1", 11)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	_ = c.Add("water", 1, decimal.RequireFromString("1.5"), catalog.Unbounded(), 10)
	_ = c.UpdateQuantity("water", 2)
	_, err = c.BeginPurchase("shop-1", 11)
	if !errors.Is(err, ErrNoMethod) {
		t.Fatalf("expected ErrNoMethod, got %v", err)
	}

	m, err := ParseMethod("cash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.SetMethod(m)

	req, err := c.BeginPurchase("shop-1", 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "owner", req.ShopOwner, inventory.Owner("shop-1"))
	testutil.AssertEqual(t, "inv type", req.ShopInvType, inventory.Type(11))
	testutil.AssertEqual(t, "method", req.PaymentMethod, "cash")
	testutil.AssertEqual(t, "total", req.TotalPrice.String(), "3")
	testutil.AssertEqual(t, "lines", len(req.Items), 1)
	testutil.AssertEqual(t, "unit price", req.Items[0].UnitPrice.String(), "1.5")
	testutil.AssertEqual(t, "purchasing", c.Purchasing(), true)

	_, err = c.BeginPurchase("shop-1", 11)
	if !errors.Is(err, ErrPurchasing) {
		t.Fatalf("expected ErrPurchasing, got %v", err)
	}

	c.Clear()
	testutil.AssertEqual(t, "cleared lines", c.Len(), 0)
	testutil.AssertEqual(t, "cleared method", c.Method(), MethodNone)
	testutil.AssertEqual(t, "cleared purchasing", c.Purchasing(), false)
}

func TestParseMethod(t *testing.T) {
	_, err := ParseMethod("crypto")
	testutil.AssertErrorContains(t, err, "unknown payment method")
}
