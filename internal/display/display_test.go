package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/shopspring/decimal"
)

func TestPrice(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"small":    {in: "2.5", exp: "$2.50"},
		"grouped":  {in: "1234567.891", exp: "$1,234,567.89"},
		"zero":     {in: "0", exp: "$0.00"},
		"negative": {in: "-1500", exp: "-$1,500.00"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "price", Price(decimal.RequireFromString(tt.in)), tt.exp)
		})
	}
}

func TestBar(t *testing.T) {
	tests := map[string]struct {
		pct float64
		exp string
	}{
		"empty": {pct: 0, exp: "[..........]"},
		"half":  {pct: 50, exp: "[#####.....]"},
		"full":  {pct: 100, exp: "[##########]"},
		"over":  {pct: 140, exp: "[##########]"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "bar", Bar(tt.pct, 10), tt.exp)
		})
	}
}

func TestIndent(t *testing.T) {
	got := Indent(strings.TrimSpace(strings.Repeat("word ", 30)), 4)
	lines := strings.Split(got, "\n")
	testutil.AssertEqual(t, "wrapped", len(lines) > 1, true)
	for _, line := range lines {
		testutil.AssertEqual(t, "prefixed", strings.HasPrefix(line, "    "), true)
	}
}

func TestCapitalize(t *testing.T) {
	testutil.AssertEqual(t, "word", Capitalize("burger"), "Burger")
	testutil.AssertEqual(t, "empty", Capitalize(""), "")
}
