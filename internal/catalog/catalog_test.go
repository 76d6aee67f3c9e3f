package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"
	"gopkg.in/yaml.v3"
)

func TestStackLimit_UnmarshalJSON(t *testing.T) {
	tests := map[string]struct {
		raw        string
		expMax     int
		expCapped  bool
		expStacked bool
	}{
		"true is unbounded":   {raw: `true`, expMax: 0, expCapped: false, expStacked: true},
		"false is one":        {raw: `false`, expMax: 1, expCapped: true, expStacked: false},
		"null is one":         {raw: `null`, expMax: 1, expCapped: true, expStacked: false},
		"zero is one":         {raw: `0`, expMax: 1, expCapped: true, expStacked: false},
		"integer cap":         {raw: `10`, expMax: 10, expCapped: true, expStacked: true},
		"float cap truncated": {raw: `25.0`, expMax: 25, expCapped: true, expStacked: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var s StackLimit
			if err := json.Unmarshal([]byte(tt.raw), &s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			m, capped := s.Max()
			testutil.AssertEqual(t, "max", m, tt.expMax)
			testutil.AssertEqual(t, "capped", capped, tt.expCapped)
			testutil.AssertEqual(t, "stackable", s.Stackable(), tt.expStacked)
		})
	}
}

func TestStackLimit_UnmarshalJSON_Invalid(t *testing.T) {
	var s StackLimit
	err := json.Unmarshal([]byte(`"lots"`), &s)
	testutil.AssertErrorContains(t, err, "must be a bool or number")
}

func TestStackLimit_RoundTrip(t *testing.T) {
	limits := map[string]StackLimit{
		"unbounded":     Unbounded(),
		"not stackable": NotStackable(),
		"numeric one":   Limit(1),
		"capped":        Limit(50),
	}
	for name, s := range limits {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got StackLimit
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "limit", got, s, cmp.AllowUnexported(StackLimit{}))
		})
	}
}

func TestStackLimit_Numeric(t *testing.T) {
	tests := map[string]struct {
		raw string
		exp bool
	}{
		"explicit one": {raw: `1`, exp: true},
		"explicit cap": {raw: `20`, exp: true},
		"false":        {raw: `false`, exp: false},
		"absent":       {raw: `null`, exp: false},
		"zero":         {raw: `0`, exp: false},
		"unbounded":    {raw: `true`, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var s StackLimit
			if err := json.Unmarshal([]byte(tt.raw), &s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "numeric", s.Numeric(), tt.exp)
		})
	}
}

func TestStackLimit_Allows(t *testing.T) {
	tests := map[string]struct {
		limit StackLimit
		total int
		exp   bool
	}{
		"unbounded allows anything": {limit: Unbounded(), total: 100000, exp: true},
		"cap allows equal":          {limit: Limit(10), total: 10, exp: true},
		"cap rejects over":          {limit: Limit(10), total: 11, exp: false},
		"single rejects two":        {limit: Limit(1), total: 2, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "allows", tt.limit.Allows(tt.total), tt.exp)
		})
	}
}

func TestDefinition_UnmarshalYAML(t *testing.T) {
	raw := `
label: Burger
price: "12.50"
isUsable: true
isStackable: 100
rarity: 2
weight: 1
durability: 3600
`
	var d Definition
	if err := yaml.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, _ := d.Stackable.Max()
	testutil.AssertEqual(t, "label", d.Label, "Burger")
	testutil.AssertEqual(t, "price", d.Price.String(), "12.5")
	testutil.AssertEqual(t, "stack max", m, 100)
	testutil.AssertEqual(t, "durability", d.Durability, int64(3600))
}

func TestDefinition_Validate(t *testing.T) {
	tests := map[string]struct {
		def     Definition
		expErrs []string
	}{
		"valid": {
			def: Definition{Label: "Water", Rarity: 2, Weight: 1},
		},
		"missing label": {
			def:     Definition{Rarity: 1},
			expErrs: []string{"label is required"},
		},
		"rarity out of range and negative weight": {
			def:     Definition{Label: "Rock", Rarity: 9, Weight: -1},
			expErrs: []string{"rarity 9 is out of range", "weight must not be negative"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.def.Validate()
			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			for _, exp := range tt.expErrs {
				testutil.AssertErrorContains(t, err, exp)
			}
		})
	}
}

func TestDefinition_Durability(t *testing.T) {
	now := time.Unix(10_000, 0)
	def := &Definition{Label: "Burger", Durability: 1000}

	tests := map[string]struct {
		createDate int64
		expPct     int
		expOk      bool
		expDurable bool
		expBroken  bool
	}{
		"no create date": {
			createDate: 0,
			expOk:      false,
			expDurable: false,
		},
		"fresh": {
			createDate: 10_000,
			expPct:     100,
			expOk:      true,
			expDurable: true,
		},
		"half used": {
			createDate: 9_500,
			expPct:     50,
			expOk:      true,
			expDurable: true,
		},
		"expired": {
			createDate: 8_000,
			expPct:     -100,
			expOk:      true,
			expDurable: false,
			expBroken:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			pct, ok := def.DurabilityPercent(tt.createDate, now)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if ok {
				testutil.AssertEqual(t, "pct", pct, tt.expPct)
			}
			testutil.AssertEqual(t, "durable", def.IsDurable(tt.createDate, now), tt.expDurable)
			testutil.AssertEqual(t, "broken", def.IsBroken(tt.createDate, now), tt.expBroken)
		})
	}

	testutil.AssertEqual(t, "no window is durable", (&Definition{}).IsDurable(0, now), true)
}

func TestCatalog_ReplaceAndAdd(t *testing.T) {
	c := New(map[string]*Definition{
		"burger": {Label: "Burger"},
		"water":  {Label: "Water"},
	})
	testutil.AssertEqual(t, "initial len", c.Len(), 2)

	snapshot := c.All()
	c.Add("bandage", &Definition{Label: "Bandage"})
	testutil.AssertEqual(t, "len after add", c.Len(), 3)
	testutil.AssertEqual(t, "earlier copy untouched", len(snapshot), 2)

	c.Replace(map[string]*Definition{"rock": {Label: "Rock"}})
	_, ok := c.Lookup("burger")
	testutil.AssertEqual(t, "burger gone after replace", ok, false)
	d, ok := c.Lookup("rock")
	testutil.AssertEqual(t, "rock present", ok, true)
	testutil.AssertEqual(t, "rock label", d.Label, "Rock")

	c.Reset()
	testutil.AssertEqual(t, "len after reset", c.Len(), 0)
}
