package inventory

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetadata_UnmarshalJSON(t *testing.T) {
	tests := map[string]struct {
		raw       string
		expSerial string
		expLabel  string
		expDate   int64
		expOther  []string
	}{
		"object": {
			raw:       `{"SerialNumber":"A-1","CustomItemLabel":"Lucky","CreateDate":1700000000,"ammo":12}`,
			expSerial: "A-1",
			expLabel:  "Lucky",
			expDate:   1700000000,
			expOther:  []string{"ammo"},
		},
		"lua table string": {
			raw:       `"{[\"SerialNumber\"] = \"B-2\", [\"clip\"] = 3,}"`,
			expSerial: "B-2",
			expOther:  []string{"clip"},
		},
		"undecodable string": {
			raw:      `"not a table"`,
			expOther: []string{},
		},
		"empty lua array": {
			raw:      `[]`,
			expOther: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var m Metadata
			if err := json.Unmarshal([]byte(tt.raw), &m); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			date, _ := m.CreateDate()
			testutil.AssertEqual(t, "serial", m.SerialNumber(), tt.expSerial)
			testutil.AssertEqual(t, "label", m.CustomItemLabel(), tt.expLabel)
			testutil.AssertEqual(t, "create date", date, tt.expDate)
			assert.Equal(t, tt.expOther, m.Other().Keys(), "other keys")
		})
	}
}

func TestMetadata_WeaponComponents(t *testing.T) {
	raw := `{"WeaponComponents":{"scope":{"label":"Scope","item":"scope_small"},"junk":5}}`

	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, map[string]WeaponComponent{
		"scope": {Label: "Scope", Item: "scope_small"},
	}, m.WeaponComponents())
}

func TestMetadata_RoundTrip(t *testing.T) {
	m := Metadata{
		KeySerialNumber: String("C-3"),
		"tags":          List(String("a"), Bool(true)),
		"nested":        Map(map[string]Value{"n": Number(2)}),
		"missing":       Null(),
	}

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Metadata
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, m, got)
}

func TestItem_EffectiveCreateDate(t *testing.T) {
	tests := map[string]struct {
		item Item
		exp  int64
	}{
		"stack date wins": {
			item: Item{CreateDate: 10, MetaData: Metadata{KeyCreateDate: Number(20)}},
			exp:  10,
		},
		"metadata fallback": {
			item: Item{MetaData: Metadata{KeyCreateDate: Number(20)}},
			exp:  20,
		},
		"none": {
			item: Item{},
			exp:  0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "create date", tt.item.EffectiveCreateDate(), tt.exp)
		})
	}
}
