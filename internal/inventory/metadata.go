package inventory

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"sort"
)

// Kind tags the dynamic type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "null"
	}
}

// Value is a loosely typed metadata value. Values are never mutated after
// they are decoded, so copies may share backing storage.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	m    map[string]Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == KindNumber
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

func (v Value) AsMap() (map[string]Value, bool) {
	return v.m, v.kind == KindMap
}

// Get returns a key of a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	child, ok := v.m[key]
	return child, ok
}

// Any converts the value back into plain Go values as produced by
// encoding/json.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, child := range v.list {
			out[i] = child.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, child := range v.m {
			out[k] = child.Any()
		}
		return out
	default:
		return nil
	}
}

// ValueOf converts a decoded JSON value into a Value.
func ValueOf(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("parsing number %q: %w", t, err)
		}
		return Number(n), nil
	case string:
		return String(t), nil
	case []any:
		list := make([]Value, 0, len(t))
		for i, child := range t {
			cv, err := ValueOf(child)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, cv)
		}
		return List(list...), nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, child := range t {
			cv, err := ValueOf(child)
			if err != nil {
				return Value{}, fmt.Errorf("key %s: %w", k, err)
			}
			m[k] = cv
		}
		return Map(m), nil
	default:
		return Value{}, fmt.Errorf("unsupported metadata value %T", raw)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

const (
	KeyCreateDate       = "CreateDate"
	KeyCustomItemLabel  = "CustomItemLabel"
	KeyCustomItemImage  = "CustomItemImage"
	KeySerialNumber     = "SerialNumber"
	KeyWeaponComponents = "WeaponComponents"
)

var knownKeys = map[string]bool{
	KeyCreateDate:       true,
	KeyCustomItemLabel:  true,
	KeyCustomItemImage:  true,
	KeySerialNumber:     true,
	KeyWeaponComponents: true,
}

// Metadata is the open per-stack key/value blob. It decodes from a JSON
// object or from a string holding a serialized Lua table.
type Metadata map[string]Value

// WeaponComponent is one attachment listed under WeaponComponents.
type WeaponComponent struct {
	Label string `json:"label"`
	Item  string `json:"item"`
}

func (m Metadata) CreateDate() (int64, bool) {
	n, ok := m[KeyCreateDate].AsNumber()
	if !ok || n == 0 {
		return 0, false
	}
	return int64(n), true
}

func (m Metadata) CustomItemLabel() string {
	s, _ := m[KeyCustomItemLabel].AsString()
	return s
}

func (m Metadata) CustomItemImage() string {
	s, _ := m[KeyCustomItemImage].AsString()
	return s
}

func (m Metadata) SerialNumber() string {
	s, _ := m[KeySerialNumber].AsString()
	return s
}

// WeaponComponents returns the attachments keyed by attachment slot. Entries
// that are not label/item maps are skipped.
func (m Metadata) WeaponComponents() map[string]WeaponComponent {
	raw, ok := m[KeyWeaponComponents].AsMap()
	if !ok {
		return nil
	}

	out := make(map[string]WeaponComponent, len(raw))
	for slot, v := range raw {
		label, _ := v.Get("label")
		item, _ := v.Get("item")
		l, lok := label.AsString()
		i, iok := item.AsString()
		if !lok && !iok {
			continue
		}
		out[slot] = WeaponComponent{Label: l, Item: i}
	}
	return out
}

// Other returns every key without a dedicated accessor.
func (m Metadata) Other() Metadata {
	out := Metadata{}
	for k, v := range m {
		if !knownKeys[k] {
			out[k] = v
		}
	}
	return out
}

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decoding metadata: %w", err)
	}

	switch t := raw.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		*m = DecodeLua(t)
		return nil
	case map[string]any:
		v, err := ValueOf(t)
		if err != nil {
			return fmt.Errorf("decoding metadata: %w", err)
		}
		*m = Metadata(v.m)
		return nil
	case []any:
		// An empty Lua table serializes as an array.
		if len(t) == 0 {
			*m = Metadata{}
			return nil
		}
	}
	return fmt.Errorf("metadata must be an object or string, got %T", raw)
}

var (
	luaKeyPattern      = regexp.MustCompile(`\[([^\[\]]+)\]\s*=`)
	luaTrailingPattern = regexp.MustCompile(`,(\s*)\}`)
)

// DecodeLua reads a Lua table literal such as `{["SerialNumber"] = "A1",}`.
// Anything that cannot be decoded yields empty metadata.
func DecodeLua(lua string) Metadata {
	rewritten := luaKeyPattern.ReplaceAllString(lua, "$1 :")
	rewritten = luaTrailingPattern.ReplaceAllString(rewritten, "$1}")

	var raw map[string]any
	if err := json.Unmarshal([]byte(rewritten), &raw); err != nil {
		return Metadata{}
	}

	v, err := ValueOf(raw)
	if err != nil {
		return Metadata{}
	}
	return Metadata(v.m)
}
