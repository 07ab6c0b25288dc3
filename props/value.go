/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package props

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind discriminates the dynamic type held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNumber
	KindString
	KindBool
	KindMap
	KindList
)

// Value is a tagged union holding one of: number, string, bool, nested map,
// or list. The zero Value is invalid and means "absent".
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	m    Map
	l    []Value
}

// Number creates a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String creates a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool creates a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// MapOf creates a nested map Value.
func MapOf(m Map) Value { return Value{kind: KindMap, m: m} }

// ListOf creates a list Value.
func ListOf(vs ...Value) Value { return Value{kind: KindList, l: vs} }

// Kind returns the discriminator of the value.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value is the absent zero Value.
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// AsNumber returns the numeric payload, if the value holds a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string payload, if the value holds a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the boolean payload, if the value holds a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsMap returns the nested map payload, if the value holds a map.
func (v Value) AsMap() (Map, bool) { return v.m, v.kind == KindMap }

// AsList returns the list payload, if the value holds a list.
func (v Value) AsList() ([]Value, bool) { return v.l, v.kind == KindList }

// Interface converts the value back to its plain Go representation
// (float64, string, bool, map[string]any, []any, or nil when absent).
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindMap:
		return v.m.ToAny()
	case KindList:
		out := make([]any, len(v.l))
		for i, item := range v.l {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep, order-insensitive equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindMap:
		return v.m.Equal(o.m)
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IndexKey returns a canonical string form of the value for use as an
// attribute-index bucket key. Maps and lists are not indexable; the second
// return is false for them and for the zero Value.
func (v Value) IndexKey() (string, bool) {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64), true
	case KindString:
		return "s:" + v.str, true
	case KindBool:
		return "b:" + strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

func (v Value) String() string {
	return fmt.Sprintf("%v", v.Interface())
}

// MarshalJSON encodes the value as its plain Go representation.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value into the matching union member.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// FromAny converts an arbitrary dynamically-typed value into a Value.
// Numeric Go types collapse to float64; unknown types are stringified.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case Map:
		return MapOf(t)
	case map[string]Value:
		return MapOf(Map(t))
	case map[string]any:
		return MapOf(FromAnyMap(t))
	case map[any]any:
		// yaml.v3 decodes nested mappings with non-string keys this way
		m := make(Map, len(t))
		for k, val := range t {
			m[fmt.Sprintf("%v", k)] = FromAny(val)
		}
		return MapOf(m)
	case []Value:
		return ListOf(t...)
	case []any:
		l := make([]Value, len(t))
		for i, item := range t {
			l[i] = FromAny(item)
		}
		return Value{kind: KindList, l: l}
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Map is an open attribute bag mapping attribute names to Values.
type Map map[string]Value

// FromAnyMap converts a plain map into a typed attribute bag.
func FromAnyMap(raw map[string]any) Map {
	m := make(Map, len(raw))
	for k, v := range raw {
		m[k] = FromAny(v)
	}
	return m
}

// Clone returns a shallow copy of the bag (Values are immutable by
// convention, so a shallow copy is safe).
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge copies every entry of other into a clone of m and returns it.
func (m Map) Merge(other Map) Map {
	out := m.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Equal reports order-insensitive deep equality of two bags.
func (m Map) Equal(other Map) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the attribute names in sorted order for deterministic
// serialization.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToAny converts the bag into a plain map suitable for JSON or provider
// hand-off.
func (m Map) ToAny() map[string]any {
	out := make(map[string]any, len(m))
	for _, k := range m.Keys() {
		out[k] = m[k].Interface()
	}
	return out
}
