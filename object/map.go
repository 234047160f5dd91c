package object

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Map is a mapping from string keys to objects that remembers insertion
// order. Object literals, request bodies and instance fields are Maps.
type Map struct {
	items *linkedhashmap.Map
}

func NewMap() *Map {
	return &Map{items: linkedhashmap.New()}
}

// NewMapFrom builds a Map from a Go map. Keys are inserted in sorted order.
func NewMapFrom(items map[string]Object) *Map {
	m := NewMap()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, items[k])
	}
	return m
}

func (m *Map) Type() Type {
	return MAP
}

func (m *Map) Get(key string) (Object, bool) {
	value, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	return value.(Object), true
}

// Set inserts or replaces a key. Replacing keeps the original position.
func (m *Map) Set(key string, value Object) {
	m.items.Put(key, value)
}

func (m *Map) Delete(key string) {
	m.items.Remove(key)
}

func (m *Map) Len() int {
	return m.items.Size()
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.items.Size())
	for _, k := range m.items.Keys() {
		keys = append(keys, k.(string))
	}
	return keys
}

// Values returns the values in insertion order.
func (m *Map) Values() []Object {
	values := make([]Object, 0, m.items.Size())
	for _, v := range m.items.Values() {
		values = append(values, v.(Object))
	}
	return values
}

// Each calls fn for each entry in insertion order until fn returns false.
func (m *Map) Each(fn func(key string, value Object) bool) {
	it := m.items.Iterator()
	for it.Next() {
		if !fn(it.Key().(string), it.Value().(Object)) {
			return
		}
	}
}

func (m *Map) Inspect() string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	m.Each(func(key string, value Object) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(NewString(key).Inspect())
		b.WriteString(": ")
		b.WriteString(value.Inspect())
		return true
	})
	b.WriteString("}")
	return b.String()
}

func (m *Map) String() string {
	return m.Inspect()
}

func (m *Map) Interface() any {
	result := make(map[string]any, m.Len())
	m.Each(func(key string, value Object) bool {
		result[key] = value.Interface()
		return true
	})
	return result
}

func (m *Map) Equals(other Object) bool {
	o, ok := other.(*Map)
	if !ok || o.Len() != m.Len() {
		return false
	}
	equal := true
	m.Each(func(key string, value Object) bool {
		ov, found := o.Get(key)
		if !found || !value.Equals(ov) {
			equal = false
		}
		return equal
	})
	return equal
}

func (m *Map) IsTruthy() bool {
	return m.Len() > 0
}

// GetAttr resolves keys first, then the length property.
func (m *Map) GetAttr(name string) (Object, bool) {
	if value, ok := m.Get(name); ok {
		return value, true
	}
	if name == "length" {
		return NewInt(int64(m.Len())), true
	}
	return nil, false
}

func (m *Map) SetAttr(name string, value Object) error {
	m.Set(name, value)
	return nil
}

// GetItem returns the value for a key. Non-string keys are converted with
// their String form. Missing keys yield Nil.
func (m *Map) GetItem(key Object) (Object, error) {
	if value, ok := m.Get(key.String()); ok {
		return value, nil
	}
	return Nil, nil
}

func (m *Map) SetItem(key, value Object) error {
	m.Set(key.String(), value)
	return nil
}

// MarshalJSON writes the entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	i := 0
	m.Each(func(key string, value Object) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var encoded []byte
		if encoded, err = json.Marshal(key); err != nil {
			return false
		}
		buf.Write(encoded)
		buf.WriteByte(':')
		if encoded, err = MarshalJSON(value); err != nil {
			return false
		}
		buf.Write(encoded)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
