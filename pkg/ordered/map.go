// Package ordered provides the insertion-ordered JSON object used by the
// serializers. Key order in a serialized schema mirrors declaration order in
// the source property tree, which a plain Go map cannot preserve.
package ordered

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Map is a string-keyed object that remembers insertion order. Setting an
// existing key replaces its value in place.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// FromPairs builds a map from alternating key/value arguments. Odd trailing
// keys are ignored.
func FromPairs(pairs ...any) *Map {
	m := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// Set stores value under key and returns the map for chaining.
func (m *Map) Set(key string, value any) *Map {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil || m.values == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, keeping the order of the remaining entries.
func (m *Map) Delete(key string) {
	if m == nil || m.values == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for idx, existing := range m.keys {
		if existing == key {
			m.keys = append(m.keys[:idx], m.keys[idx+1:]...)
			break
		}
	}
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len reports the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each visits entries in order until fn returns false.
func (m *Map) Each(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// Plain converts the map, and any nested ordered maps or slices, into plain
// map[string]any values. Order is lost; use it for comparisons and for
// libraries that only accept native JSON values.
func (m *Map) Plain() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m.keys))
	for _, key := range m.keys {
		out[key] = Plain(m.values[key])
	}
	return out
}

// Plain converts value recursively, unwrapping *Map entries.
func Plain(value any) any {
	switch v := value.(type) {
	case *Map:
		if v == nil {
			return nil
		}
		return v.Plain()
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = Plain(item)
		}
		return out
	case []*Map:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = Plain(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Plain(item)
		}
		return out
	default:
		return value
	}
}

// Clone returns a deep copy of the map. Nested maps and slices are copied;
// scalar values are shared.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]any, len(m.values)),
	}
	for key, value := range m.values {
		out.values[key] = DeepCopy(value)
	}
	return out
}

// DeepCopy copies JSON-like values so the result shares no mutable state with
// the input.
func DeepCopy(value any) any {
	switch v := value.(type) {
	case *Map:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = DeepCopy(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = DeepCopy(item)
		}
		return out
	default:
		return value
	}
}

// MarshalJSON writes entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, key := range m.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}
		keyPayload, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valuePayload, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(keyPayload)
		buf.WriteByte(':')
		buf.Write(valuePayload)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
