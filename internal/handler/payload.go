package handler

import "encoding/json"

// Payload is a read-only view over a decoded JSON object.
type Payload map[string]any

// Value walks keys through nested objects and returns the value found, or nil
// if any step is missing or not an object.
func (p Payload) Value(keys ...string) any {
	var cur any = map[string]any(p)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

// Map returns the nested object at keys, or nil.
func (p Payload) Map(keys ...string) Payload {
	m, _ := p.Value(keys...).(map[string]any)
	return m
}

// String returns the value at keys as text. Numbers are rendered as they
// appeared on the wire; anything else yields "".
func (p Payload) String(keys ...string) string {
	switch v := p.Value(keys...).(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Number returns the numeric value at keys, or nil when absent or not a
// number. The result is meant for log attributes.
func (p Payload) Number(keys ...string) any {
	switch v := p.Value(keys...).(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case float64, int, int64:
		return v
	default:
		return nil
	}
}
