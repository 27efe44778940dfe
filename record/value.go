// Package record implements the object tree runtime and the
// codec interpreter that decodes, encodes, and sizes record instances
// against a schema.Registry.
package record

import (
	"fmt"
	"strings"

	"github.com/dsp-tools/dspsave/schema"
)

// Value is one decoded (or synthesized) record instance: field values in
// declaration order, plus the byte range it occupied in the source stream.
//
// Field values are stored as:
//   - Go primitives matching the Cursor/Sink method for the field's type
//     (int8, uint8, int16, uint16, int32 for int24/int32/FlexibleInt,
//     uint32, int64, uint64, bool, float32, float64, string),
//   - []byte for a uint8[n] array,
//   - []any for an array of any other primitive,
//   - *Value for a nested record field, or nil if absent,
//   - []*Value for an array of nested records,
//   - nil for any field bound to the null/absent marker (if clause false,
//     no default).
type Value struct {
	Def    *schema.RecordDef
	Fields map[string]any
	Order  []string

	// LocationStart and LocationEnd are the inclusive/exclusive byte range
	// the record occupied in the source stream, or -1/-1 if synthesized
	// rather than decoded.
	LocationStart int
	LocationEnd   int
}

func newValue(def *schema.RecordDef) *Value {
	return &Value{
		Def:           def,
		Fields:        make(map[string]any, len(def.Fields)),
		LocationStart: -1,
		LocationEnd:   -1,
	}
}

func (v *Value) set(name string, val any) {
	if _, exists := v.Fields[name]; !exists {
		v.Order = append(v.Order, name)
	}
	v.Fields[name] = val
}

// Get returns the value stored for a declared field, in whatever
// representation Decode or a manual Set left it in.
func (v *Value) Get(name string) (any, bool) {
	val, ok := v.Fields[name]
	return val, ok
}

// String renders a single-line, human-readable representation: field
// names and primitive values inline, nested records by type name only,
// with empty arrays distinguished from absent ones.
func (v *Value) String() string {
	var b strings.Builder
	b.WriteString(v.Def.Name)
	b.WriteByte('(')
	for i, name := range v.Order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(formatFieldValue(v.Fields[name]))
	}
	b.WriteByte(')')
	return b.String()
}

func formatFieldValue(val any) string {
	switch t := val.(type) {
	case nil:
		return "null"
	case *Value:
		if t == nil {
			return "null"
		}
		return t.Def.Name
	case []byte:
		return fmt.Sprintf("uint8[%d]", len(t))
	case []*Value:
		if len(t) == 0 {
			return "[]"
		}
		return fmt.Sprintf("%s[%d]", t[0].Def.Name, len(t))
	case []any:
		if len(t) == 0 {
			return "[]"
		}
		return fmt.Sprintf("%v[%d]", t[0], len(t))
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
