package record

import (
	"strconv"
	"strings"

	"github.com/dsp-tools/dspsave/schema/expr"
)

// recordScope adapts a Value (and, inside array element evaluation, the
// current element index) to expr.Scope, so an if/props/default/array_size
// expression can reference sibling fields and the "i" loop variable.
type recordScope struct {
	v   *Value
	idx *int64
}

func (s *recordScope) Field(name string) (expr.Value, bool) {
	if base, idx, ok := splitIndexed(name); ok {
		raw, exists := s.v.Fields[base]
		if !exists {
			return expr.Value{}, false
		}
		return elementAt(raw, idx)
	}
	raw, exists := s.v.Fields[name]
	if !exists {
		return expr.Value{}, false
	}
	return toExprValue(raw), true
}

func (s *recordScope) Index() (int64, bool) {
	if s.idx == nil {
		return 0, false
	}
	return *s.idx, true
}

// splitIndexed recognizes the synthetic "name[idx]" form produced by
// expr's indexOp when evaluating a[i] against this scope.
func splitIndexed(name string) (base string, idx int64, ok bool) {
	open := strings.IndexByte(name, '[')
	if open < 0 || name[len(name)-1] != ']' {
		return "", 0, false
	}
	n, err := strconv.ParseInt(name[open+1:len(name)-1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return name[:open], n, true
}

func elementAt(raw any, idx int64) (expr.Value, bool) {
	switch arr := raw.(type) {
	case []byte:
		if idx < 0 || idx >= int64(len(arr)) {
			return expr.Value{}, false
		}
		return expr.Value{Kind: expr.KindInt, Int: int64(arr[idx])}, true
	case []any:
		if idx < 0 || idx >= int64(len(arr)) {
			return expr.Value{}, false
		}
		return toExprValue(arr[idx]), true
	case []*Value:
		if idx < 0 || idx >= int64(len(arr)) {
			return expr.Value{}, false
		}
		return toExprValue(arr[idx]), true
	default:
		return expr.Value{}, false
	}
}

// toExprValue converts a stored field value into the expression
// language's value model. Anything that isn't a scalar (nested records,
// arrays) is treated as a present-but-opaque value, so "!= null" still
// distinguishes it from a genuinely absent field.
func toExprValue(raw any) expr.Value {
	switch t := raw.(type) {
	case nil:
		return expr.Value{Kind: expr.KindNull}
	case bool:
		return expr.Value{Kind: expr.KindBool, Bool: t}
	case string:
		return expr.Value{Kind: expr.KindString, Str: t}
	case int8:
		return expr.Value{Kind: expr.KindInt, Int: int64(t)}
	case int16:
		return expr.Value{Kind: expr.KindInt, Int: int64(t)}
	case int32:
		return expr.Value{Kind: expr.KindInt, Int: int64(t)}
	case int64:
		return expr.Value{Kind: expr.KindInt, Int: t}
	case uint8:
		return expr.Value{Kind: expr.KindInt, Int: int64(t)}
	case uint16:
		return expr.Value{Kind: expr.KindInt, Int: int64(t)}
	case uint32:
		return expr.Value{Kind: expr.KindInt, Int: int64(t)}
	case uint64:
		return expr.Value{Kind: expr.KindInt, Int: int64(t)}
	default:
		return expr.Value{Kind: expr.KindBool, Bool: true}
	}
}
