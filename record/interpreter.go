package record

import (
	"errors"
	"fmt"
	"math"

	"github.com/dsp-tools/dspsave/codec"
	"github.com/dsp-tools/dspsave/dsperr"
	"github.com/dsp-tools/dspsave/schema"
	"github.com/dsp-tools/dspsave/schema/expr"
)

// Interpreter decodes, encodes, and sizes record instances against a
// Registry, implementing the symmetric decode/encode/size algorithm.
// Each expression text is compiled on first use and cached in the
// Interpreter by its text, rather than re-parsed per call.
type Interpreter struct {
	Registry *schema.Registry

	exprCache map[string]expr.Expr
}

// NewInterpreter returns an Interpreter bound to reg.
func NewInterpreter(reg *schema.Registry) *Interpreter {
	return &Interpreter{Registry: reg, exprCache: make(map[string]expr.Expr)}
}

func (ip *Interpreter) compile(text string) (expr.Expr, error) {
	if text == "" {
		return nil, nil
	}
	if e, ok := ip.exprCache[text]; ok {
		return e, nil
	}
	e, err := expr.Compile(text)
	if err != nil {
		return nil, fmt.Errorf("record: compiling expression %q: %w", text, err)
	}
	ip.exprCache[text] = e
	return e, nil
}

// Decode decodes one instance of the named (possibly generic, already
// concretely-argued) record type from c.
func (ip *Interpreter) Decode(recordName string, c *codec.Cursor) (*Value, error) {
	def, err := ip.Registry.Lookup(recordName)
	if err != nil {
		return nil, err
	}
	return ip.decodeRecord(def, c, nil)
}

func (ip *Interpreter) decodeRecord(def *schema.RecordDef, c *codec.Cursor, props []expr.Value) (*Value, error) {
	start := c.Pos()
	v := newValue(def)
	sc := &recordScope{v: v}

	for i := range def.Fields {
		f := &def.Fields[i]
		if err := ip.decodeField(def.Name, v, sc, f, c, props); err != nil {
			return nil, err
		}
	}

	v.LocationStart = start
	v.LocationEnd = c.Pos()
	return v, nil
}

func (ip *Interpreter) decodeField(recName string, v *Value, sc *recordScope, f *schema.FieldDef, c *codec.Cursor, props []expr.Value) error {
	if f.Injected {
		if f.Assertion == nil || !f.Assertion.IsInjectedIdx {
			return fmt.Errorf("record: field %q of %s is injected but has no props index", f.Name, recName)
		}
		idx := f.Assertion.InjectedIndex
		if idx < 0 || idx >= len(props) {
			return fmt.Errorf("record: field %q of %s wants props[%d], got %d props", f.Name, recName, idx, len(props))
		}
		v.set(f.Name, exprValueToAny(props[idx]))
		return nil
	}

	present := true
	if f.IfClause != "" {
		ce, err := ip.compile(f.IfClause)
		if err != nil {
			return err
		}
		cv, err := ce.Eval(sc)
		if err != nil {
			return fmt.Errorf("record: evaluating if-clause of %s.%s: %w", recName, f.Name, err)
		}
		present = cv.Truthy()
	}

	if !present {
		dv, err := ip.defaultValue(f, sc)
		if err != nil {
			return fmt.Errorf("record: default for %s.%s: %w", recName, f.Name, err)
		}
		v.set(f.Name, dv)
		return nil
	}

	val, err := ip.decodeValue(sc, f, c)
	if err != nil {
		return annotateDecodeErr(err, recName, f.Name, c.Pos())
	}
	v.set(f.Name, val)

	if f.Assertion != nil && !f.Assertion.IsInjectedIdx {
		if err := ip.checkAssertion(recName, f, sc, val); err != nil {
			return err
		}
	}
	return nil
}

func annotateDecodeErr(err error, recName, field string, offset int) error {
	if errors.Is(err, dsperr.ErrUnexpectedEOF) {
		return &dsperr.UnexpectedEOFError{Record: recName, Field: field, Offset: offset}
	}
	if errors.Is(err, dsperr.ErrUTF8) {
		return &dsperr.UTF8Error{Record: recName, Field: field}
	}
	return err
}

func (ip *Interpreter) decodeValue(sc *recordScope, f *schema.FieldDef, c *codec.Cursor) (any, error) {
	if f.IsArray {
		return ip.decodeArray(sc, f, c)
	}
	if schema.PrimitiveTypes[f.Type] {
		return decodePrimitive(f.Type, c)
	}
	def, err := ip.Registry.Instantiate(f.Type, f.TemplateArgs)
	if err != nil {
		return nil, err
	}
	childProps, err := ip.evalProps(f.Props, sc, nil)
	if err != nil {
		return nil, err
	}
	return ip.decodeRecord(def, c, childProps)
}

func (ip *Interpreter) decodeArray(sc *recordScope, f *schema.FieldDef, c *codec.Cursor) (any, error) {
	n, err := ip.evalArraySize(f, sc)
	if err != nil {
		return nil, err
	}

	if f.Type == "uint8" {
		return c.ReadBytes(int(n))
	}

	if schema.PrimitiveTypes[f.Type] {
		out := make([]any, n)
		for i := int64(0); i < n; i++ {
			val, err := decodePrimitive(f.Type, c)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	}

	def, err := ip.Registry.Instantiate(f.Type, f.TemplateArgs)
	if err != nil {
		return nil, err
	}
	out := make([]*Value, n)
	for i := int64(0); i < n; i++ {
		idx := i
		childProps, err := ip.evalProps(f.Props, sc, &idx)
		if err != nil {
			return nil, err
		}
		child, err := ip.decodeRecord(def, c, childProps)
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return out, nil
}

func (ip *Interpreter) evalArraySize(f *schema.FieldDef, sc *recordScope) (int64, error) {
	e, err := ip.compile(f.ArraySize)
	if err != nil {
		return 0, err
	}
	val, err := e.Eval(sc)
	if err != nil {
		return 0, fmt.Errorf("record: evaluating array_size of %q: %w", f.Name, err)
	}
	if val.Kind != expr.KindInt {
		return 0, fmt.Errorf("record: array_size of %q did not evaluate to an integer", f.Name)
	}
	if val.Int < 0 {
		return 0, fmt.Errorf("record: array_size of %q evaluated to a negative length", f.Name)
	}
	return val.Int, nil
}

// evalProps evaluates a field's props expressions in sc, with idx (if
// non-nil) bound as the "i" index variable for array element decode.
func (ip *Interpreter) evalProps(propsText []string, sc *recordScope, idx *int64) ([]expr.Value, error) {
	if len(propsText) == 0 {
		return nil, nil
	}
	child := &recordScope{v: sc.v, idx: idx}
	out := make([]expr.Value, len(propsText))
	for i, text := range propsText {
		e, err := ip.compile(text)
		if err != nil {
			return nil, err
		}
		val, err := e.Eval(child)
		if err != nil {
			return nil, fmt.Errorf("record: evaluating props[%d]: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

func (ip *Interpreter) defaultValue(f *schema.FieldDef, sc *recordScope) (any, error) {
	if f.Default == nil {
		return nil, nil
	}
	if f.Default.IsRef {
		ev, ok := sc.Field(f.Default.Ref)
		if !ok {
			return nil, fmt.Errorf("default references unknown field %q", f.Default.Ref)
		}
		return exprValueToAny(ev), nil
	}
	return literalToAny(f.Default.Const), nil
}

func (ip *Interpreter) checkAssertion(recName string, f *schema.FieldDef, sc *recordScope, val any) error {
	roc := f.Assertion.RefOrConst
	var expected any
	if roc.IsRef {
		ev, ok := sc.Field(roc.Ref)
		if !ok {
			return fmt.Errorf("record: assertion on %s.%s references unknown field %q", recName, f.Name, roc.Ref)
		}
		expected = exprValueToAny(ev)
	} else {
		expected = literalToAny(roc.Const)
	}
	if !valuesAssertEqual(val, expected) {
		return &dsperr.AssertionFailedError{Record: recName, Field: f.Name, Expected: expected, Actual: val}
	}
	return nil
}

func exprValueToAny(v expr.Value) any {
	switch v.Kind {
	case expr.KindInt:
		return v.Int
	case expr.KindString:
		return v.Str
	case expr.KindBool:
		return v.Bool
	default:
		return nil
	}
}

func literalToAny(lit *schema.Literal) any {
	switch lit.Kind {
	case schema.LiteralInt:
		return lit.Int
	case schema.LiteralFloat:
		return lit.Flt
	case schema.LiteralString:
		return lit.Str
	default:
		return nil
	}
}

// valuesAssertEqual implements assertion comparison: strings by byte
// equality, integers by exact equality (never through float64, which
// loses precision above 2^53), and floats by absolute epsilon 1e-6.
func valuesAssertEqual(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok2 := b.(string)
		return ok2 && as == bs
	}
	if ab, ok := a.(bool); ok {
		bb, ok2 := b.(bool)
		return ok2 && ab == bb
	}
	amag, aneg, aint := toIntMagnitude(a)
	bmag, bneg, bint := toIntMagnitude(b)
	if aint && bint {
		return amag == bmag && (aneg == bneg || amag == 0)
	}
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return math.Abs(af-bf) <= 1e-6
	}
	return false
}

// toIntMagnitude decomposes an integer value into a sign and an
// unsigned magnitude, letting two integers of different widths or
// signedness be compared exactly instead of through a lossy float64.
func toIntMagnitude(v any) (mag uint64, neg bool, ok bool) {
	switch t := v.(type) {
	case int8:
		return signedMagnitude(int64(t))
	case int16:
		return signedMagnitude(int64(t))
	case int32:
		return signedMagnitude(int64(t))
	case int64:
		return signedMagnitude(t)
	case uint8:
		return uint64(t), false, true
	case uint16:
		return uint64(t), false, true
	case uint32:
		return uint64(t), false, true
	case uint64:
		return t, false, true
	default:
		return 0, false, false
	}
}

func signedMagnitude(x int64) (uint64, bool, bool) {
	if x >= 0 {
		return uint64(x), false, true
	}
	// uint64(-(x+1))+1 avoids overflow when x is math.MinInt64.
	return uint64(-(x+1)) + 1, true, true
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// Encode serializes v (an object tree produced by Decode, or built
// manually) into s: injected fields consume nothing, an if-guarded
// field is written only when the clause evaluates true against v's own
// decoded values, and uint8 arrays are written as a raw buffer.
func (ip *Interpreter) Encode(v *Value, s *codec.Sink) error {
	sc := &recordScope{v: v}
	for i := range v.Def.Fields {
		f := &v.Def.Fields[i]
		if f.Injected {
			continue
		}
		present, err := ip.fieldPresent(f, sc)
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		val, ok := v.Fields[f.Name]
		if !ok {
			return fmt.Errorf("record: %s.%s has no value to encode", v.Def.Name, f.Name)
		}
		if err := ip.encodeValue(f, val, s); err != nil {
			return fmt.Errorf("record: encoding %s.%s: %w", v.Def.Name, f.Name, err)
		}
	}
	return nil
}

func (ip *Interpreter) fieldPresent(f *schema.FieldDef, sc *recordScope) (bool, error) {
	if f.IfClause == "" {
		return true, nil
	}
	ce, err := ip.compile(f.IfClause)
	if err != nil {
		return false, err
	}
	cv, err := ce.Eval(sc)
	if err != nil {
		return false, err
	}
	return cv.Truthy(), nil
}

func (ip *Interpreter) encodeValue(f *schema.FieldDef, val any, s *codec.Sink) error {
	if f.IsArray {
		return ip.encodeArray(f, val, s)
	}
	if schema.PrimitiveTypes[f.Type] {
		return encodePrimitive(f.Type, val, s)
	}
	child, ok := val.(*Value)
	if !ok || child == nil {
		return fmt.Errorf("expected a nested record value, got %T", val)
	}
	return ip.Encode(child, s)
}

func (ip *Interpreter) encodeArray(f *schema.FieldDef, val any, s *codec.Sink) error {
	if f.Type == "uint8" {
		buf, ok := val.([]byte)
		if !ok {
			return fmt.Errorf("expected []byte for uint8 array, got %T", val)
		}
		s.WriteBytes(buf)
		return nil
	}
	if schema.PrimitiveTypes[f.Type] {
		arr, ok := val.([]any)
		if !ok {
			return fmt.Errorf("expected []any for %s array, got %T", f.Type, val)
		}
		for _, e := range arr {
			if err := encodePrimitive(f.Type, e, s); err != nil {
				return err
			}
		}
		return nil
	}
	arr, ok := val.([]*Value)
	if !ok {
		return fmt.Errorf("expected []*Value for %s array, got %T", f.Type, val)
	}
	for _, child := range arr {
		if err := ip.Encode(child, s); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the total encoded size of v, mirroring Encode without
// touching a stream. It must agree with v.LocationEnd-v.LocationStart
// for any v obtained from Decode.
func (ip *Interpreter) Size(v *Value) (int, error) {
	sc := &recordScope{v: v}
	total := 0
	for i := range v.Def.Fields {
		f := &v.Def.Fields[i]
		if f.Injected {
			continue
		}
		present, err := ip.fieldPresent(f, sc)
		if err != nil {
			return 0, err
		}
		if !present {
			continue
		}
		val, ok := v.Fields[f.Name]
		if !ok {
			return 0, fmt.Errorf("record: %s.%s has no value to size", v.Def.Name, f.Name)
		}
		n, err := ip.sizeValue(f, val)
		if err != nil {
			return 0, fmt.Errorf("record: sizing %s.%s: %w", v.Def.Name, f.Name, err)
		}
		total += n
	}
	return total, nil
}

func (ip *Interpreter) sizeValue(f *schema.FieldDef, val any) (int, error) {
	if f.IsArray {
		return ip.sizeArray(f, val)
	}
	if schema.PrimitiveTypes[f.Type] {
		return sizePrimitive(f.Type, val)
	}
	child, ok := val.(*Value)
	if !ok || child == nil {
		return 0, fmt.Errorf("expected a nested record value, got %T", val)
	}
	return ip.Size(child)
}

func (ip *Interpreter) sizeArray(f *schema.FieldDef, val any) (int, error) {
	if f.Type == "uint8" {
		buf, ok := val.([]byte)
		if !ok {
			return 0, fmt.Errorf("expected []byte for uint8 array, got %T", val)
		}
		return len(buf), nil
	}
	if schema.PrimitiveTypes[f.Type] {
		arr, ok := val.([]any)
		if !ok {
			return 0, fmt.Errorf("expected []any for %s array, got %T", f.Type, val)
		}
		total := 0
		for _, e := range arr {
			n, err := sizePrimitive(f.Type, e)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	}
	arr, ok := val.([]*Value)
	if !ok {
		return 0, fmt.Errorf("expected []*Value for %s array, got %T", f.Type, val)
	}
	total := 0
	for _, child := range arr {
		n, err := ip.Size(child)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
