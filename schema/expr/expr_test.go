package expr

import "testing"

type mapScope struct {
	fields map[string]Value
	idx    *int64
}

func (s *mapScope) Field(name string) (Value, bool) {
	v, ok := s.fields[name]
	return v, ok
}

func (s *mapScope) Index() (int64, bool) {
	if s.idx == nil {
		return 0, false
	}
	return *s.idx, true
}

func evalBool(t *testing.T, text string, sc Scope) bool {
	t.Helper()
	e, err := Compile(text)
	if err != nil {
		t.Fatalf("Compile(%q): %v", text, err)
	}
	v, err := e.Eval(sc)
	if err != nil {
		t.Fatalf("Eval(%q): %v", text, err)
	}
	return v.Truthy()
}

func TestBooleanFieldComparedToIntLiteral(t *testing.T) {
	sc := &mapScope{fields: map[string]Value{
		"has_thumbnail": {Kind: KindBool, Bool: true},
	}}
	if !evalBool(t, "has_thumbnail != 0", sc) {
		t.Fatal("expected has_thumbnail != 0 to be true when the field is true")
	}

	sc2 := &mapScope{fields: map[string]Value{
		"has_thumbnail": {Kind: KindBool, Bool: false},
	}}
	if evalBool(t, "has_thumbnail != 0", sc2) {
		t.Fatal("expected has_thumbnail != 0 to be false when the field is false")
	}
}

func TestNullComparison(t *testing.T) {
	sc := &mapScope{fields: map[string]Value{
		"opt": {Kind: KindNull},
	}}
	if !evalBool(t, "opt == null", sc) {
		t.Fatal("expected opt == null to be true")
	}
	sc2 := &mapScope{fields: map[string]Value{
		"opt": {Kind: KindInt, Int: 5},
	}}
	if !evalBool(t, "opt != null", sc2) {
		t.Fatal("expected opt != null to be true for a present field")
	}
}

func TestBooleanOperators(t *testing.T) {
	sc := &mapScope{fields: map[string]Value{
		"a": {Kind: KindInt, Int: 1},
		"b": {Kind: KindInt, Int: 2},
	}}
	if !evalBool(t, "a == 1 && b == 2", sc) {
		t.Fatal("expected a == 1 && b == 2")
	}
	if evalBool(t, "a == 2 || b == 3", sc) {
		t.Fatal("expected a == 2 || b == 3 to be false")
	}
	if !evalBool(t, "!(a == 2)", sc) {
		t.Fatal("expected !(a == 2)")
	}
}

func TestIndexVariable(t *testing.T) {
	i := int64(3)
	sc := &mapScope{idx: &i}
	e, err := Compile("i")
	if err != nil {
		t.Fatal(err)
	}
	v, err := e.Eval(sc)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindInt || v.Int != 3 {
		t.Fatalf("i = %+v, want int 3", v)
	}
}

func TestIndexVariableOutsideArrayFails(t *testing.T) {
	sc := &mapScope{}
	e, err := Compile("i")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Eval(sc); err == nil {
		t.Fatal("expected error using i outside array context")
	}
}

func TestArrayIndexing(t *testing.T) {
	sc := &mapScope{fields: map[string]Value{
		"items[2]": {Kind: KindInt, Int: 42},
	}}
	e, err := Compile("items[2]")
	if err != nil {
		t.Fatal(err)
	}
	v, err := e.Eval(sc)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int != 42 {
		t.Fatalf("items[2] = %v, want 42", v.Int)
	}
}

func TestIdentifierNormalization(t *testing.T) {
	sc := &mapScope{fields: map[string]Value{
		"abc_field": {Kind: KindInt, Int: 7},
	}}
	if v := evalBool(t, "ABCField == 7", sc); !v {
		t.Fatal("expected ABCField to normalize to abc_field")
	}
}

func TestStringLiteralComparison(t *testing.T) {
	sc := &mapScope{fields: map[string]Value{
		"name": {Kind: KindString, Str: "vein"},
	}}
	if !evalBool(t, `name == "vein"`, sc) {
		t.Fatal("expected string equality to hold")
	}
}
