// Package schema parses the record-layout grammar into an in-memory
// intermediate representation, and resolves/instantiates record types
// via Registry.
package schema

// Primitive names recognized by the grammar; anything else in a field's
// Type must resolve to a registered record.
var PrimitiveTypes = map[string]bool{
	"int8": true, "uint8": true,
	"int16": true, "uint16": true,
	"int24":  true,
	"int32":  true, "uint32": true,
	"int64": true, "uint64": true,
	"boolean":     true,
	"float32":     true,
	"float64":     true,
	"varint":      true,
	"string":      true,
	"FlexibleInt": true,
}

// LiteralKind distinguishes the constant value kinds a schema literal can
// hold.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralString
)

// Literal is a parsed constant: a decimal/hex integer, a decimal float, or
// a double-quoted string.
type Literal struct {
	Kind LiteralKind
	Int  int64
	Flt  float64
	Str  string
}

// RefOrConst is either a constant Literal or a reference to another field
// by (snake_case) name, used by default clauses and assertions.
type RefOrConst struct {
	IsRef bool
	Ref   string   // field name, when IsRef
	Const *Literal // constant value, when !IsRef
}

// Assertion is a field's required value. For injected fields the "literal"
// is instead an index into the caller's props tuple.
type Assertion struct {
	RefOrConst
	InjectedIndex int
	IsInjectedIdx bool
}

// FieldDef is one declared field of a record, carrying every clause the
// grammar allows: array size, if-guard, props, default, and assertion.
type FieldDef struct {
	Name         string
	Type         string
	TemplateArgs []string

	Injected bool

	IsArray   bool
	ArraySize string // opaque expression text, evaluated in record scope

	IfClause string // opaque expression text; "" means unconditional

	Default *RefOrConst // nil means "no default"

	Props []string // opaque expression texts, one per injected prop of the target record

	Assertion *Assertion // nil means no assertion

	Comment string
}

// RecordDef is one schema record: a name, optional template parameters,
// and an ordered field list.
type RecordDef struct {
	Name           string
	TemplateParams []string
	Fields         []FieldDef
	Comment        string

	// IsTemplate is true when TemplateParams is non-empty; such records
	// are never decoded directly, only their named instantiations are.
	IsTemplate bool
}

// Document is the parsed form of one schema file: an ordered list of
// record definitions, plus the sha256 of the source text recorded for
// cache invalidation.
type Document struct {
	Records []*RecordDef
	SHA256  string
}
