package schema

import (
	"fmt"
	"strings"

	"github.com/dsp-tools/dspsave/dsperr"
)

// Registry holds every record definition by name and instantiates
// generic (template) records on demand, memoized by (name, args). The
// declared records are fixed once built; each template instantiation is
// added to the memo on its first Instantiate call (including calls made
// while decoding), not when the registry is built.
type Registry struct {
	records       map[string]*RecordDef
	order         []string
	instantiated  map[string]*RecordDef
	instantiating map[string]bool // cycle guard during Instantiate
	sha256        string
}

// NewRegistry builds a Registry from doc's records. Record names must be
// unique (invariant).
func NewRegistry(doc *Document) (*Registry, error) {
	reg := &Registry{
		records:      make(map[string]*RecordDef, len(doc.Records)),
		instantiated: make(map[string]*RecordDef),
		sha256:       doc.SHA256,
	}
	for _, rec := range doc.Records {
		if _, dup := reg.records[rec.Name]; dup {
			return nil, fmt.Errorf("duplicate record name %q", rec.Name)
		}
		reg.records[rec.Name] = rec
		reg.order = append(reg.order, rec.Name)
	}
	for _, rec := range doc.Records {
		if err := reg.validateReferences(rec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// RecordNames returns every top-level (schema-declared, not generic
// instantiation) record name, in declaration order.
func (r *Registry) RecordNames() []string {
	return append([]string(nil), r.order...)
}

// SHA256 returns the sha256 of the schema text the registry was built
// from, recorded by the parser for cache invalidation.
func (r *Registry) SHA256() string {
	return r.sha256
}

// Lookup returns the non-generic record definition registered under name,
// or an UnknownTypeError.
func (r *Registry) Lookup(name string) (*RecordDef, error) {
	if rec, ok := r.records[name]; ok {
		return rec, nil
	}
	if rec, ok := r.instantiated[name]; ok {
		return rec, nil
	}
	return nil, &dsperr.UnknownTypeError{Name: name}
}

func instantiatedName(name string, args []string) string {
	return fmt.Sprintf("%s<%s>", name, strings.Join(args, ","))
}

// Instantiate returns the registered record produced by substituting args
// for template's type parameters, cloning and specializing the template
// on first use and returning the memoized clone afterward.
func (r *Registry) Instantiate(name string, args []string) (*RecordDef, error) {
	if len(args) == 0 {
		return r.Lookup(name)
	}
	key := instantiatedName(name, args)
	if rec, ok := r.instantiated[key]; ok {
		return rec, nil
	}

	tmpl, ok := r.records[name]
	if !ok {
		return nil, &dsperr.UnknownTypeError{Name: name}
	}
	if !tmpl.IsTemplate {
		return nil, &dsperr.TemplateArityError{Name: name, Want: 0, Got: len(args)}
	}
	if len(tmpl.TemplateParams) != len(args) {
		return nil, &dsperr.TemplateArityError{Name: name, Want: len(tmpl.TemplateParams), Got: len(args)}
	}

	if r.instantiating == nil {
		r.instantiating = make(map[string]bool)
	}
	if r.instantiating[key] {
		return nil, &dsperr.SchemaCycleError{Name: name}
	}
	r.instantiating[key] = true
	defer delete(r.instantiating, key)

	subst := make(map[string]string, len(args))
	for i, p := range tmpl.TemplateParams {
		subst[p] = args[i]
	}

	clone := &RecordDef{
		Name:    key,
		Comment: tmpl.Comment,
		Fields:  make([]FieldDef, len(tmpl.Fields)),
	}
	for i, f := range tmpl.Fields {
		nf := f
		if mapped, ok := subst[f.Type]; ok {
			nf.Type = mapped
		}
		if len(f.TemplateArgs) > 0 {
			nf.TemplateArgs = make([]string, len(f.TemplateArgs))
			for j, a := range f.TemplateArgs {
				if mapped, ok := subst[a]; ok {
					nf.TemplateArgs[j] = mapped
				} else {
					nf.TemplateArgs[j] = a
				}
			}
		}
		clone.Fields[i] = nf
	}

	// Memoize before recursing into nested template instantiations so a
	// record that refers to its own instantiation only through an
	// if-guarded (conditional) field resolves instead of looping forever;
	// a non-array field with no if clause that names this same
	// instantiation is rejected below as a SchemaCycleError.
	r.instantiated[key] = clone

	for _, f := range clone.Fields {
		if len(f.TemplateArgs) == 0 {
			continue
		}
		if PrimitiveTypes[f.Type] {
			continue
		}
		if f.IfClause == "" && !f.IsArray && instantiatedName(f.Type, f.TemplateArgs) == key {
			delete(r.instantiated, key)
			return nil, &dsperr.SchemaCycleError{Name: name}
		}
		if _, err := r.Instantiate(f.Type, f.TemplateArgs); err != nil {
			delete(r.instantiated, key)
			return nil, err
		}
	}

	return clone, nil
}

// validateReferences checks that every non-template field's type resolves
// to a primitive or a record name known to the registry (generic
// instantiation targets are checked lazily, since their arguments may
// themselves be template parameters of an enclosing template).
func (r *Registry) validateReferences(rec *RecordDef) error {
	paramSet := make(map[string]bool, len(rec.TemplateParams))
	for _, p := range rec.TemplateParams {
		paramSet[p] = true
	}
	for _, f := range rec.Fields {
		if PrimitiveTypes[f.Type] || paramSet[f.Type] {
			continue
		}
		if _, ok := r.records[f.Type]; !ok {
			return &dsperr.UnknownTypeError{Name: f.Type}
		}
	}
	return nil
}
