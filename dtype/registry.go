// Package dtype holds the canonical list of numeric datatypes the generator
// specializes templates for, and the rules for resolving a template's
// datatype selection against it.
package dtype

import (
	"strings"

	"github.com/teranos/dtypegen/errors"
)

// Datatype is a numeric type identifier as written in the target language
// (e.g. "float", "int32_t").
type Datatype string

// typeSuffix is stripped from the macro form: int8_t -> INT8
const typeSuffix = "_T"

// String returns the identifier.
func (d Datatype) String() string {
	return string(d)
}

// Upper returns the macro-style form: upper-cased with a trailing "_T" removed.
func (d Datatype) Upper() string {
	return strings.TrimSuffix(strings.ToUpper(string(d)), typeSuffix)
}

// Built-in canonical list and default subset.
var (
	CanonicalDatatypes = []string{"float", "double", "int8_t", "int16_t", "int32_t", "int64_t"}
	DefaultDatatypes   = []string{"float", "double"}
)

// Registry is the immutable canonical datatype list plus the default subset
// used by templates that declare none.
type Registry struct {
	canonical []Datatype
	defaults  Selection
	index     map[Datatype]int
}

var builtin = mustRegistry(CanonicalDatatypes, DefaultDatatypes)

// Default returns the built-in registry.
func Default() *Registry {
	return builtin
}

// NewRegistry builds a registry from identifier lists, typically from config.
// Canonical entries must be non-empty and unique; defaults must be canonical.
func NewRegistry(canonical, defaults []string) (*Registry, error) {
	if len(canonical) == 0 {
		return nil, errors.New("canonical datatype list is empty")
	}

	r := &Registry{
		canonical: make([]Datatype, 0, len(canonical)),
		index:     make(map[Datatype]int, len(canonical)),
	}
	for _, name := range canonical {
		d := Datatype(strings.TrimSpace(name))
		if d == "" {
			return nil, errors.New("canonical datatype list contains an empty identifier")
		}
		if _, dup := r.index[d]; dup {
			return nil, errors.Newf("duplicate canonical datatype %q", d)
		}
		r.index[d] = len(r.canonical)
		r.canonical = append(r.canonical, d)
	}

	r.defaults = make(Selection, 0, len(defaults))
	for _, name := range defaults {
		d, ok := r.Lookup(name)
		if !ok {
			return nil, errors.Newf("default datatype %q is not in the canonical list", name)
		}
		if !r.defaults.Contains(d) {
			r.defaults = append(r.defaults, d)
		}
	}

	return r, nil
}

func mustRegistry(canonical, defaults []string) *Registry {
	r, err := NewRegistry(canonical, defaults)
	if err != nil {
		panic(err)
	}
	return r
}

// Canonical returns a copy of the canonical list in canonical order.
func (r *Registry) Canonical() []Datatype {
	out := make([]Datatype, len(r.canonical))
	copy(out, r.canonical)
	return out
}

// Len returns the number of canonical datatypes.
func (r *Registry) Len() int {
	return len(r.canonical)
}

// Contains reports canonical membership.
func (r *Registry) Contains(d Datatype) bool {
	_, ok := r.index[d]
	return ok
}

// Index returns the canonical position of d.
func (r *Registry) Index(d Datatype) (int, bool) {
	i, ok := r.index[d]
	return i, ok
}

// Lookup resolves a declared token to a canonical datatype.
func (r *Registry) Lookup(token string) (Datatype, bool) {
	d := Datatype(strings.TrimSpace(token))
	if !r.Contains(d) {
		return "", false
	}
	return d, true
}

// DefaultSelection is the selection used when a template has no datatype directive.
func (r *Registry) DefaultSelection() Selection {
	return r.defaults.clone()
}

// ResolveDeclared filters declared tokens to canonical datatypes, preserving
// declaration order. Unknown tokens are returned in dropped; repeated tokens
// keep their first position.
func (r *Registry) ResolveDeclared(tokens []string) (sel Selection, dropped []string) {
	sel = make(Selection, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		d, ok := r.Lookup(tok)
		if !ok {
			dropped = append(dropped, tok)
			continue
		}
		if !sel.Contains(d) {
			sel = append(sel, d)
		}
	}
	return sel, dropped
}
