// Package initializer synthesizes the function table that replaces a
// CREATE_INITIALIZER(<name>) directive.
//
// The table covers every canonical datatype and every operation, in canonical
// order, so generated code can index it by canonical datatype position. Slots
// for datatypes a template does not support hold the sentinel.
package initializer

import (
	"strings"

	"github.com/teranos/dtypegen/directive"
	"github.com/teranos/dtypegen/dtype"
	"github.com/teranos/dtypegen/errors"
)

// Defaults for the table layout.
const (
	DefaultSentinel  = "NULL"
	DefaultSeparator = ",\n      "
)

// DefaultOperations are the per-datatype operations, in slot order.
var DefaultOperations = []string{"compress", "decompress"}

// Slot is one cell of the datatype × operation matrix.
type Slot struct {
	Datatype  dtype.Datatype
	Operation string
	// Name is the qualified function name, or the sentinel when unsupported.
	Name      string
	Supported bool
}

// Matrix is the full table in canonical order: for each canonical datatype,
// one slot per operation.
type Matrix struct {
	Slots      []Slot
	operations int
	separator  string
}

// Len returns the number of slots.
func (m Matrix) Len() int {
	return len(m.Slots)
}

// Entries returns the slot names in table order.
func (m Matrix) Entries() []string {
	out := make([]string, len(m.Slots))
	for i, s := range m.Slots {
		out[i] = s.Name
	}
	return out
}

// At returns the slot for a canonical datatype index and operation index.
func (m Matrix) At(datatypeIndex, operationIndex int) (Slot, bool) {
	if operationIndex < 0 || operationIndex >= m.operations {
		return Slot{}, false
	}
	i := datatypeIndex*m.operations + operationIndex
	if datatypeIndex < 0 || i >= len(m.Slots) {
		return Slot{}, false
	}
	return m.Slots[i], true
}

// Render joins the entries with the configured separator.
func (m Matrix) Render() string {
	return strings.Join(m.Entries(), m.separator)
}

// Synthesizer builds matrices against a fixed registry and table layout.
type Synthesizer struct {
	registry   *dtype.Registry
	operations []string
	sentinel   string
	separator  string
}

// Option customizes a Synthesizer.
type Option func(*Synthesizer)

// WithOperations sets the operations emitted per datatype.
func WithOperations(ops ...string) Option {
	return func(s *Synthesizer) { s.operations = append([]string(nil), ops...) }
}

// WithSentinel sets the value emitted for unsupported slots.
func WithSentinel(sentinel string) Option {
	return func(s *Synthesizer) { s.sentinel = sentinel }
}

// WithSeparator sets the text placed between rendered entries.
func WithSeparator(sep string) Option {
	return func(s *Synthesizer) { s.separator = sep }
}

// New creates a Synthesizer. Operations must be non-empty and unique.
func New(reg *dtype.Registry, opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{
		registry:   reg,
		operations: append([]string(nil), DefaultOperations...),
		sentinel:   DefaultSentinel,
		separator:  DefaultSeparator,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.operations) == 0 {
		return nil, errors.New("at least one initializer operation is required")
	}
	seen := make(map[string]bool, len(s.operations))
	for _, op := range s.operations {
		if op == "" {
			return nil, errors.New("initializer operation names must not be empty")
		}
		if seen[op] {
			return nil, errors.Newf("duplicate initializer operation %q", op)
		}
		seen[op] = true
	}
	return s, nil
}

// Operations returns the configured operations in slot order.
func (s *Synthesizer) Operations() []string {
	return append([]string(nil), s.operations...)
}

// Synthesize builds the matrix for table name and a template's selection.
// Selected slots are named <name>_<operation>_<datatype>.
func (s *Synthesizer) Synthesize(name string, sel dtype.Selection) Matrix {
	canonical := s.registry.Canonical()
	m := Matrix{
		Slots:      make([]Slot, 0, len(canonical)*len(s.operations)),
		operations: len(s.operations),
		separator:  s.separator,
	}
	for _, d := range canonical {
		supported := sel.Contains(d)
		for _, op := range s.operations {
			slot := Slot{Datatype: d, Operation: op, Name: s.sentinel, Supported: supported}
			if supported {
				slot.Name = name + "_" + op + "_" + string(d)
			}
			m.Slots = append(m.Slots, slot)
		}
	}
	return m
}

// Rewrite replaces every CREATE_INITIALIZER directive in text with rendered.
// Text before the directive on its line is kept; everything from the
// directive to the end of the line is replaced.
func Rewrite(text, rendered string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if j := strings.Index(line, directive.InitializerMarker); j >= 0 {
			lines[i] = line[:j] + rendered
		}
	}
	return strings.Join(lines, "\n")
}
