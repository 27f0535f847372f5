// Package directive extracts the two template directives: the datatype
// declaration and the initializer-table declaration.
//
// Both searches are independent single passes over the raw text and leave
// the text untouched; rewriting happens in the initializer and expand packages.
package directive

import (
	"strings"

	"github.com/teranos/dtypegen/dtype"
)

// Directive markers recognized in template text.
const (
	SelectionMarker   = "Supported datatypes:"
	InitializerMarker = "CREATE_INITIALIZER"
)

// Directives is everything the parser found in one template.
type Directives struct {
	// Selection is the effective datatype selection (declared or default).
	Selection dtype.Selection
	// Declared is false when the template had no datatype directive.
	Declared bool
	// Dropped lists declared tokens outside the canonical list.
	Dropped []string

	// Initializer is the table name from CREATE_INITIALIZER(<name>).
	Initializer    string
	HasInitializer bool
}

// Parse runs both directive searches over text.
func Parse(text string, reg *dtype.Registry) Directives {
	sel, declared, dropped := ParseSelection(text, reg)
	name, ok := ParseInitializerName(text)
	return Directives{
		Selection:      sel,
		Declared:       declared,
		Dropped:        dropped,
		Initializer:    name,
		HasInitializer: ok,
	}
}

// ParseSelection finds the first line containing "Supported datatypes:" and
// resolves the whitespace-separated tokens after it. Without a directive the
// registry's default selection applies and declared is false.
func ParseSelection(text string, reg *dtype.Registry) (sel dtype.Selection, declared bool, dropped []string) {
	rest, ok := findLine(text, SelectionMarker)
	if !ok {
		return reg.DefaultSelection(), false, nil
	}
	sel, dropped = reg.ResolveDeclared(strings.Fields(rest))
	return sel, true, dropped
}

// ParseInitializerName returns <name> from the first "CREATE_INITIALIZER(<name>)".
// The name ends at the first closing parenthesis on the same line.
func ParseInitializerName(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		i := strings.Index(line, InitializerMarker+"(")
		if i < 0 {
			continue
		}
		args := line[i+len(InitializerMarker)+1:]
		end := strings.IndexByte(args, ')')
		if end < 0 {
			continue
		}
		return strings.TrimSpace(args[:end]), true
	}
	return "", false
}

// findLine returns the text after marker on the first line containing it.
func findLine(text, marker string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, marker); i >= 0 {
			return line[i+len(marker):], true
		}
	}
	return "", false
}
