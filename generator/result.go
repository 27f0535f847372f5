package generator

import (
	"github.com/teranos/dtypegen/directive"
	"github.com/teranos/dtypegen/expand"
	"github.com/teranos/dtypegen/initializer"
)

// Result holds one transformed template and what it was built from.
type Result struct {
	// Name identifies the template (its path relative to the input root)
	Name string

	// Output is the generated text, written to the output file as-is
	Output string

	// Directives are the parsed datatype and initializer declarations
	Directives directive.Directives

	// Matrix is the synthesized initializer table; nil without a CREATE_INITIALIZER directive
	Matrix *initializer.Matrix

	// Expansion reports regions and copies emitted by the region expander
	Expansion expand.Result
}

// Datatypes returns the selection the template was expanded for.
func (r *Result) Datatypes() []string {
	return r.Directives.Selection.Strings()
}
