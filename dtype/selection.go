package dtype

import "strings"

// Selection is the ordered set of datatypes a template is expanded for.
// Its order is the order repeat regions are replayed in.
type Selection []Datatype

// Contains reports whether d is selected.
func (s Selection) Contains(d Datatype) bool {
	for _, x := range s {
		if x == d {
			return true
		}
	}
	return false
}

// Strings returns the identifiers in selection order.
func (s Selection) Strings() []string {
	out := make([]string, len(s))
	for i, d := range s {
		out[i] = string(d)
	}
	return out
}

// String joins the identifiers with spaces, the way the directive declares them.
func (s Selection) String() string {
	return strings.Join(s.Strings(), " ")
}

func (s Selection) clone() Selection {
	out := make(Selection, len(s))
	copy(out, s)
	return out
}
