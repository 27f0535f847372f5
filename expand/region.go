// Package expand replays repeat regions of a template once per selected datatype.
//
// A region opens on a comment line containing "Repeat for each data type" and
// closes on a comment line containing "End repeat". Marker lines are dropped.
// Inside each copy, <DATATYPE> becomes the datatype identifier and
// <DATATYPE_UPPER> its macro form. Regions do not nest.
package expand

import (
	"strings"

	"github.com/teranos/dtypegen/dtype"
)

// Markers and placeholders recognized by the expander.
const (
	StartPhrase = "Repeat for each data type"
	EndPhrase   = "End repeat"

	PlaceholderDatatype = "<DATATYPE>"
	PlaceholderUpper    = "<DATATYPE_UPPER>"
)

// commentOpeners start the comment text a marker phrase must appear in.
var commentOpeners = []string{"//", "/*"}

// LineKind classifies a template line for the region state machine.
type LineKind int

const (
	Literal LineKind = iota
	RegionStart
	RegionEnd
)

func (k LineKind) String() string {
	switch k {
	case RegionStart:
		return "region-start"
	case RegionEnd:
		return "region-end"
	default:
		return "literal"
	}
}

// Classify reports whether line is a region marker.
func Classify(line string) LineKind {
	comment, ok := commentText(line)
	if !ok {
		return Literal
	}
	switch {
	case strings.Contains(comment, StartPhrase):
		return RegionStart
	case strings.Contains(comment, EndPhrase):
		return RegionEnd
	default:
		return Literal
	}
}

// commentText returns the line's text from the first comment opener on.
func commentText(line string) (string, bool) {
	first := -1
	for _, opener := range commentOpeners {
		if i := strings.Index(line, opener); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	if first < 0 {
		return "", false
	}
	return line[first+2:], true
}

// Substitute fills both placeholders in line for datatype d.
func Substitute(line string, d dtype.Datatype) string {
	line = strings.ReplaceAll(line, PlaceholderDatatype, string(d))
	return strings.ReplaceAll(line, PlaceholderUpper, d.Upper())
}

// Result is the expanded text plus what the pass saw.
type Result struct {
	Text string
	// Regions counts closed regions.
	Regions int
	// Copies counts emitted region copies (Regions × |selection|).
	Copies int
	// Unterminated is set when the text ended inside a region.
	Unterminated bool
	// DroppedLines is the number of buffered lines discarded at end of text.
	DroppedLines int
	// StartLine is the 1-based line of the unterminated region's start marker.
	StartLine int
}

type state int

const (
	outside state = iota
	inside
)

// Expand runs the two-state region machine over text.
//
// Outside a region, lines are copied verbatim; an end marker there is an
// ordinary line. Inside, lines are buffered; a second start marker is
// dropped. On the end marker, the buffer is emitted once per datatype in
// selection order. A region still open at end of text is discarded.
func Expand(text string, sel dtype.Selection) Result {
	var (
		res     Result
		st      = outside
		out     []string
		pending []string
	)

	for n, line := range strings.Split(text, "\n") {
		kind := Classify(line)

		switch st {
		case outside:
			if kind == RegionStart {
				st = inside
				res.StartLine = n + 1
				continue
			}
			out = append(out, line)

		case inside:
			switch kind {
			case RegionStart:
				continue
			case RegionEnd:
				for _, d := range sel {
					for _, l := range pending {
						out = append(out, Substitute(l, d))
					}
					res.Copies++
				}
				res.Regions++
				pending = pending[:0]
				st = outside
			default:
				pending = append(pending, line)
			}
		}
	}

	if st == inside {
		res.Unterminated = true
		res.DroppedLines = len(pending)
	} else {
		res.StartLine = 0
	}
	res.Text = strings.Join(out, "\n")
	return res
}
