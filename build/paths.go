package build

import (
	"path/filepath"
	"strings"

	"github.com/teranos/dtypegen/errors"
)

// DefaultMarker is the filename infix identifying templates: name.dtype.c
const DefaultMarker = "dtype"

// Template is a discovered template and the output it maps to.
type Template struct {
	// Source is the template path on disk
	Source string
	// Rel is Source relative to the input root
	Rel string
	// OutputRel is the output path relative to the output root
	OutputRel string
	// Output is the output path on disk
	Output string
}

// TemplatePattern returns the basename glob for marker, e.g. "*.dtype.*".
func TemplatePattern(marker string) string {
	return "*." + marker + ".*"
}

// IsTemplate reports whether a basename matches the template naming convention.
func IsTemplate(name, marker string) bool {
	ok, err := filepath.Match(TemplatePattern(marker), name)
	return err == nil && ok
}

// DeriveOutputPath strips the last ".<marker>." infix from a path relative to
// the input root: "algo/algo-sz.dtype.c" -> "algo/algo-sz.c". A path that does
// not split into a non-empty stem and suffix wraps ErrUnmatchedTemplatePath.
func DeriveOutputPath(rel, marker string) (string, error) {
	infix := "." + marker + "."
	i := strings.LastIndex(rel, infix)
	if i < 0 {
		return "", errors.Wrapf(errors.ErrUnmatchedTemplatePath, "%s", rel)
	}

	stem, suffix := rel[:i], rel[i+len(infix):]
	if stem == "" || strings.HasSuffix(stem, string(filepath.Separator)) || suffix == "" {
		return "", errors.Wrapf(errors.ErrUnmatchedTemplatePath, "%s", rel)
	}
	return stem + "." + suffix, nil
}
