package manifest

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Section identifies which dependency object a record was declared in.
type Section string

const (
	Runtime     Section = "dependencies"    // Runtime dependencies
	Development Section = "devDependencies" // Development-only dependencies
)

// Sections lists the well-known dependency sections in output order.
var Sections = []Section{Runtime, Development}

// Dependency is one declared dependency and the location of its version token.
type Dependency struct {
	Name       string  `json:"name"`       // Registry package name
	Constraint string  `json:"constraint"` // Version text as written, e.g. "^1.2.0"
	Section    Section `json:"section"`    // Section the entry was declared in
	Start      int     `json:"start"`      // Byte offset of the version token (opening quote)
	End        int     `json:"end"`        // Byte offset just past the version token (closing quote)
	Line       int     `json:"line"`       // Zero-based line of the version token
}

// Parse returns the dependencies declared in text, runtime entries first and
// each section in document order. Invalid documents yield an empty slice.
func Parse(text string) []Dependency {
	if !gjson.Valid(text) || !gjson.Parse(text).IsObject() {
		return nil
	}
	var deps []Dependency
	for _, s := range Sections {
		deps = append(deps, parseSection(text, s)...)
	}
	return deps
}

func parseSection(text string, section Section) []Dependency {
	node := gjson.Get(text, string(section))
	if !node.IsObject() {
		return nil
	}

	var deps []Dependency
	node.ForEach(func(key, value gjson.Result) bool {
		if key.Type != gjson.String || value.Type != gjson.String {
			return true
		}
		if key.Str == "" || value.Str == "" {
			return true
		}
		deps = append(deps, Dependency{
			Name:       key.Str,
			Constraint: value.Str,
			Section:    section,
			Start:      value.Index,
			End:        value.Index + len(value.Raw),
			Line:       lineAt(text, value.Index),
		})
		return true
	})
	return deps
}

func lineAt(text string, offset int) int {
	offset = min(offset, len(text))
	return strings.Count(text[:offset], "\n")
}

// At returns the dependency whose version token contains offset.
// Both ends of the range are inclusive so a cursor placed right after the
// closing quote still matches.
func At(deps []Dependency, offset int) (Dependency, bool) {
	for _, d := range deps {
		if offset >= d.Start && offset <= d.End {
			return d, true
		}
	}
	return Dependency{}, false
}
