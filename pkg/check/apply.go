package check

import (
	"cmp"
	"slices"

	"github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/manifest"
)

// Kind names a class of upgrade candidate.
type Kind string

const (
	Minor Kind = "minor" // newest release in the declared major line
	Major Kind = "major" // newest release of the next major line
)

// Kinds lists every upgrade kind in display order.
var Kinds = []Kind{Minor, Major}

// ParseKind validates a user-supplied kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Minor, Major:
		return k, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown upgrade kind %q (want minor or major)", s)
}

// Apply rewrites text so every result with a kind candidate declares that
// version exactly. Quotes around each token are preserved. Results must come
// from parsing text; it returns the new text and the results that changed.
func Apply(text string, results []Result, kind Kind) (string, []Result, error) {
	var edits []Result
	for _, r := range results {
		if r.Target(kind) != "" {
			edits = append(edits, r)
		}
	}

	// Later offsets first so earlier ranges stay valid.
	ordered := slices.SortedFunc(slices.Values(edits), func(a, b Result) int {
		return cmp.Compare(b.Start, a.Start)
	})

	var err error
	for _, r := range ordered {
		text, err = manifest.ReplaceVersion(text, r.Start, r.End, r.Target(kind))
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "updating %s", r.Name)
		}
	}
	return text, edits, nil
}
