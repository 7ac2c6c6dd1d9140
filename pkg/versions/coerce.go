package versions

import (
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// coerceRe finds the first run of up to three dot-separated numbers that is
// not embedded in a longer digit run. Components are capped at 16 digits.
var coerceRe = regexp.MustCompile(`(?:^|[^\d])(\d{1,16})(?:\.(\d{1,16}))?(?:\.(\d{1,16}))?(?:$|[^\d])`)

// maxSafeComponent is the largest component npm accepts (2^53 - 1).
const maxSafeComponent = 1<<53 - 1

// Coerce extracts a concrete version from a declared constraint.
// Missing minor and patch parts are zero-filled; everything else in the text
// (range operators, pre-release labels, trailing ranges) is ignored.
//
//	Coerce("^1.2")        // 1.2.0
//	Coerce(">=2.0.1 <3")  // 2.0.1
//	Coerce("latest")      // nil, false
func Coerce(constraint string) (*semver.Version, bool) {
	m := coerceRe.FindStringSubmatch(constraint)
	if m == nil {
		return nil, false
	}

	var parts [3]uint64
	for i, s := range m[1:] {
		if s == "" {
			continue
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || n > maxSafeComponent {
			return nil, false
		}
		parts[i] = n
	}
	return semver.New(parts[0], parts[1], parts[2], "", ""), true
}
