package versions

import "github.com/Masterminds/semver/v3"

// Classify picks the upgrade candidates for current from stable releases
// ordered newest first.
//
// minor is the highest release in current's major line that is strictly
// greater than current. major is the highest release of the nearest major
// above current's, so "1.x" is offered 2.y even when 3.z exists.
//
// The scan stops at the first release in current's major line or below.
func Classify(current *semver.Version, stable []Release) (minor, major string) {
	if current == nil {
		return "", ""
	}
	var nearest uint64
	for _, r := range stable {
		v := r.Semver()
		if v == nil {
			continue
		}
		switch {
		case v.Major() > current.Major():
			// Descending order: the first release seen in a major line is its highest.
			if major == "" || v.Major() < nearest {
				major, nearest = r.Version, v.Major()
			}
		case v.Major() == current.Major():
			// Only the first release of the line can be the candidate.
			if v.GreaterThan(current) {
				minor = r.Version
			}
			return minor, major
		default:
			return minor, major
		}
	}
	return minor, major
}
