package versions

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// UnknownDate is the Release date used when the registry has no publish time.
const UnknownDate = "Unknown"

// Release is one published version and its publish date (YYYY-MM-DD).
type Release struct {
	Version string `json:"version"`
	Date    string `json:"date"`

	semver *semver.Version
}

// Semver returns the parsed version, or nil if Version is not valid semver.
func (r Release) Semver() *semver.Version {
	if r.semver != nil {
		return r.semver
	}
	v, _ := parse(r.Version)
	return v
}

// Prerelease reports whether the release carries a pre-release label.
func (r Release) Prerelease() bool {
	v := r.Semver()
	return v != nil && v.Prerelease() != ""
}

// Report is the resolution result for one package and constraint.
// LatestMinor and LatestMajor are empty when no candidate exists.
type Report struct {
	Current     string    `json:"current"`
	Latest      string    `json:"latest"`
	LatestMinor string    `json:"latestMinor,omitempty"`
	LatestMajor string    `json:"latestMajor,omitempty"`
	All         []Release `json:"allVersions"`
	Stable      []Release `json:"stableVersions"`
}

// HasMinor reports whether a same-major upgrade exists.
func (r *Report) HasMinor() bool { return r != nil && r.LatestMinor != "" }

// HasMajor reports whether a next-major upgrade exists.
func (r *Report) HasMajor() bool { return r != nil && r.LatestMajor != "" }

// Metadata is the registry data a Report is built from.
type Metadata struct {
	Name     string
	Versions []string          // version keys as published
	Times    map[string]string // publish timestamps keyed by version
	Latest   string            // "latest" dist-tag, may be empty
}

// Fetcher retrieves registry metadata for a package.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (*Metadata, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, name string) (*Metadata, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, name string) (*Metadata, error) {
	return f(ctx, name)
}

// parse accepts strict semver with an optional leading "v", as npm does.
func parse(s string) (*semver.Version, error) {
	return semver.StrictNewVersion(strings.TrimPrefix(s, "v"))
}
