package versions

import (
	"cmp"
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/observability"
)

// Resolver resolves (package, constraint) pairs into Reports.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	fetcher Fetcher
	logger  *log.Logger
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithLogger sets the logger used for debug output on failed resolutions.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver that reads registry data through f.
func NewResolver(f Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: f,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches name once and builds its Report for constraint.
//
// onProgress, when non-nil, is called exactly once after the fetch returns,
// whether it succeeded or not. The boolean is false when no report could be
// produced; the cause is logged, never returned.
func (r *Resolver) Resolve(ctx context.Context, name, constraint string, onProgress func()) (*Report, bool) {
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, name)
	start := time.Now()

	report, err := r.resolve(ctx, name, constraint, onProgress)
	hooks.OnResolveComplete(ctx, name, err == nil, time.Since(start), err)
	if err != nil {
		r.logger.Debug("resolve failed", "package", name, "constraint", constraint, "error", err)
		return nil, false
	}
	return report, true
}

func (r *Resolver) resolve(ctx context.Context, name, constraint string, onProgress func()) (*Report, error) {
	meta, err := r.fetcher.Fetch(ctx, name)
	if onProgress != nil {
		onProgress()
	}
	if err != nil {
		return nil, err
	}
	return Build(meta, constraint)
}

// Build is the pure part of resolution: it orders meta's versions, splits off
// pre-releases, attaches dates, and classifies candidates for constraint.
// Fetchers reject documents without a versions object; an empty version
// list still yields a report with no candidates.
func Build(meta *Metadata, constraint string) (*Report, error) {
	if meta == nil {
		return nil, upgerr.New(upgerr.ErrCodeMalformed, "registry returned no metadata")
	}

	current, ok := Coerce(constraint)
	if !ok {
		return nil, upgerr.New(upgerr.ErrCodeInvalidVersion, "cannot derive a version from %q", constraint)
	}

	all := sortReleases(meta.Versions, meta.Times)
	stable := make([]Release, 0, len(all))
	for _, rel := range all {
		if rel.semver.Prerelease() == "" {
			stable = append(stable, rel)
		}
	}

	latest := meta.Latest
	if latest == "" && len(stable) > 0 {
		latest = stable[0].Version
	}

	minor, major := Classify(current, stable)
	return &Report{
		Current:     current.String(),
		Latest:      latest,
		LatestMinor: minor,
		LatestMajor: major,
		All:         all,
		Stable:      stable,
	}, nil
}

// sortReleases keeps the valid keys and orders them newest first. Versions
// that differ only in build metadata have equal precedence; they are ordered
// by metadata, descending, so the result is a strict total order. Keys that
// name the same version ("1.0.0" and "v1.0.0") collapse to one entry.
func sortReleases(keys []string, times map[string]string) []Release {
	keys = slices.Clone(keys)
	slices.Sort(keys)

	out := make([]Release, 0, len(keys))
	for _, k := range keys {
		v, err := parse(k)
		if err != nil {
			continue
		}
		out = append(out, Release{Version: k, Date: formatDate(times[k]), semver: v})
	}

	slices.SortStableFunc(out, func(a, b Release) int {
		if c := b.semver.Compare(a.semver); c != 0 {
			return c
		}
		return cmp.Compare(b.semver.Metadata(), a.semver.Metadata())
	})
	return slices.CompactFunc(out, func(a, b Release) bool {
		return a.semver.String() == b.semver.String()
	})
}

// formatDate renders a registry timestamp as YYYY-MM-DD in UTC.
func formatDate(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return UnknownDate
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC().Format(time.DateOnly)
		}
	}
	return UnknownDate
}
