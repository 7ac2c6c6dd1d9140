package check

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/upgrader/pkg/manifest"
	"github.com/matzehuels/upgrader/pkg/versions"
)

// DefaultConcurrency bounds the number of lookups in flight at once.
const DefaultConcurrency = 8

// Lookuper resolves one dependency. [cache.Cache] implements it.
//
// [cache.Cache]: github.com/matzehuels/upgrader/pkg/cache.Cache
type Lookuper interface {
	Lookup(ctx context.Context, name, constraint string, onProgress func()) (*versions.Report, bool)
}

// Progress is called after each lookup returns with the number finished so far.
// Calls are serialized; done increases by one each time.
type Progress func(done, total int)

// Result pairs a declared dependency with its report. Report is nil when the
// package could not be resolved.
type Result struct {
	manifest.Dependency
	Report *versions.Report `json:"report,omitempty"`
}

// Found reports whether the dependency was resolved.
func (r Result) Found() bool { return r.Report != nil }

// Target returns the upgrade candidate of the given kind, or "".
func (r Result) Target(kind Kind) string {
	if r.Report == nil {
		return ""
	}
	switch kind {
	case Minor:
		return r.Report.LatestMinor
	case Major:
		return r.Report.LatestMajor
	}
	return ""
}

// Upgrades lists the kinds of upgrade available, minor before major.
func (r Result) Upgrades() []Kind {
	var kinds []Kind
	for _, k := range Kinds {
		if r.Target(k) != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Checker resolves manifests concurrently.
type Checker struct {
	lookup      Lookuper
	concurrency int
	logger      *log.Logger
}

// Option configures a [Checker].
type Option func(*Checker)

// WithConcurrency sets how many lookups may run at once. Values below one
// are ignored.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-dependency debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Checker that resolves through l.
func New(l Lookuper, opts ...Option) *Checker {
	c := &Checker{
		lookup:      l,
		concurrency: DefaultConcurrency,
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check parses text and resolves every declared dependency.
// Results follow manifest order. An unparsable manifest yields no results
// and no error.
func (c *Checker) Check(ctx context.Context, text string, progress Progress) ([]Result, error) {
	return c.CheckDependencies(ctx, manifest.Parse(text), progress)
}

// CheckDependencies resolves deps concurrently and waits for all of them.
// It fails only when ctx is cancelled.
func (c *Checker) CheckDependencies(ctx context.Context, deps []manifest.Dependency, progress Progress) ([]Result, error) {
	results := make([]Result, len(deps))
	total := len(deps)

	var (
		mu   sync.Mutex
		done int
	)
	tick := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if progress != nil {
			progress(done, total)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, dep := range deps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, ok := c.lookup.Lookup(gctx, dep.Name, dep.Constraint, nil)
			if !ok {
				c.logger.Debug("no versions found", "package", dep.Name, "constraint", dep.Constraint)
			}
			results[i] = Result{Dependency: dep, Report: report}
			tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary counts the outcomes of a check.
type Summary struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Minor    int `json:"minor"`
	Major    int `json:"major"`
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if !r.Found() {
			continue
		}
		s.Resolved++
		if r.Target(Minor) != "" {
			s.Minor++
		}
		if r.Target(Major) != "" {
			s.Major++
		}
	}
	return s
}
