package check

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/upgrader/pkg/cache"
	"github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/manifest"
	"github.com/matzehuels/upgrader/pkg/versions"
)

const pkgJSON = `{
  "dependencies": {
    "react": "^18.0.0",
    "ghost": "1.0.0"
  },
  "devDependencies": {
    "vitest": '~1.0.0',
    "jest": "^29.0.0"
  }
}`

// mapLookuper answers from a fixed table and tracks concurrency.
type mapLookuper struct {
	reports map[string]*versions.Report
	delay   time.Duration

	active, peak atomic.Int32
}

func (m *mapLookuper) Lookup(ctx context.Context, name, constraint string, _ func()) (*versions.Report, bool) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, false
		}
	}
	r, ok := m.reports[name]
	return r, ok
}

func fixture() *mapLookuper {
	return &mapLookuper{reports: map[string]*versions.Report{
		"react": {Current: "18.0.0", Latest: "19.1.0", LatestMinor: "18.3.1", LatestMajor: "19.1.0"},
		"jest":  {Current: "29.0.0", Latest: "29.7.0", LatestMinor: "29.7.0"},
	}}
}

func TestCheck(t *testing.T) {
	text := `{"dependencies": {"react": "^18.0.0", "ghost": "1.0.0"}, "devDependencies": {"jest": "^29.0.0"}}`

	results, err := New(fixture()).Check(context.Background(), text, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "react", results[0].Name)
	assert.True(t, results[0].Found())
	assert.Equal(t, []Kind{Minor, Major}, results[0].Upgrades())

	assert.Equal(t, "ghost", results[1].Name)
	assert.False(t, results[1].Found())
	assert.Empty(t, results[1].Upgrades())

	assert.Equal(t, manifest.Development, results[2].Section)
	assert.Equal(t, []Kind{Minor}, results[2].Upgrades())
}

func TestCheckInvalidManifest(t *testing.T) {
	results, err := New(fixture()).Check(context.Background(), pkgJSON, nil)
	require.NoError(t, err)
	assert.Empty(t, results, "single-quoted values are not JSON")
}

func TestCheckProgress(t *testing.T) {
	deps := make([]manifest.Dependency, 12)
	for i := range deps {
		deps[i] = manifest.Dependency{Name: "react", Constraint: "^18.0.0"}
	}

	var (
		mu    sync.Mutex
		seen  []int
		total int
	)
	_, err := New(fixture(), WithConcurrency(4)).CheckDependencies(context.Background(), deps, func(done, n int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, done)
		total = n
	})
	require.NoError(t, err)

	require.Len(t, seen, len(deps))
	for i, d := range seen {
		assert.Equal(t, i+1, d, "progress must count up by one")
	}
	assert.Equal(t, len(deps), total)
}

func TestCheckConcurrencyLimit(t *testing.T) {
	l := fixture()
	l.delay = 10 * time.Millisecond

	deps := make([]manifest.Dependency, 20)
	for i := range deps {
		deps[i] = manifest.Dependency{Name: "jest", Constraint: "^29.0.0"}
	}

	_, err := New(l, WithConcurrency(3)).CheckDependencies(context.Background(), deps, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, l.peak.Load(), int32(3))
	assert.Greater(t, l.peak.Load(), int32(1), "lookups should overlap")
}

func TestCheckCancelled(t *testing.T) {
	l := fixture()
	l.delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	deps := []manifest.Dependency{{Name: "react", Constraint: "18"}, {Name: "jest", Constraint: "29"}}
	results, err := New(l).CheckDependencies(ctx, deps, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, results)
}

func TestCheckThroughCache(t *testing.T) {
	var fetches atomic.Int32
	fetcher := versions.FetcherFunc(func(ctx context.Context, name string) (*versions.Metadata, error) {
		fetches.Add(1)
		return &versions.Metadata{Name: name, Versions: []string{"1.0.0", "1.2.0", "2.0.0"}}, nil
	})
	c := cache.New(versions.NewResolver(fetcher))

	text := `{"dependencies": {"a": "^1.0.0", "b": "^1.0.0"}, "devDependencies": {"a": "^1.0.0"}}`
	checker := New(c)

	results, err := checker.Check(context.Background(), text, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, "1.2.0", r.Target(Minor))
		assert.Equal(t, "2.0.0", r.Target(Major))
	}
	assert.EqualValues(t, 2, fetches.Load(), "duplicate keys share one fetch")

	_, err = checker.Check(context.Background(), text, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetches.Load(), "second check is served from cache")
}

func TestSummarize(t *testing.T) {
	text := `{"dependencies": {"react": "^18.0.0", "ghost": "1.0.0"}, "devDependencies": {"jest": "^29.0.0"}}`
	results, err := New(fixture()).Check(context.Background(), text, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 3, Resolved: 2, Minor: 2, Major: 1}, Summarize(results))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("minor")
	require.NoError(t, err)
	assert.Equal(t, Minor, k)

	k, err = ParseKind("major")
	require.NoError(t, err)
	assert.Equal(t, Major, k)

	_, err = ParseKind("patch")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestApply(t *testing.T) {
	text := `{
  "dependencies": {
    "react": "^18.0.0",
    "ghost": "1.0.0"
  },
  "devDependencies": {
    "jest": "^29.0.0"
  }
}`
	results, err := New(fixture()).Check(context.Background(), text, nil)
	require.NoError(t, err)

	minor, changed, err := Apply(text, results, Minor)
	require.NoError(t, err)
	require.Len(t, changed, 2)

	updated := manifest.Parse(minor)
	require.Len(t, updated, 3)
	assert.Equal(t, "18.3.1", updated[0].Constraint)
	assert.Equal(t, "1.0.0", updated[1].Constraint)
	assert.Equal(t, "29.7.0", updated[2].Constraint)

	major, changed, err := Apply(text, results, Major)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "react", changed[0].Name)
	assert.Contains(t, major, `"react": "19.1.0"`)
	assert.Contains(t, major, `"jest": "^29.0.0"`)
}

func TestApplyStaleOffsets(t *testing.T) {
	results := []Result{{
		Dependency: manifest.Dependency{Name: "react", Start: 100, End: 110},
		Report:     &versions.Report{LatestMinor: "18.3.1"},
	}}
	_, _, err := Apply(`{}`, results, Minor)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidManifest))
}
