package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/upgrader/pkg/check"
	"github.com/matzehuels/upgrader/pkg/manifest"
	"github.com/matzehuels/upgrader/pkg/versions"
)

func TestRenderResults(t *testing.T) {
	results := []check.Result{
		{
			Dependency: manifest.Dependency{Name: "react", Constraint: "^18.0.0", Section: manifest.Runtime},
			Report:     &versions.Report{Current: "18.0.0", Latest: "19.1.0", LatestMinor: "18.3.1", LatestMajor: "19.1.0"},
		},
		{
			Dependency: manifest.Dependency{Name: "ghost", Constraint: "1.0.0", Section: manifest.Development},
		},
	}

	out := renderResults(results)
	for _, want := range []string{"Package", "react", "^18.0.0", "18.3.1", "19.1.0", "ghost", "not found", "dev"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderResults() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderReleases(t *testing.T) {
	var releases []versions.Release
	for _, v := range []string{"2.1.0", "2.0.0", "1.3.1", "1.2.0", "1.0.0"} {
		releases = append(releases, versions.Release{Version: v, Date: "2024-01-01"})
	}
	report := &versions.Report{Current: "1.0.0", Latest: "2.1.0", LatestMinor: "1.3.1", LatestMajor: "2.1.0"}

	tests := []struct {
		name     string
		limit    int
		wantRest string
		wantLine int
	}{
		{"all", 0, "", 5},
		{"truncated", 2, "... and 3 more", 3},
		{"exact", 5, "", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderReleases(releases, report, tt.limit)
			lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
			if len(lines) != tt.wantLine {
				t.Errorf("got %d lines, want %d:\n%s", len(lines), tt.wantLine, out)
			}
			if tt.wantRest != "" && !strings.Contains(out, tt.wantRest) {
				t.Errorf("missing %q in:\n%s", tt.wantRest, out)
			}
			if !strings.Contains(lines[0], "latest") {
				t.Errorf("first line should be marked latest: %q", lines[0])
			}
		})
	}
}

func TestSectionLabel(t *testing.T) {
	dev := check.Result{Dependency: manifest.Dependency{Section: manifest.Development}}
	run := check.Result{Dependency: manifest.Dependency{Section: manifest.Runtime}}
	if got := sectionLabel(dev); got != "dev" {
		t.Errorf("sectionLabel(dev) = %q", got)
	}
	if got := sectionLabel(run); got != "" {
		t.Errorf("sectionLabel(runtime) = %q", got)
	}
}
