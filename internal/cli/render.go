package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/upgrader/pkg/check"
	"github.com/matzehuels/upgrader/pkg/manifest"
	"github.com/matzehuels/upgrader/pkg/versions"
)

// maxReleasesShown caps the release list printed by the versions command.
const maxReleasesShown = 20

// renderResults draws one row per dependency: declared constraint, the two
// candidates, and the registry's latest tag.
func renderResults(results []check.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if !r.Found() {
			rows = append(rows, []string{r.Name, r.Constraint, StyleDim.Render("not found"), "", "", sectionLabel(r)})
			continue
		}
		rows = append(rows, []string{
			r.Name,
			r.Constraint,
			orNone(r.Report.LatestMinor, styleMinor),
			orNone(r.Report.LatestMajor, styleMajor),
			r.Report.Latest,
			sectionLabel(r),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Declared", "Minor", "Major", "Latest", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 5 {
				return base.Foreground(colorDim)
			}
			return base
		})
	return t.Render()
}

func sectionLabel(r check.Result) string {
	if r.Section == manifest.Development {
		return "dev"
	}
	return ""
}

// printSummary prints a single line tallying the check.
func printSummary(s check.Summary) {
	parts := []string{fmt.Sprintf("%d dependencies", s.Total)}
	if missing := s.Total - s.Resolved; missing > 0 {
		parts = append(parts, fmt.Sprintf("%d not found", missing))
	}
	parts = append(parts,
		styleMinor.Render(fmt.Sprintf("%d minor", s.Minor)),
		styleMajor.Render(fmt.Sprintf("%d major", s.Major)),
	)
	fmt.Fprintln(stdout, "  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// renderReleases lists releases newest first, at most limit of them, and
// notes how many were left out.
func renderReleases(releases []versions.Release, report *versions.Report, limit int) string {
	if limit <= 0 {
		limit = maxReleasesShown
	}
	var b strings.Builder
	shown := releases[:min(limit, len(releases))]
	for _, r := range shown {
		line := fmt.Sprintf("  %-14s %s", r.Version, StyleDim.Render(r.Date))
		switch r.Version {
		case report.Latest:
			line += " " + StyleHighlight.Render("latest")
		case report.LatestMinor:
			line += " " + styleMinor.Render("minor")
		case report.LatestMajor:
			line += " " + styleMajor.Render("major")
		}
		b.WriteString(line + "\n")
	}
	if rest := len(releases) - len(shown); rest > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  ... and %d more", rest)) + "\n")
	}
	return b.String()
}
