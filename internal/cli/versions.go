package cli

import (
	"io"

	"github.com/spf13/cobra"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/versions"
)

// versionsCommand creates the versions command, which prints the release
// history of one package.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		all    bool
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "versions <package> [constraint]",
		Short: "Show the published versions of a package",
		Long: `Versions lists stable releases of a package, newest first, with their
publish dates. Given a constraint, it also shows the minor and major upgrade
candidates relative to that constraint.`,
		Example: `  upgrader versions react
  upgrader versions @types/node ^20.0.0
  upgrader versions typescript --all --limit 50`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, constraint := args[0], ""
			if len(args) == 2 {
				constraint = args[1]
			}
			return c.runVersions(cmd, name, constraint, all, limit, asJSON)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include pre-release versions")
	cmd.Flags().IntVarP(&limit, "limit", "n", maxReleasesShown, "maximum number of versions to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")

	return cmd
}

func (c *CLI) runVersions(cmd *cobra.Command, name, constraint string, all bool, limit int, asJSON bool) error {
	if err := upgerr.ValidatePackageName(name); err != nil {
		return err
	}

	// Without a constraint every release is a candidate.
	lookup := constraint
	if lookup == "" {
		lookup = "0.0.0"
	}

	spinner := newSpinner(cmd.Context(), "Fetching "+name)
	if !asJSON {
		spinner.Start()
	}
	report, ok := c.newCache().Lookup(cmd.Context(), name, lookup, nil)
	if !asJSON {
		spinner.Stop()
	}
	if !ok {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		return upgerr.New(upgerr.ErrCodePackageNotFound, "no version information for %s (run with -v for details)", name)
	}

	if asJSON {
		return writeJSON(stdout, report)
	}

	printVersions(name, constraint, report, all, limit)
	return nil
}

func printVersions(name, constraint string, report *versions.Report, all bool, limit int) {
	printNewline()
	printKeyValue("Package", StyleTitle.Render(name))
	if constraint != "" {
		printKeyValue("Declared", constraint)
		printKeyValue("Current", report.Current)
	}
	printKeyValue("Latest", report.Latest)
	if constraint != "" {
		printKeyValue("Minor", orNone(report.LatestMinor, styleMinor))
		printKeyValue("Major", orNone(report.LatestMajor, styleMajor))
	}
	printNewline()

	releases, label := report.Stable, "Stable versions"
	if all {
		releases, label = report.All, "All versions"
	}
	if len(releases) == 0 {
		printWarning("No %s published", label)
		return
	}
	printInfo("%s (newest first):", label)
	io.WriteString(stdout, renderReleases(releases, report, limit))
}
