package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/upgrader/internal/watch"
	"github.com/matzehuels/upgrader/pkg/check"
	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/manifest"
)

// checkOptions holds flags for the check command.
type checkOptions struct {
	section     string
	json        bool
	apply       string
	concurrency int
	watch       bool
}

// checkCommand creates the check command for listing available upgrades.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [package.json]",
		Short: "List available upgrades for every dependency",
		Long: `Check parses package.json, resolves every entry of "dependencies" and
"devDependencies" against the registry, and prints the newest release in the
declared major line (minor) and in the next major line (major).

With --apply, the chosen candidates are written back into the file. Quoting is
preserved; the range operator is replaced by the exact version.

With --watch, the check runs again whenever the file is saved. Lookups are
cached for the whole session, so only changed entries reach the registry.`,
		Example: `  upgrader check
  upgrader check web/package.json --section devDependencies
  upgrader check --apply minor
  upgrader check --watch
  upgrader check --json | jq '.results[] | select(.report.latestMajor)'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultManifest
			if len(args) == 1 {
				path = args[0]
			}
			return c.runCheck(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.section, "section", "", "only check one section (dependencies or devDependencies)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&opts.apply, "apply", "", "write upgrades to the file (minor or major)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "parallel registry lookups (default from config)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "check again whenever the file changes")
	cmd.MarkFlagsMutuallyExclusive("watch", "apply")

	cmd.RegisterFlagCompletionFunc("section", cobra.FixedCompletions(
		[]string{string(manifest.Runtime), string(manifest.Development)}, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("apply", cobra.FixedCompletions(
		[]string{string(check.Minor), string(check.Major)}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, path string, opts checkOptions) error {
	ctx := cmd.Context()

	var kind check.Kind
	if opts.apply != "" {
		k, err := check.ParseKind(opts.apply)
		if err != nil {
			return err
		}
		kind = k
	}

	checker := c.newChecker(c.newCache(), opts.concurrency)
	if !opts.watch {
		return c.checkOnce(ctx, checker, path, opts, kind)
	}

	if err := c.checkOnce(ctx, checker, path, opts, ""); err != nil && ctx.Err() == nil {
		printWarning("%s", upgerr.UserMessage(err))
	}
	printDetail("Watching %s for changes (Ctrl+C to stop)", path)
	return watch.File(ctx, path, watch.Options{Logger: c.Logger}, func() {
		if err := c.checkOnce(ctx, checker, path, opts, ""); err != nil && ctx.Err() == nil {
			printWarning("%s", upgerr.UserMessage(err))
		}
	})
}

// checkOnce reads path, resolves its dependencies, prints the outcome and,
// when kind is set, writes the upgrades back.
func (c *CLI) checkOnce(ctx context.Context, checker *check.Checker, path string, opts checkOptions, kind check.Kind) error {
	text, mode, err := readManifest(path)
	if err != nil {
		return err
	}

	deps, err := filterSection(manifest.Parse(text), opts.section)
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		printInfo("No dependencies found in %s", path)
		return nil
	}

	sw := startStopwatch(c.Logger)
	var onProgress check.Progress
	var spinner *Spinner
	if !opts.json {
		spinner = newProgressSpinner(ctx, "Checking updates", len(deps))
		onProgress = spinner.SetProgress
	}

	results, err := checker.CheckDependencies(ctx, deps, onProgress)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	sw.done("Checked dependencies", "count", len(results))

	if opts.json {
		return writeJSON(stdout, checkReport{Path: path, Results: results, Summary: check.Summarize(results)})
	}

	summary := check.Summarize(results)
	fmt.Fprintln(stdout, renderResults(results))
	printSummary(summary)
	if missing := summary.Total - summary.Resolved; missing > 0 {
		printWarning("%d dependencies could not be resolved (run with -v for details)", missing)
	}

	if kind == "" {
		return nil
	}
	updated, changed, err := check.Apply(text, results, kind)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		printInfo("No %s upgrades to apply", kind)
		return nil
	}
	if err := os.WriteFile(path, []byte(updated), mode); err != nil {
		return upgerr.Wrap(upgerr.ErrCodeInternal, err, "writing %s", path)
	}
	for _, r := range changed {
		printDetail("%s %s → %s", r.Name, r.Constraint, r.Target(kind))
	}
	printSuccess("Applied %d %s upgrades to %s", len(changed), kind, path)
	return nil
}

// checkReport is the JSON document printed by check --json.
type checkReport struct {
	Path    string         `json:"path"`
	Results []check.Result `json:"results"`
	Summary check.Summary  `json:"summary"`
}

func readManifest(path string) (string, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, upgerr.Wrap(upgerr.ErrCodeFileNotFound, err, "%s not found", path)
		}
		return "", 0, upgerr.Wrap(upgerr.ErrCodeInvalidInput, err, "reading %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, upgerr.Wrap(upgerr.ErrCodeInvalidInput, err, "reading %s", path)
	}
	return string(data), info.Mode().Perm(), nil
}

func filterSection(deps []manifest.Dependency, section string) ([]manifest.Dependency, error) {
	if section == "" {
		return deps, nil
	}
	s := manifest.Section(section)
	if !slices.Contains(manifest.Sections, s) {
		return nil, upgerr.New(upgerr.ErrCodeInvalidInput, "unknown section %q (want dependencies or devDependencies)", section)
	}
	return slices.DeleteFunc(deps, func(d manifest.Dependency) bool { return d.Section != s }), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
