package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/manifest"
)

// pickCommand creates the interactive upgrade picker.
func (c *CLI) pickCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "pick [package.json]",
		Short: "Interactively choose upgrades",
		Long: `Pick shows every dependency with its minor and major candidates. Move with
the arrow keys, press m or M to write the candidate into the file, and r to
discard cached lookups and check again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultManifest
			if len(args) == 1 {
				path = args[0]
			}
			return c.runPick(cmd, path, concurrency)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "parallel registry lookups (default from config)")
	return cmd
}

func (c *CLI) runPick(cmd *cobra.Command, path string, concurrency int) error {
	text, mode, err := readManifest(path)
	if err != nil {
		return err
	}
	if len(manifest.Parse(text)) == 0 {
		printInfo("No dependencies found in %s", path)
		return nil
	}

	lookups := c.newCache()
	save := func(updated string) error {
		if err := os.WriteFile(path, []byte(updated), mode); err != nil {
			return upgerr.Wrap(upgerr.ErrCodeInternal, err, "writing %s", path)
		}
		return nil
	}
	model := NewPickModel(cmd.Context(), path, text, c.newChecker(lookups, concurrency), lookups, save)

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(PickModel); ok && m.Applied > 0 {
		printSuccess("Applied %d upgrades to %s", m.Applied, path)
	}
	return nil
}

