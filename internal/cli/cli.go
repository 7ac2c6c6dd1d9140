// Package cli implements the upgrader command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/upgrader/internal/config"
	"github.com/matzehuels/upgrader/pkg/buildinfo"
	"github.com/matzehuels/upgrader/pkg/cache"
	"github.com/matzehuels/upgrader/pkg/check"
	"github.com/matzehuels/upgrader/pkg/integrations"
	"github.com/matzehuels/upgrader/pkg/integrations/npm"
	"github.com/matzehuels/upgrader/pkg/versions"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "upgrader"

	// defaultManifest is checked when no path is given.
	defaultManifest = "package.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	registry   string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Configuration is loaded in PersistentPreRunE, before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Upgrader finds newer versions of your npm dependencies",
		Long:         `Upgrader reads package.json, looks up every dependency in the npm registry, and suggests the newest release in the same major line and in the next major line.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/upgrader/config.toml)")
	root.PersistentFlags().StringVar(&c.registry, "registry", "", "npm registry URL (overrides config)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.registry != "" {
		cfg.Registry.URL = c.registry
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}
	for _, key := range cfg.Overrides {
		c.Logger.Debug("applied env override", "key", key)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Resolution Stack
// =============================================================================

// newRegistryClient builds the npm client from the loaded configuration.
func (c *CLI) newRegistryClient() *npm.Client {
	r := c.cfg.Registry
	base := integrations.NewClient(
		integrations.WithTimeout(r.Timeout),
		integrations.WithRetries(r.Retries),
		integrations.WithRateLimit(r.RateLimit, r.Burst),
	)
	return npm.NewClient(base, r.URL)
}

// newCache wires registry client, resolver, and cache for one process run.
func (c *CLI) newCache() *cache.Cache {
	resolver := versions.NewResolver(versions.NewNPMFetcher(c.newRegistryClient()), versions.WithLogger(c.Logger))
	return cache.New(resolver, cache.WithLogger(c.Logger))
}

// newChecker returns a batch checker over lookups, honouring --concurrency
// when set.
func (c *CLI) newChecker(lookups check.Lookuper, concurrency int) *check.Checker {
	if concurrency <= 0 {
		concurrency = c.cfg.Check.Concurrency
	}
	return check.New(lookups, check.WithConcurrency(concurrency), check.WithLogger(c.Logger))
}
