// Package cli implements the pathlinker command-line interface.
//
// # Commands
//
//   - run: compute the K shortest simple paths between sources and targets
//   - serve: expose runs over HTTP
//   - cache: inspect or clear the result cache
//   - completion: generate shell completion scripts
//
// All commands accept --verbose (-v) for debug logging and --config to
// select a TOML configuration file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathlinker/internal/config"
	"github.com/matzehuels/pathlinker/pkg/buildinfo"
	"github.com/matzehuels/pathlinker/pkg/cache"
	"github.com/matzehuels/pathlinker/pkg/observability"
	"github.com/matzehuels/pathlinker/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "pathlinker"

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
	cfg        *config.Config
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "PathLinker finds the k shortest simple paths through interaction networks",
		Long: `PathLinker connects receptors to transcriptional regulators in protein
interaction networks by computing the k shortest simple paths from a set of
sources to a set of targets.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.loadConfig() },
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pathlinker/config.toml)")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// settings returns the loaded configuration, or the defaults before loading.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.keyer(), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.settings().Cache
	if noCache || cc.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	if cc.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) keyer() cache.Keyer {
	k := cache.NewDefaultKeyer()
	if ns := c.settings().Cache.Namespace; ns != "" {
		k = cache.NewScopedKeyer(k, ns)
	}
	return k
}

// cacheDir returns the configured file cache directory.
func (c *CLI) cacheDir() (string, error) {
	if dir := c.settings().Cache.Dir; dir != "" {
		return dir, nil
	}
	return config.DefaultCacheDir()
}
