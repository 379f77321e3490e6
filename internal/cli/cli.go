package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/pkg/buildinfo"
	"github.com/matzehuels/cactus/pkg/cache"
	"github.com/matzehuels/cactus/pkg/observability"
	"github.com/matzehuels/cactus/pkg/pipeline"
	"github.com/matzehuels/cactus/pkg/styles"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cactus"

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

	configFile string
	noCache    bool
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cactus draws hierarchies as nested circle diagrams",
		Long:         `Cactus lays out a tree as a cactus diagram, routes extra edges along the hierarchy, and renders static images or an interactive pan-and-zoom view.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.SetPipelineHooks(logPipelineHooks{c.Logger})
			observability.SetCacheHooks(logCacheHooks{c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/cactus/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the layout and artifact cache")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file once. The default location is optional,
// an explicit --config path is not.
func (c *CLI) loadConfig() error {
	if c.config != nil {
		return nil
	}
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			c.Logger.Debug("no config directory", "err", err)
		}
		path = p
	}
	cfg, warnings, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		c.Logger.Warn(w, "file", path)
	}
	c.config = cfg
	return nil
}

// cfg returns the loaded config, or the defaults before loading.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		return defaultConfig()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	cc := c.cfg().Cache
	switch strings.ToLower(cc.Backend) {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cc.Redis)
	default:
		dir := cc.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				c.Logger.Warn("cache disabled", "err", err)
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cactus/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderOptions builds pipeline options from the config file.
func (c *CLI) renderOptions() (pipeline.Options, error) {
	cfg := c.cfg()
	opts := pipeline.Options{
		Width:    cfg.Render.Width,
		Height:   cfg.Render.Height,
		Layout:   cfg.Layout,
		Formats:  cfg.Render.Formats,
		Bundling: cfg.Render.Bundling,
		Logger:   c.Logger,
	}
	opts.Curve.ControlRatio = cfg.Render.ControlRatio
	if cfg.Render.Style != "" {
		st, err := styles.Load(cfg.Render.Style)
		if err != nil {
			return opts, fmt.Errorf("style %s: %w", cfg.Render.Style, err)
		}
		opts.Style = st
	}
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseIDs parses a comma-separated list of node IDs.
func parseIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
