package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlive/pkg/buildinfo"
	"github.com/matzehuels/graphlive/pkg/cache"
	"github.com/matzehuels/graphlive/pkg/config"
	"github.com/matzehuels/graphlive/pkg/editor"
	"github.com/matzehuels/graphlive/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "graphlive"

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
		Short:        "Graphlive edits graphs and keeps their layout up to date",
		Long:         `Graphlive is a graph editor with a deferred layout engine. Graphs are stored as scene files, laid out with built-in or Graphviz algorithms, rendered to SVG/PDF/PNG and served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./graphlive.toml or ~/.config/graphlive/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.scenesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once. An explicit --config path must
// exist; otherwise the first file found by config.Find is used, falling
// back to the defaults.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	path := c.configPath
	if path == "" {
		path = config.Find()
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
		c.Logger.Debug("loaded config", "path", path)
	}
	// --verbose wins over the configured level.
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() != log.DebugLevel {
		c.Logger.SetLevel(lvl)
	}
	c.cfg = &cfg
	return cfg, nil
}

// cacheDir returns the directory of the file cache.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Editor Factory
// =============================================================================

// session bundles an editor with the cache behind its algorithm.
type session struct {
	ed    *editor.Editor
	cache cache.Cache
}

func (s *session) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// newSession opens the configured cache and creates an editor laid out
// with the named algorithm. An empty name uses the configured one.
func (c *CLI) newSession(ctx context.Context, algorithm string, noCache bool, opts ...editor.Option) (*session, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if algorithm == "" {
		algorithm = cfg.Layout.Algorithm
	}

	var ch cache.Cache = cache.NewNullCache()
	if !noCache {
		ch, err = cfg.Cache.OpenCache(ctx)
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
			ch = cache.NewNullCache()
		}
	}

	alg, err := cfg.Layout.Algorithm(algorithm, ch, cfg.Cache)
	if err != nil {
		ch.Close()
		return nil, err
	}

	opts = append([]editor.Option{editor.WithAlgorithm(alg), editor.WithLogger(c.Logger)}, opts...)
	ed := editor.New(opts...)
	if err := ed.SetAutoLayout(cfg.Layout.AutoLayout); err != nil {
		ch.Close()
		return nil, err
	}
	return &session{ed: ed, cache: ch}, nil
}

// resolver returns a function that builds algorithms with the configured
// canvas and cache.
func (c *CLI) resolver(ch cache.Cache) func(string) (layout.Algorithm, error) {
	return func(name string) (layout.Algorithm, error) {
		cfg, err := c.config()
		if err != nil {
			return nil, err
		}
		return cfg.Layout.Algorithm(name, ch, cfg.Cache)
	}
}

// algorithmUsage describes the --algorithm flag.
func algorithmUsage() string {
	return fmt.Sprintf("layout algorithm %v (default: from config)", layout.Names())
}
