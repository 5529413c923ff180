package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/habitmosaic/pkg/buildinfo"
	"github.com/matzehuels/habitmosaic/pkg/cache"
	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/config"
	"github.com/matzehuels/habitmosaic/pkg/observability"
	"github.com/matzehuels/habitmosaic/pkg/pipeline"
	"github.com/matzehuels/habitmosaic/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	noStore    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Habitmosaic tracks habit chains as monthly mosaics",
		Long:         `Habitmosaic records daily habits and renders each month as a mosaic of organic cells, one per day, with the month name in the centre.`,
		Version:      buildinfo.Resolve().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&c.noStore, "no-store", false, "keep chains in memory for this run only")

	// Register all subcommands
	root.AddCommand(c.chainCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.mosaicCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.noStore {
		cfg.Store.Backend = config.StoreMemory
	}
	c.Config = cfg
	observability.NewLogHooks(c.Logger).Install()
	c.Logger.Debug("loaded config", "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Service & Runner Factories
// =============================================================================

// openService opens the configured chain store. The returned close func
// releases it.
func (c *CLI) openService(ctx context.Context) (*chain.Service, func(), error) {
	store, err := storage.Open(ctx, c.Config.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", c.Config.Store.Backend, err)
	}
	svc := chain.NewService(store, chain.WithLogger(c.Logger))
	closeFn := func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
	}
	return svc, closeFn, nil
}

// newRunner creates a pipeline runner for CLI use. Keys are scoped by
// build version so an upgraded generator never reads stale layouts.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Resolve().Version+":")
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.URL, appName+":")
	default:
		fc, err := cache.NewFileCache(cfg.Path)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Path, "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderDefaults returns pipeline options seeded from the [render] config.
func (c *CLI) renderDefaults() pipeline.Options {
	r := c.Config.Render
	return pipeline.Options{
		Width:          r.Width,
		Height:         r.Height,
		MinSizePercent: r.MinSizePercent,
		MaxSizePercent: r.MaxSizePercent,
		Formats:        append([]string(nil), r.Formats...),
		DayNumbers:     r.DayNumbers,
		Logger:         c.Logger,
	}
}
