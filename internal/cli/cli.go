package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/pkg/assets"
	"github.com/deckforge/deckforge/pkg/buildinfo"
	"github.com/deckforge/deckforge/pkg/cache"
	"github.com/deckforge/deckforge/pkg/config"
	"github.com/deckforge/deckforge/pkg/deckstore"
	"github.com/deckforge/deckforge/pkg/export"
	"github.com/deckforge/deckforge/pkg/fonts"
	"github.com/deckforge/deckforge/pkg/generate"
	"github.com/deckforge/deckforge/pkg/httputil"
	"github.com/deckforge/deckforge/pkg/render"
	"github.com/deckforge/deckforge/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "deckforge"

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
	Logger  *log.Logger
	cfgPath string
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
		Use:          "deckforge",
		Short:        "Deckforge turns prompts into editable slide decks",
		Long:         `Deckforge is a slide-deck engine: it generates slide backgrounds from prompts, lets you manipulate text and image overlays, and exports the result as PNG, PDF, or PPTX.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "config file (default ~/.config/deckforge/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.decksCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the effective configuration for a command invocation.
func (c *CLI) config() (config.Config, error) {
	return config.LoadOrDefault(c.cfgPath)
}

// =============================================================================
// Component Factories
// =============================================================================

// newGenerator builds the generation client from config, or nil when no
// endpoint is configured.
func (c *CLI) newGenerator(cfg config.Config, noCache bool) *generate.Client {
	if cfg.Generation.Endpoint == "" {
		return nil
	}
	opts := []generate.Option{generate.WithLogger(c.Logger)}
	if !noCache {
		if hc, err := httputil.NewCache("", cfg.Cache.TTL()); err == nil {
			opts = append(opts, generate.WithCache(hc))
		}
	}
	return generate.NewClient(cfg.Generation.Endpoint, cfg.Generation.APIKey, opts...)
}

// newEngine builds the export engine with a cache-backed asset loader.
func (c *CLI) newEngine(cfg config.Config, noCache bool) (*export.Engine, error) {
	fc, err := c.newFonts(cfg)
	if err != nil {
		return nil, err
	}
	backend := c.newCacheBackend(cfg, noCache)
	loader := assets.NewLoader(
		assets.WithCache(backend, nil),
		assets.WithLogger(c.Logger),
	)
	renderer := render.New(loader, fc)
	return export.New(renderer, loader, fc, export.WithLogger(c.Logger)), nil
}

// newFonts loads the render fonts, preferring the configured system font
// when [render] font is set.
func (c *CLI) newFonts(cfg config.Config) (*fonts.Collection, error) {
	if cfg.Render.Font != "" {
		return fonts.LoadSystem(cfg.Render.Font)
	}
	return fonts.Load()
}

func (c *CLI) newCacheBackend(cfg config.Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache()
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisAddr != "" {
		return cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// newAssetStore builds the upload target for editor images. Without a
// configured storage endpoint, images are inlined as data URLs.
func (c *CLI) newAssetStore(cfg config.Config) storage.Store {
	if cfg.Storage.Endpoint == "" {
		return storage.NewInlineStore()
	}
	primary := storage.NewHTTPStore(cfg.Storage.Endpoint, cfg.Storage.APIKey)
	return storage.NewFallbackStore(primary, c.Logger)
}

// newStore builds the deck store from config.
func (c *CLI) newStore(cmd *cobra.Command, cfg config.Config) (deckstore.Store, error) {
	switch cfg.DeckStore.Backend {
	case "memory":
		return deckstore.NewMemoryStore(), nil
	case "mongo":
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		return deckstore.NewMongoStore(ctx, cfg.DeckStore.MongoURI, cfg.DeckStore.MongoDB)
	default:
		return deckstore.NewFileStore(cfg.DeckStore.Dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/deckforge/).
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
