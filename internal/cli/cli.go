// Package cli implements the sysdesign command-line interface.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sysdesign/internal/config"
	"github.com/matzehuels/sysdesign/pkg/buildinfo"
	"github.com/matzehuels/sysdesign/pkg/cache"
	"github.com/matzehuels/sysdesign/pkg/httputil"
	"github.com/matzehuels/sysdesign/pkg/search"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sysdesign"

	// remoteAttempts and remoteDelay are the retry policy for the remote
	// locations API.
	remoteAttempts = 3
	remoteDelay    = 500 * time.Millisecond
)

// keyer prefixes every cache key with the application name.
var keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")

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
		Short:        "Sysdesign is a terminal reader for system design articles",
		Long:         `Sysdesign renders system design articles in the terminal, with live dropdown, modal and autocomplete widgets built on headless primitives.`,
		Version:      buildinfo.Read().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sysdesign/config.toml)")

	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the file named by --config, or the default file.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "cache", cfg.Cache.Backend, "search", cfg.Search.Mode)
	return cfg, nil
}

// =============================================================================
// Cache & Lookup Factory
// =============================================================================

// openCache opens the configured cache backend. The file backend defaults to
// cacheDir().
func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	target := cfg.CacheTarget()
	if cfg.Backend == cache.BackendFile && target == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		target = dir
	}
	return cache.Open(ctx, cfg.Backend, target)
}

// newLookup builds the location lookup for cfg. Embedded mode searches the
// bundled dataset; remote mode calls a locations API through store.
func newLookup(cfg config.Config, store cache.Cache) (*search.Lookup, error) {
	ttl := cfg.Cache.TTL.Duration
	var src search.Searcher
	switch cfg.Search.Mode {
	case config.SearchRemote:
		client, err := search.NewClient(cfg.Search.URL,
			search.WithHTTPClient(&http.Client{Timeout: cfg.Search.Timeout.Duration}),
			search.WithCache(httputil.NewCache(store, ttl)),
			search.WithRetry(remoteAttempts, remoteDelay),
		)
		if err != nil {
			return nil, err
		}
		src = client
	default:
		mem, err := search.NewEmbeddedStore()
		if err != nil {
			return nil, err
		}
		src = mem
	}
	return search.NewLookup(src,
		search.WithLimit(cfg.Search.Limit),
		search.WithResultCache(httputil.NewCache(store, ttl)),
		search.WithKeyer(cache.NewScopedKeyer(keyer, cfg.Search.Mode+":")),
	), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sysdesign/).
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
