package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sysdesign/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the lookup and article cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached lookups and rendered articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := openCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer store.Close()

			switch s := store.(type) {
			case *cache.FileCache:
				if err := s.Clear(); err != nil {
					return fmt.Errorf("clear %s: %w", s.Dir(), err)
				}
				printSuccess(out, "Cleared file cache")
				printDetail(out, "Directory: %s", s.Dir())
			case *cache.RedisCache:
				n, err := s.ClearPrefix(cmd.Context(), appName+":")
				if err != nil {
					return fmt.Errorf("clear redis keys: %w", err)
				}
				printSuccess(out, "Cleared %d cached entries", n)
			default:
				printInfo(out, "The %s cache backend keeps nothing between runs", cfg.Cache.Backend)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
