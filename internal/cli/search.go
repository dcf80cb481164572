package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sysdesign/internal/config"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/search"
)

// searchCommand runs a single location lookup, the same one the autocomplete
// widget makes.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		limit  int
		remote string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Look up locations by name",
		Example: `  sysdesign search ber
  sysdesign search --remote http://localhost:8080 "new york"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if err := errors.ValidateQuery(query); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if limit > 0 {
				cfg.Search.Limit = limit
			}
			if remote != "" {
				cfg.Search.Mode = config.SearchRemote
				cfg.Search.URL = remote
			}
			return c.runSearch(cmd, cfg, query)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default from config)")
	cmd.Flags().StringVar(&remote, "remote", "", "query this locations API instead of the configured source")

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, cfg config.Config, query string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	lookup, err := newLookup(cfg, store)
	if err != nil {
		return err
	}

	var results []search.Location
	if cfg.Search.Mode == config.SearchRemote {
		spin := newSpinner(ctx, cmd.ErrOrStderr(), "Searching "+cfg.Search.URL+"...")
		spin.Start()
		results = lookup.Find(ctx, query)
		spin.Stop()
	} else {
		results = lookup.Find(ctx, query)
	}

	if len(results) == 0 {
		printWarning(out, "No locations found for %q", query)
		return nil
	}
	printTitle(out, "Locations matching "+query)
	for _, l := range results {
		printKeyValue(out, search.Key(l), l.Label())
	}
	if len(results) == lookup.Limit() {
		printDetail(out, "Showing the first %d results", lookup.Limit())
	}
	return nil
}
