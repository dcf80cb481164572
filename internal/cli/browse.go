package cli

import (
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sysdesign/internal/site"
	"github.com/matzehuels/sysdesign/internal/tui"
	"github.com/matzehuels/sysdesign/pkg/buildinfo"
	"github.com/matzehuels/sysdesign/pkg/errors"
)

// browseCommand opens the interactive reader.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		slug    string
		section string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "browse [article]",
		Short: "Read the articles in an interactive terminal UI",
		Long: `Browse opens the article reader. Widgets embedded in an article are live:
click or tab to them, open dropdowns, type into the location search.

Logs would corrupt the screen, so they are discarded while the reader runs
unless --log-file is given.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			catalog, err := site.Load()
			if err != nil || len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var slugs []string
			for _, a := range catalog.Articles() {
				slugs = append(slugs, a.Slug+"\t"+a.Title)
			}
			return slugs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				slug = args[0]
			}
			return c.runBrowse(cmd, slug, section, logFile)
		},
	}

	cmd.Flags().StringVarP(&slug, "article", "a", "", "article slug to open")
	cmd.Flags().StringVarP(&section, "section", "s", "", "heading id to jump to")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file while the reader runs")

	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, slug, section, logFile string) error {
	ctx := cmd.Context()
	if slug != "" {
		if err := errors.ValidateArticleSlug(slug); err != nil {
			return err
		}
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	store, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := site.Load()
	if err != nil {
		return err
	}
	renderer, err := site.NewRenderer(cfg.Site.Style,
		site.WithCache(store, cfg.Cache.TTL.Duration),
		site.WithKeyer(keyer),
	)
	if err != nil {
		return err
	}
	lookup, err := newLookup(cfg, store)
	if err != nil {
		return err
	}

	app, err := tui.New(ctx, tui.Options{
		Catalog:  catalog,
		Renderer: renderer,
		Lookup:   lookup,
		Slug:     slug,
		Anchor:   strings.TrimPrefix(section, "#"),
		Debounce: cfg.Search.Debounce.Duration,
		Offset:   cfg.Dropdown.Offset,
		Padding:  cfg.Dropdown.Padding,
		MaxWidth: cfg.Site.Width,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	restore, err := c.redirectLogs(logFile)
	if err != nil {
		return err
	}
	defer restore()

	c.Logger.Info("reader started", "article", app.Article().Slug, "version", buildinfo.Read().Short())
	_, err = tea.NewProgram(app,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	).Run()
	return err
}

// redirectLogs points the logger at path, or discards it when path is empty.
// The returned func restores the previous output.
func (c *CLI) redirectLogs(path string) (func(), error) {
	var (
		out     io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		out, closeFn = f, f.Close
	}
	c.Logger.SetOutput(out)
	return func() {
		c.Logger.SetOutput(os.Stderr)
		_ = closeFn()
	}, nil
}
