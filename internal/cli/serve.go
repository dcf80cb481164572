package cli

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sysdesign/internal/config"
	"github.com/matzehuels/sysdesign/pkg/buildinfo"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/search"
)

const (
	shutdownTimeout = 5 * time.Second
	connectTimeout  = 10 * time.Second
)

// serveCommand runs the locations API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		seed     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the locations API used by the autocomplete",
		Long: `Serve answers GET /api/locations?search=<query> with {"data": [...]}.

Locations come from MongoDB when --mongo-uri (or server.mongo_uri) is set,
otherwise from the bundled dataset. --seed loads the bundled dataset into
MongoDB before serving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("mongo-uri") {
				cfg.Server.MongoURI = mongoURI
			}
			if cmd.Flags().Changed("seed") {
				cfg.Server.Seed = seed
			}
			return c.runServe(cmd.Context(), cfg.Server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string")
	cmd.Flags().BoolVar(&seed, "seed", false, "seed MongoDB with the bundled dataset")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.ServerConfig) error {
	logger := loggerFromContext(ctx)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           search.NewHandler(store, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr, "version", buildinfo.Read().Short())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", cfg.Addr)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore connects to MongoDB when configured, seeding it on request, and
// falls back to the bundled dataset.
func openStore(ctx context.Context, cfg config.ServerConfig) (search.Store, error) {
	logger := loggerFromContext(ctx)
	if cfg.MongoURI == "" {
		if cfg.Seed {
			logger.Warn("--seed has no effect without a MongoDB URI")
		}
		return search.NewEmbeddedStore()
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	store, err := search.NewMongoStore(connectCtx, cfg.MongoURI, cfg.Database, cfg.Collection)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if !cfg.Seed {
		return store, nil
	}

	prog := newProgress(logger)
	locs, err := search.Dataset()
	if err == nil {
		err = store.Seed(ctx, locs)
	}
	if err != nil {
		_ = store.Close(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "seed locations")
	}
	prog.done("Seeded " + strconv.Itoa(len(locs)) + " locations")
	return store, nil
}
