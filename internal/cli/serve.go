package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordbank/internal/api"
	"github.com/matzehuels/wordbank/pkg/observability"
	"github.com/matzehuels/wordbank/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wordbank API over HTTP",
		Long: `Serve the wordbank API over HTTP.

Layout results are cached in the configured backend (file, redis, mongo or
none) and boards live in the configured session store (memory, file or
redis). Settings come from the config file and WORDBANK_* environment
variables; a .env file in the working directory is read first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default: server.addr from config)")

	return cmd
}

// runServe wires cache, sessions, and hooks into the API server and serves
// until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	cc, err := openConfiguredCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	runner := pipeline.NewRunner(cc, nil, logger)
	runner.TTL = cfg.Cache.TTL.Duration
	defer runner.Close()

	sessions, err := cfg.OpenSessions()
	if err != nil {
		return fmt.Errorf("open %s session store: %w", cfg.Session.Backend, err)
	}
	defer sessions.Close()

	observability.NewLogHooks(logger).Register()
	defer observability.Reset()

	printKeyValue("Address", addr)
	printKeyValue("Cache", cfg.Cache.Backend)
	printKeyValue("Sessions", cfg.Session.Backend)

	srv := api.New(api.Options{
		Runner:          runner,
		Sessions:        sessions,
		Layout:          cfg.Layout,
		Logger:          logger,
		RequestTimeout:  cfg.Server.RequestTimeout.Duration,
		SessionTTL:      cfg.Session.TTL.Duration,
		CleanupInterval: cfg.Session.CleanupInterval.Duration,
	})
	if err := srv.Serve(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
