package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordbank/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var configured bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts",
		Long: `Clear all cached layouts.

By default the local cache used by the layout command is cleared. With
--configured the backend from the config file is cleared instead, which may
be a shared Redis or MongoDB cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var cc cache.Cache
			if configured {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				if cc, err = openConfiguredCache(ctx, cfg); err != nil {
					return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
				}
			} else {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				if cc, err = cache.NewFileCache(dir); err != nil {
					return err
				}
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled")
				return nil
			}

			spinner := newSpinnerWithContext(ctx, "Clearing cache...")
			spinner.Start()
			if err := clearer.Clear(ctx); err != nil {
				spinner.StopWithError("Clear failed")
				return err
			}
			spinner.StopWithSuccess("Cleared cached layouts")
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&configured, "configured", false, "clear the configured backend instead of the local cache")

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
