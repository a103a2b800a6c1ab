package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"setlist/internal/searchcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Search cache maintenance",
	}

	var backend string
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Drop cached catalog search results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := searchcache.Open(cfg.Cache.Path)
			if err != nil {
				return fmt.Errorf("open search cache: %w", err)
			}
			defer func() { _ = store.Close() }()

			target := backend
			if target == "" {
				target = cfg.Resolution.Backend
			}
			if err := store.Purge(cmd.Context(), target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged cached %s results\n", target)
			return nil
		},
	}
	purgeCmd.Flags().StringVar(&backend, "backend", "", "Backend to purge (default: configured backend)")

	cacheCmd.AddCommand(purgeCmd)
	return cacheCmd
}
