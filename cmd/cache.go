package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hirevox/hirevox/internal/cache"
	"github.com/hirevox/hirevox/internal/config"
	"github.com/hirevox/hirevox/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persisted response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many responses are cached",
	RunE: func(cmd *cobra.Command, _ []string) error {
		responses, slots, err := openCache()
		if err != nil {
			return err
		}
		defer slots.Close()

		responses.Restore(cmd.Context())
		fmt.Printf("cached responses: %d\n", responses.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persisted response cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		slots, err := store.Open(cfg.DBPath, logger.With("component", "store"))
		if err != nil {
			return fmt.Errorf("opening slot store: %w", err)
		}
		defer slots.Close()

		if err := slots.Delete(cmd.Context(), cache.DefaultSlotName); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Println("response cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openCache wires a cache over the configured slot store, for inspection
// commands that run outside an interview session.
func openCache() (*cache.ResponseCache, *store.SlotStore, error) {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	slots, err := store.Open(cfg.DBPath, logger.With("component", "store"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening slot store: %w", err)
	}

	responses, err := cache.New(cache.Config{
		MaxSize:      cfg.MaxCacheSize,
		KeyPrefixLen: cfg.KeyPrefixLen,
		Store:        slots,
		Logger:       logger.With("component", "cache"),
	})
	if err != nil {
		_ = slots.Close()
		return nil, nil, fmt.Errorf("creating response cache: %w", err)
	}

	return responses, slots, nil
}
