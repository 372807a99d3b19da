package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convergehq/statecheck/internal/fileserver"
	"github.com/convergehq/statecheck/internal/output"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Sync the agent file cache from the configured file roots",
	Long: `Copies the configured file roots into the local agent cache so that
test discovery sees the latest test tree.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return refreshCache(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

// refreshCache syncs the cache and prints what was copied.
func refreshCache(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cache := fileserver.New(Logger, cfg.CacheDir, cfg.Environment, cfg.FileRoots)

	stats, err := cache.Sync(ctx)
	if err != nil {
		return fmt.Errorf("refreshing cache: %w", err)
	}

	fmt.Printf("\n✅ Cache refreshed: %d files (%s) in %s\n",
		stats.Files, output.Bytes(stats.Bytes), output.Duration(stats.Duration))

	return nil
}
