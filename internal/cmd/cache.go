package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/imgmg/internal/assets/thumbcache"
)

// DefaultPruneAge is the default --older-than for cache prune
const DefaultPruneAge = 30 * 24 * time.Hour

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the thumbnail cache",
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove thumbnails that have not been shown recently",
	Example: `
# Remove thumbnails not shown in the last 30 days
imgmg cache prune

# Remove everything older than a day from a custom cache file
imgmg cache prune --older-than 24h --path /tmp/thumbs.db
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closer := setupLogging(cmd)
		defer closer.Close()

		olderThan, _ := cmd.Flags().GetDuration("older-than")
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			var err error
			if path, err = thumbcache.DefaultPath(); err != nil {
				return fmt.Errorf("failed to locate thumbnail cache: %w", err)
			}
		}

		logger.Debug("Pruning thumbnail cache", "path", path, "older_than", olderThan)
		return runPrune(cmd.OutOrStdout(), path, olderThan)
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the thumbnail cache location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := thumbcache.DefaultPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(pruneCmd)
	cacheCmd.AddCommand(cachePathCmd)

	pruneCmd.Flags().Duration("older-than", DefaultPruneAge, "Remove thumbnails last shown before this long ago")
	pruneCmd.Flags().String("path", "", "Cache database to prune (default: user cache directory)")
}

func runPrune(w io.Writer, path string, olderThan time.Duration) error {
	if olderThan < 0 {
		return fmt.Errorf("--older-than must not be negative, got %s", olderThan)
	}

	cache, err := thumbcache.Open(path)
	if err != nil {
		return err
	}
	defer cache.Close()

	removed, err := cache.Prune(olderThan)
	if err != nil {
		return err
	}
	left, err := cache.Len()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Pruned %d thumbnails from %s, %d left\n", removed, path, left)
	return err
}
