package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ytget/imgmg/internal/assets"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "List the images the gallery would show",
	Long:  `Enumerate a folder the same way the gallery does and print one supported image path per line, sorted.`,
	Example: `
# List images in a folder
imgmg scan ~/Pictures

# Include subfolders and hidden files
imgmg scan ~/Pictures --recursive --hidden
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closer := setupLogging(cmd)
		defer closer.Close()

		recursive, _ := cmd.Flags().GetBool("recursive")
		hidden, _ := cmd.Flags().GetBool("hidden")
		countOnly, _ := cmd.Flags().GetBool("count")

		return runScan(cmd.Context(), cmd.OutOrStdout(), args[0], assets.EnumerateOptions{
			Recursive:     recursive,
			IncludeHidden: hidden,
			Logger:        logger,
		}, countOnly)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("hidden", false, "Include hidden files and folders")
	scanCmd.Flags().BoolP("count", "c", false, "Print only the number of images")
}

func runScan(ctx context.Context, w io.Writer, dir string, opts assets.EnumerateOptions, countOnly bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	paths, err := assets.Enumerate(ctx, dir, opts)
	if err != nil {
		return err
	}

	if countOnly {
		_, err = fmt.Fprintln(w, len(paths))
		return err
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
