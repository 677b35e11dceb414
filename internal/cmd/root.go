// Package cmd holds the imgmg command line: the gallery window and the
// headless scan and cache commands.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/ytget/imgmg/internal/assets/thumbcache"
	"github.com/ytget/imgmg/internal/config"
	"github.com/ytget/imgmg/internal/logging"
	"github.com/ytget/imgmg/internal/ui"
)

// Version is set during build via -ldflags "-X github.com/ytget/imgmg/internal/cmd.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.imgmg"
	AppName = "imgmg"
)

var rootCmd = &cobra.Command{
	Use:   "imgmg [directory]",
	Short: "Browse a folder of images as a lazily loaded thumbnail grid",
	Long: `imgmg shows every image of a folder in a scrollable grid. Only the rows
near the viewport are decoded, a bounded number at a time, and decoded
thumbnails are kept in an on-disk cache.`,
	Example: `
# Open the last used folder
imgmg

# Open a folder with bigger thumbnails and subfolders included
imgmg ~/Pictures --cell-size 240 --recursive

# Log to a file with debug output
imgmg --log-file /tmp/imgmg.log --debug
  `,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closer := setupLogging(cmd)
		defer closer.Close()

		return runGallery(cmd, args, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("recursive", "r", false, "Include images in subfolders")

	addGridFlags(rootCmd)
}

// addGridFlags registers the per-run overrides of the grid preferences
func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Int("cell-size", 0, fmt.Sprintf("Thumbnail cell size in pixels (%d-%d)", config.MinCellSize, config.MaxCellSize))
	cmd.Flags().Int("max-parallel", 0, fmt.Sprintf("Maximum concurrent image loads (%d-%d)", config.MinMaxParallel, config.MaxMaxParallel))
	cmd.Flags().Bool("no-cache", false, "Do not use the on-disk thumbnail cache")
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) (*slog.Logger, io.Closer) {
	file, _ := cmd.Flags().GetString("log-file")
	debug, _ := cmd.Flags().GetBool("debug")
	return logging.Setup(logging.Options{
		File:   file,
		Level:  slog.LevelInfo,
		Debug:  debug,
		Writer: cmd.ErrOrStderr(),
	})
}

// applyOverrides returns gs with every explicitly set flag applied
func applyOverrides(cmd *cobra.Command, gs config.GridSettings) (config.GridSettings, error) {
	flags := cmd.Flags()

	if flags.Changed("cell-size") {
		size, _ := flags.GetInt("cell-size")
		if size < config.MinCellSize || size > config.MaxCellSize {
			return gs, fmt.Errorf("--cell-size must be between %d and %d, got %d", config.MinCellSize, config.MaxCellSize, size)
		}
		gs.CellSize = size
	}

	if flags.Changed("max-parallel") {
		n, _ := flags.GetInt("max-parallel")
		if n < config.MinMaxParallel || n > config.MaxMaxParallel {
			return gs, fmt.Errorf("--max-parallel must be between %d and %d, got %d", config.MinMaxParallel, config.MaxMaxParallel, n)
		}
		gs.MaxParallel = n
	}

	if flags.Changed("recursive") {
		gs.Recursive, _ = flags.GetBool("recursive")
	}

	if noCache, _ := flags.GetBool("no-cache"); noCache {
		gs.ThumbnailCache = false
	}

	return gs, nil
}

// startDirectory picks the folder shown at startup. A remembered folder that
// no longer exists is ignored.
func startDirectory(args []string, settings *config.Settings) string {
	if len(args) == 1 {
		return args[0]
	}
	dir := settings.GetGalleryDirectory()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

func runGallery(cmd *cobra.Command, args []string, logger *slog.Logger) error {
	a := app.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewGalleryTheme())

	settings := config.NewSettings(a)
	grid, err := applyOverrides(cmd, settings.Grid())
	if err != nil {
		return err
	}

	var cachePath string
	if grid.ThumbnailCache {
		if cachePath, err = thumbcache.DefaultPath(); err != nil {
			logger.Warn("No cache directory, thumbnail cache disabled", "error", err)
		}
	}

	logger.Info("Starting", "app", AppName, "version", version,
		"cell_size", grid.CellSize, "max_parallel", grid.MaxParallel, "cache", cachePath)

	window := a.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	root := ui.NewRootUI(window, settings, ui.Options{
		Dir:       startDirectory(args, settings),
		Grid:      grid,
		CachePath: cachePath,
		Logger:    logger,
	})
	defer root.Close()

	window.ShowAndRun()
	return nil
}
