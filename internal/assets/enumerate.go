package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// SupportedPattern matches the lower-cased base name of every file the
// loader can decode.
const SupportedPattern = "*.{jpg,jpeg,png,gif,bmp,webp,tif,tiff,svg}"

// EnumerateOptions controls a directory scan.
type EnumerateOptions struct {
	Recursive     bool
	IncludeHidden bool
	Logger        *slog.Logger
}

// IsSupported reports whether name has an image extension the loader handles.
func IsSupported(name string) bool {
	ok, err := doublestar.Match(SupportedPattern, strings.ToLower(filepath.Base(name)))
	return err == nil && ok
}

// isHidden reports dot-files and dot-directories
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Enumerate returns the lexically sorted paths of supported images in dir.
// Entries that cannot be read are logged and skipped; only an unreadable
// root is an error.
func Enumerate(ctx context.Context, dir string, opts EnumerateOptions) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	root := filepath.Clean(dir)
	var (
		mu    sync.Mutex
		paths []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("Skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if !opts.Recursive || (!opts.IncludeHidden && isHidden(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !opts.IncludeHidden && isHidden(name) {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !IsSupported(name) {
			return nil
		}

		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("enumerate %s: %w", dir, err)
	}

	slices.Sort(paths)
	logger.Debug("Enumerated directory", "dir", root, "count", len(paths), "recursive", opts.Recursive)
	return paths, nil
}
