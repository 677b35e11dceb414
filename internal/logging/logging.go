// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ytget/imgmg/internal/platform"
)

// Rotation limits for file logging
const (
	MaxSizeMB  = 10
	MaxBackups = 3
	MaxAgeDays = 28
)

// Options selects where and how verbosely to log.
type Options struct {
	File   string     // rotating log file; empty means Writer or stderr
	Level  slog.Level // minimum level when Debug is false
	Debug  bool       // forces slog.LevelDebug and source locations
	Writer io.Writer  // used when File is empty; defaults to stderr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds a text logger, installs it as the slog default and returns it
// together with a closer for the underlying file.
func Setup(opts Options) (*slog.Logger, io.Closer) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch {
	case opts.File != "":
		_ = platform.CreateDirectoryIfNotExists(filepath.Dir(opts.File))
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAgeDays,
		}
		w, closer = lj, lj
	case opts.Writer != nil:
		w = opts.Writer
	}

	level := opts.Level
	if opts.Debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: opts.Debug,
	}))
	slog.SetDefault(logger)
	return logger, closer
}
