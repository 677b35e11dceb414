package config

import (
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/imgmg/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyGalleryDir     = "gallery_directory"
	KeyCellSize       = "cell_size"
	KeyCellMargin     = "cell_margin"
	KeyRowPadding     = "row_padding"
	KeyPrefetchRows   = "prefetch_rows"
	KeyMaxParallel    = "max_parallel_loads"
	KeyPollIntervalMs = "poll_interval_ms"
	KeyThumbnailCache = "thumbnail_cache"
	KeyRecursiveScan  = "recursive_scan"
	KeyLanguage       = "app_language"
)

// Default values
const (
	DefaultCellSize       = 160
	DefaultCellMargin     = 8
	DefaultRowPadding     = 8
	DefaultPrefetchRows   = 1
	DefaultMaxParallel    = 4
	DefaultPollIntervalMs = 2
	DefaultThumbnailCache = true
	DefaultRecursiveScan  = false
	DefaultLanguage       = "system"
)

// Accepted ranges
const (
	MinCellSize       = 32
	MaxCellSize       = 1024
	MaxCellMargin     = 128
	MaxRowPadding     = 128
	MaxPrefetchRows   = 8
	MinMaxParallel    = 1
	MaxMaxParallel    = 32
	MinPollIntervalMs = 1
	MaxPollIntervalMs = 100
)

// GridSettings is the subset of settings the gallery needs for one layout.
type GridSettings struct {
	CellSize       int
	CellMargin     int
	RowPadding     int
	PrefetchRows   int
	MaxParallel    int
	PollInterval   time.Duration
	ThumbnailCache bool
	Recursive      bool
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetGalleryDirectory returns the directory shown on startup
func (s *Settings) GetGalleryDirectory() string {
	dir := s.app.Preferences().String(KeyGalleryDir)
	if dir == "" {
		defaultDir, err := platform.GetHomePicturesDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), "Pictures")
		}
		s.SetGalleryDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetGalleryDirectory sets the directory shown on startup
func (s *Settings) SetGalleryDirectory(dir string) {
	s.app.Preferences().SetString(KeyGalleryDir, dir)
}

// GetCellSize returns the cell edge length in pixels
func (s *Settings) GetCellSize() int {
	value := s.app.Preferences().Int(KeyCellSize)
	if value <= 0 {
		s.SetCellSize(DefaultCellSize)
		return DefaultCellSize
	}
	return value
}

// SetCellSize sets the cell edge length, clamped to [MinCellSize, MaxCellSize]
func (s *Settings) SetCellSize(size int) {
	s.app.Preferences().SetInt(KeyCellSize, clamp(size, MinCellSize, MaxCellSize))
}

// GetCellMargin returns the horizontal gap between cells
func (s *Settings) GetCellMargin() int {
	return s.app.Preferences().IntWithFallback(KeyCellMargin, DefaultCellMargin)
}

// SetCellMargin sets the horizontal gap between cells
func (s *Settings) SetCellMargin(margin int) {
	s.app.Preferences().SetInt(KeyCellMargin, clamp(margin, 0, MaxCellMargin))
}

// GetRowPadding returns the vertical padding added to each row
func (s *Settings) GetRowPadding() int {
	return s.app.Preferences().IntWithFallback(KeyRowPadding, DefaultRowPadding)
}

// SetRowPadding sets the vertical padding added to each row
func (s *Settings) SetRowPadding(padding int) {
	s.app.Preferences().SetInt(KeyRowPadding, clamp(padding, 0, MaxRowPadding))
}

// GetPrefetchRows returns how many rows below the viewport are loaded early
func (s *Settings) GetPrefetchRows() int {
	return s.app.Preferences().IntWithFallback(KeyPrefetchRows, DefaultPrefetchRows)
}

// SetPrefetchRows sets how many rows below the viewport are loaded early
func (s *Settings) SetPrefetchRows(rows int) {
	s.app.Preferences().SetInt(KeyPrefetchRows, clamp(rows, 0, MaxPrefetchRows))
}

// GetMaxParallelLoads returns the maximum number of concurrent image loads
func (s *Settings) GetMaxParallelLoads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelLoads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelLoads sets the maximum number of concurrent image loads
func (s *Settings) SetMaxParallelLoads(count int) {
	s.app.Preferences().SetInt(KeyMaxParallel, clamp(count, MinMaxParallel, MaxMaxParallel))
}

// GetPollInterval returns the scroll sampling cadence
func (s *Settings) GetPollInterval() time.Duration {
	value := s.app.Preferences().Int(KeyPollIntervalMs)
	if value <= 0 {
		s.SetPollIntervalMs(DefaultPollIntervalMs)
		value = DefaultPollIntervalMs
	}
	return time.Duration(value) * time.Millisecond
}

// SetPollIntervalMs sets the scroll sampling cadence in milliseconds
func (s *Settings) SetPollIntervalMs(ms int) {
	s.app.Preferences().SetInt(KeyPollIntervalMs, clamp(ms, MinPollIntervalMs, MaxPollIntervalMs))
}

// GetThumbnailCache returns whether scaled thumbnails are cached on disk
func (s *Settings) GetThumbnailCache() bool {
	return s.app.Preferences().BoolWithFallback(KeyThumbnailCache, DefaultThumbnailCache)
}

// SetThumbnailCache sets whether scaled thumbnails are cached on disk
func (s *Settings) SetThumbnailCache(enabled bool) {
	s.app.Preferences().SetBool(KeyThumbnailCache, enabled)
}

// GetRecursiveScan returns whether subdirectories are included
func (s *Settings) GetRecursiveScan() bool {
	return s.app.Preferences().BoolWithFallback(KeyRecursiveScan, DefaultRecursiveScan)
}

// SetRecursiveScan sets whether subdirectories are included
func (s *Settings) SetRecursiveScan(recursive bool) {
	s.app.Preferences().SetBool(KeyRecursiveScan, recursive)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// Grid returns the current layout and loading settings
func (s *Settings) Grid() GridSettings {
	return GridSettings{
		CellSize:       s.GetCellSize(),
		CellMargin:     s.GetCellMargin(),
		RowPadding:     s.GetRowPadding(),
		PrefetchRows:   s.GetPrefetchRows(),
		MaxParallel:    s.GetMaxParallelLoads(),
		PollInterval:   s.GetPollInterval(),
		ThumbnailCache: s.GetThumbnailCache(),
		Recursive:      s.GetRecursiveScan(),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
