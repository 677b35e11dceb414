package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/imgmg/internal/assets"
	"github.com/ytget/imgmg/internal/assets/thumbcache"
	"github.com/ytget/imgmg/internal/config"
	"github.com/ytget/imgmg/internal/gallery"
	"github.com/ytget/imgmg/internal/lazyload"
	"github.com/ytget/imgmg/internal/model"
	"github.com/ytget/imgmg/internal/platform"
)

// Options are the per-run inputs of the main window. Grid already has any
// command-line overrides applied.
type Options struct {
	Dir       string
	Grid      config.GridSettings
	CachePath string // empty disables the thumbnail cache
	Logger    *slog.Logger
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	grid    *GridView
	gallery *gallery.Gallery
	coord   *lazyload.Coordinator
	cache   *thumbcache.Cache
	scan    assets.EnumerateOptions

	statusLabel *widget.Label

	ctx    context.Context
	cancel context.CancelFunc

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

// NewRootUI creates the main window content and starts the gallery loop
func NewRootUI(window fyne.Window, settings *config.Settings, opts Options) *RootUI {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		logger:       logger,
		scan:         assets.EnumerateOptions{Recursive: opts.Grid.Recursive, Logger: logger},
		ctx:          ctx,
		cancel:       cancel,
	}

	ui.grid = NewGridView(localization, logger)
	ui.grid.OnOpen = ui.onOpenFile
	ui.grid.OnReveal = ui.onRevealFile

	ui.coord = lazyload.NewCoordinator(ui.buildLoader(opts), ui.grid,
		lazyload.WithMaxParallel(opts.Grid.MaxParallel),
		lazyload.WithLogger(logger),
	)
	ui.gallery = gallery.New(ui.coord, ui.grid.Viewport(), ui.grid.Offset(), geometryFrom(opts.Grid),
		gallery.WithLogger(logger),
		gallery.WithScanOptions(ui.scan),
		gallery.WithItemsCallback(ui.onItems),
	)
	ui.grid.SetGallery(ui.gallery)

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	go func() {
		if err := ui.gallery.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Gallery loop stopped", "error", err)
		}
	}()

	if opts.Dir != "" {
		ui.OpenDirectory(opts.Dir)
	} else {
		ui.statusLabel.SetText(localization.GetText(KeyNoDirectory))
	}
	return ui
}

// buildLoader returns the file loader, wrapped by the thumbnail cache when
// one is configured and can be opened
func (ui *RootUI) buildLoader(opts Options) lazyload.Loader {
	var loader lazyload.Loader = assets.NewFileLoader(assets.WithLoaderLogger(ui.logger))
	if !opts.Grid.ThumbnailCache || opts.CachePath == "" {
		return loader
	}

	cache, err := thumbcache.Open(opts.CachePath, thumbcache.WithLogger(ui.logger))
	if err != nil {
		ui.logger.Warn("Thumbnail cache disabled", "path", opts.CachePath, "error", err)
		return loader
	}
	ui.cache = cache
	return cache.Wrap(loader)
}

func geometryFrom(gs config.GridSettings) gallery.Geometry {
	return gallery.Geometry{
		CellSize:     gs.CellSize,
		CellMargin:   gs.CellMargin,
		RowPadding:   gs.RowPadding,
		PrefetchRows: gs.PrefetchRows,
		PollInterval: gs.PollInterval,
	}
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), ui.onOpenFolder),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), ui.onRefresh),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.SettingsIcon(), ui.onShowSettings),
	)

	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	if logo, err := LoadLogoResource(); err == nil {
		ui.window.SetIcon(logo)
	}

	content := container.NewBorder(
		toolbar,        // top
		ui.statusLabel, // bottom
		nil,            // left
		nil,            // right
		ui.grid,        // center
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	openItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)
	refreshItem := fyne.NewMenuItem(ui.localization.GetText(KeyRefresh), ui.onRefresh)
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), openItem, refreshItem, fyne.NewMenuItemSeparator(), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.updateStatus(ui.gallery.Slots())
}

// OpenDirectory scans dir in the background and shows its images
func (ui *RootUI) OpenDirectory(dir string) {
	ui.statusLabel.SetText(ui.localization.Format(KeyScanning, dir))

	go func() {
		if _, err := ui.gallery.Open(ui.ctx, dir); err != nil {
			ui.showLoadError(dir, err)
			return
		}
		ui.settings.SetGalleryDirectory(dir)
		ui.startWatch()
	}()
}

// startWatch replaces the directory watcher with one for the current directory
func (ui *RootUI) startWatch() {
	ui.watchMu.Lock()
	if ui.watchCancel != nil {
		ui.watchCancel()
	}
	ctx, cancel := context.WithCancel(ui.ctx)
	ui.watchCancel = cancel
	ui.watchMu.Unlock()

	go func() {
		if err := ui.gallery.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			ui.logger.Warn("Directory watcher stopped", "dir", ui.gallery.Dir(), "error", err)
		}
	}()
}

// onItems runs on the gallery side after the item list changed
func (ui *RootUI) onItems(slots []*model.Slot, rewound bool) {
	fyne.Do(func() {
		ui.grid.SetSlots(slots, rewound)
		ui.updateStatus(slots)
	})
}

func (ui *RootUI) updateStatus(slots []*model.Slot) {
	dir := ui.gallery.Dir()
	if dir == "" {
		ui.statusLabel.SetText(ui.localization.GetText(KeyNoDirectory))
		return
	}
	ui.statusLabel.SetText(ui.localization.Format(KeyImageCount, len(slots), dir))
}

// onOpenFolder shows a folder picker
func (ui *RootUI) onOpenFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if uri == nil {
			return
		}
		ui.OpenDirectory(uri.Path())
	}, ui.window)
}

// onRefresh re-enumerates the current directory in place
func (ui *RootUI) onRefresh() {
	if ui.gallery.Dir() == "" {
		ui.onOpenFolder()
		return
	}
	ui.ReloadDirectory()
}

// ReloadDirectory re-enumerates the open directory in the background and
// keeps the scroll position
func (ui *RootUI) ReloadDirectory() {
	dir := ui.gallery.Dir()
	ui.statusLabel.SetText(ui.localization.Format(KeyScanning, dir))

	go func() {
		if _, err := ui.gallery.Reload(ui.ctx); err != nil {
			ui.showLoadError(dir, err)
		}
	}()
}

func (ui *RootUI) showLoadError(dir string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	ui.logger.Error("Failed to load directory", "dir", dir, "error", err)
	fyne.Do(func() {
		ui.statusLabel.SetText(err.Error())
		dialog.ShowError(err, ui.window)
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.applySettings).Show()
}

// applySettings applies saved preferences that can change without restart
func (ui *RootUI) applySettings() {
	gs := ui.settings.Grid()

	ui.gallery.SetGeometry(geometryFrom(gs))
	ui.grid.Relayout()
	ui.gallery.RequestPass()

	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.refreshUITexts()
	ui.createMenu()

	rescan := gs.Recursive != ui.scan.Recursive
	if rescan {
		ui.scan.Recursive = gs.Recursive
		ui.gallery.SetScanOptions(ui.scan)
	}

	switch dir := ui.settings.GetGalleryDirectory(); {
	case dir != ui.gallery.Dir():
		ui.OpenDirectory(dir)
	case rescan && dir != "":
		ui.ReloadDirectory()
	}
}

// onOpenFile opens an image with the default application
func (ui *RootUI) onOpenFile(slot *model.Slot) {
	if err := platform.OpenWithDefaultApp(slot.Source); err != nil {
		ui.logger.Error("Failed to open file", "source", slot.Source, "error", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
		return
	}
	ui.logger.Debug("Opened file", "source", slot.Source)
}

// onRevealFile shows an image in the system file manager
func (ui *RootUI) onRevealFile(slot *model.Slot) {
	if err := platform.OpenFileInManager(slot.Source); err != nil {
		ui.logger.Error("Failed to reveal file", "source", slot.Source, "error", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// Close stops background work and releases the thumbnail cache
func (ui *RootUI) Close() {
	ui.cancel()
	ui.coord.Close()
	if ui.cache != nil {
		if err := ui.cache.Close(); err != nil {
			ui.logger.Warn("Failed to close thumbnail cache", "error", err)
		}
	}
}
