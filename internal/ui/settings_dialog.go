package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/imgmg/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	galleryDirEntry   *widget.Entry
	cellSizeEntry     *widget.Entry
	cellMarginEntry   *widget.Entry
	rowPaddingEntry   *widget.Entry
	prefetchEntry     *widget.Entry
	maxParallelEntry  *widget.Entry
	thumbnailCheck    *widget.Check
	recursiveCheck    *widget.Check
	languageSelect    *widget.Select
	languageByDisplay map[string]string
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values were written to preferences.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.galleryDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	galleryDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.galleryDirEntry)

	sd.cellSizeEntry = numberEntry(config.MinCellSize, config.MaxCellSize)
	sd.cellMarginEntry = numberEntry(0, config.MaxCellMargin)
	sd.rowPaddingEntry = numberEntry(0, config.MaxRowPadding)
	sd.prefetchEntry = numberEntry(0, config.MaxPrefetchRows)
	sd.maxParallelEntry = numberEntry(config.MinMaxParallel, config.MaxMaxParallel)

	sd.thumbnailCheck = widget.NewCheck(t(KeyThumbnailCache), nil)
	sd.recursiveCheck = widget.NewCheck(t(KeyRecursiveScan), nil)

	// Language selection shows display names, stores codes
	sd.languageByDisplay = make(map[string]string)
	var languageOptions []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageByDisplay[name] = code
		languageOptions = append(languageOptions, name)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeyGridSection)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyGalleryDirectory)+":"),
		galleryDirRow,
		sd.recursiveCheck,

		widget.NewForm(
			widget.NewFormItem(t(KeyCellSize), sd.cellSizeEntry),
			widget.NewFormItem(t(KeyCellMargin), sd.cellMarginEntry),
			widget.NewFormItem(t(KeyRowPadding), sd.rowPaddingEntry),
			widget.NewFormItem(t(KeyPrefetchRows), sd.prefetchEntry),
			widget.NewFormItem(t(KeyMaxParallel), sd.maxParallelEntry),
		),
		sd.thumbnailCheck,

		widget.NewSeparator(),
		widget.NewLabel(t(KeyInterfaceSection)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// numberEntry returns an entry with a range placeholder
func numberEntry(lo, hi int) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(strconv.Itoa(lo) + "-" + strconv.Itoa(hi))
	return e
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	grid := sd.settings.Grid()

	sd.galleryDirEntry.SetText(sd.settings.GetGalleryDirectory())
	sd.cellSizeEntry.SetText(strconv.Itoa(grid.CellSize))
	sd.cellMarginEntry.SetText(strconv.Itoa(grid.CellMargin))
	sd.rowPaddingEntry.SetText(strconv.Itoa(grid.RowPadding))
	sd.prefetchEntry.SetText(strconv.Itoa(grid.PrefetchRows))
	sd.maxParallelEntry.SetText(strconv.Itoa(grid.MaxParallel))
	sd.thumbnailCheck.SetChecked(grid.ThumbnailCache)
	sd.recursiveCheck.SetChecked(grid.Recursive)

	lang := sd.settings.GetLanguage()
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[lang])
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.galleryDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	dialog.ShowInformation(sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySettingsSaved)+"\n"+sd.localization.GetText(KeyRestartRequired), sd.window)

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply writes the form values to preferences; unparsable numbers are ignored
func (sd *SettingsDialog) apply() {
	if dir := sd.galleryDirEntry.Text; dir != "" {
		sd.settings.SetGalleryDirectory(dir)
	}

	setInt := func(e *widget.Entry, set func(int)) {
		if v, err := strconv.Atoi(e.Text); err == nil {
			set(v)
		}
	}
	setInt(sd.cellSizeEntry, sd.settings.SetCellSize)
	setInt(sd.cellMarginEntry, sd.settings.SetCellMargin)
	setInt(sd.rowPaddingEntry, sd.settings.SetRowPadding)
	setInt(sd.prefetchEntry, sd.settings.SetPrefetchRows)
	setInt(sd.maxParallelEntry, sd.settings.SetMaxParallelLoads)

	sd.settings.SetThumbnailCache(sd.thumbnailCheck.Checked)
	sd.settings.SetRecursiveScan(sd.recursiveCheck.Checked)

	if code, ok := sd.languageByDisplay[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
}
