// Package ui contains the Fyne desktop shell of the gallery: the main window,
// the scrollable grid view that feeds scroll and viewport samples to the
// gallery, per-cell redraws, and settings. All UI strings are localized via
// Localization.
package ui
