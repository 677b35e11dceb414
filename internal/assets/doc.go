// Package assets finds image files on disk and turns them into scaled
// in-memory assets for the gallery grid.
//
// Enumerate lists the supported files of a directory, FileLoader decodes and
// scales one file, and Watcher reports when a directory's contents change.
package assets
