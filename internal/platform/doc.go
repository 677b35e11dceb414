// Package platform contains OS integration for the gallery: locating the
// pictures directory and opening or revealing image files.
package platform
