// Package thumbcache persists scaled thumbnails in a SQLite database so a
// gallery reopened on the same directory does not decode every image again.
package thumbcache
