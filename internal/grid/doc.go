// Package grid holds the pure geometry of the thumbnail grid: how many cells
// fit in a row, how tall the content is, and which rows and items a given
// scroll offset exposes. Nothing in here blocks or keeps hidden state, so a
// Layout can be rebuilt on every pass without invalidation logic.
package grid
