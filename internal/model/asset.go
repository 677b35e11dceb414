package model

import (
	"image"
	"path/filepath"
	"strings"
)

// Size is a target or actual pixel size
type Size struct {
	Width  int
	Height int
}

// IsZero reports whether either dimension is unset
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Asset is a materialized image, already scaled for display in a cell
type Asset struct {
	Source         string
	Image          image.Image
	Width          int // scaled width
	Height         int // scaled height
	OriginalWidth  int
	OriginalHeight int
}

// NewAsset wraps a scaled image and records both sizes
func NewAsset(source string, img image.Image, original Size) *Asset {
	b := img.Bounds()
	return &Asset{
		Source:         source,
		Image:          img,
		Width:          b.Dx(),
		Height:         b.Dy(),
		OriginalWidth:  original.Width,
		OriginalHeight: original.Height,
	}
}

// DisplayName returns the file name without directory or extension
func DisplayName(source string) string {
	name := filepath.Base(source)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
