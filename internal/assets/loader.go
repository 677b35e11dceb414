package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	// Raster decoders available to imageorient.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imageorient"
	"github.com/nfnt/resize"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/ytget/imgmg/internal/lazyload"
	"github.com/ytget/imgmg/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for files no registered decoder accepts.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("image has no pixels")
)

// FileLoader decodes image files and scales them to fit the target size.
type FileLoader struct {
	interp resize.InterpolationFunction
	logger *slog.Logger
}

// FileLoaderOption configures a FileLoader.
type FileLoaderOption func(*FileLoader)

// WithInterpolation sets the resampling filter used for raster images.
func WithInterpolation(interp resize.InterpolationFunction) FileLoaderOption {
	return func(l *FileLoader) {
		l.interp = interp
	}
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger *slog.Logger) FileLoaderOption {
	return func(l *FileLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewFileLoader creates a loader using Lanczos3 resampling by default.
func NewFileLoader(opts ...FileLoaderOption) *FileLoader {
	l := &FileLoader{
		interp: resize.Lanczos3,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements lazyload.Loader.
func (l *FileLoader) Load(ctx context.Context, source string, target model.Size) (*model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, lazyload.NewLoadError(source, err)
	}
	if target.IsZero() {
		return nil, lazyload.NewLoadError(source, fmt.Errorf("invalid target size %dx%d", target.Width, target.Height))
	}

	var (
		img      image.Image
		original model.Size
		err      error
	)
	if strings.EqualFold(filepath.Ext(source), ".svg") {
		img, original, err = l.rasterizeSVG(source, target)
	} else {
		img, original, err = l.decodeRaster(source, target)
	}
	if err != nil {
		return nil, lazyload.NewLoadError(source, err)
	}

	l.logger.Debug("Loaded asset", "source", source,
		"original", fmt.Sprintf("%dx%d", original.Width, original.Height),
		"scaled", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return model.NewAsset(source, img, original), nil
}

// decodeRaster decodes with EXIF orientation applied and scales down
func (l *FileLoader) decodeRaster(source string, target model.Size) (image.Image, model.Size, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, model.Size{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	img, _, err := imageorient.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, model.Size{}, ErrUnsupportedFormat
		}
		return nil, model.Size{}, fmt.Errorf("decode: %w", err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, model.Size{}, ErrEmptyImage
	}
	original := model.Size{Width: b.Dx(), Height: b.Dy()}

	scaled := resize.Thumbnail(uint(target.Width), uint(target.Height), img, l.interp)
	return scaled, original, nil
}

// rasterizeSVG renders the icon directly at the fitted size
func (l *FileLoader) rasterizeSVG(source string, target model.Size) (image.Image, model.Size, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, model.Size{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f, oksvg.WarnErrorMode)
	if err != nil {
		return nil, model.Size{}, fmt.Errorf("parse svg: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, model.Size{}, ErrEmptyImage
	}
	original := model.Size{Width: int(math.Ceil(vw)), Height: int(math.Ceil(vh))}

	w, h := fitWithin(vw, vh, target)
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, original, nil
}

// fitWithin scales (w, h) to fit target preserving aspect ratio. Vector
// sources may scale up; the result is at least 1x1.
func fitWithin(w, h float64, target model.Size) (int, int) {
	scale := math.Min(float64(target.Width)/w, float64(target.Height)/h)
	fw := max(int(math.Round(w*scale)), 1)
	fh := max(int(math.Round(h*scale)), 1)
	return fw, fh
}
