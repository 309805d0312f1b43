// Package export packages rendered symbols as files: single SVG and raster
// images, ZIP archives of many values, and PDF label sheets.
package export

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/render"
)

// Sizes are the accepted raster export sizes in pixels
var Sizes = []int{256, 512, 1024, 2048}

// DefaultArchiveSize is the pixel size of PNG archive entries
const DefaultArchiveSize = 512

// JPEGQuality is used for every JPEG export
const JPEGQuality = 95

// RasterFormat is an image encoding
type RasterFormat string

const (
	PNG  RasterFormat = "png"
	JPEG RasterFormat = "jpg"
)

// Ext is the file extension without the dot
func (f RasterFormat) Ext() string { return string(f) }

// ParseRasterFormat accepts png, jpg and jpeg
func ParseRasterFormat(s string) (RasterFormat, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unsupported image format %q (use png or jpg)", s)
}

// CheckSize accepts only the export sizes
func CheckSize(size int) error {
	for _, s := range Sizes {
		if s == size {
			return nil
		}
	}
	parts := make([]string, len(Sizes))
	for i, s := range Sizes {
		parts[i] = strconv.Itoa(s)
	}
	return errors.Newf(errors.ErrInvalidInput, "unsupported size %d (use %s)", size, strings.Join(parts, ", "))
}

// Renderer is what the exporters need from the render adapter
type Renderer interface {
	Raster(item render.Item, scale int) (*image.RGBA, error)
	Sized(item render.Item, size int) (*image.RGBA, error)
	SVG(item render.Item) (string, error)
}

// Exporter writes files from rendered items
type Exporter struct {
	renderer Renderer
	logger   zerolog.Logger
}

// New creates an exporter
func New(r Renderer) *Exporter {
	return &Exporter{renderer: r, logger: logging.GetLogger("export")}
}

// Stats reports what a multi-item export did
type Stats struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
	Pages   int `json:"pages,omitempty"`
}

// SVG writes one item as SVG
func (e *Exporter) SVG(w io.Writer, item render.Item) error {
	svg, err := e.renderer.SVG(item)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write SVG")
	}
	return nil
}

// Raster writes one item at size pixels on its longer side
func (e *Exporter) Raster(w io.Writer, item render.Item, size int, rf RasterFormat) error {
	if err := CheckSize(size); err != nil {
		return err
	}
	img, err := e.renderer.Sized(item, size)
	if err != nil {
		return err
	}
	return EncodeImage(w, img, rf)
}

// EncodeImage writes img as PNG or JPEG
func EncodeImage(w io.Writer, img image.Image, rf RasterFormat) error {
	var err error
	switch rf {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	default:
		return errors.Newf(errors.ErrInvalidInput, "unsupported image format %q", rf)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s image", strings.ToUpper(string(rf)))
	}
	return nil
}

func noValidItems(item render.Item) error {
	return errors.Newf(errors.ErrNoValidItems, "no valid %s values to export", item.Format.Name).
		WithDetail("format", item.Format.ID)
}
