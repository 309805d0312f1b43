// Package render turns (format, text, options) into images. It drives an
// injected encoder, composites captions under matrix symbols and derives the
// SVG, sized raster and preview outputs from one base render.
package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/png"
	"strconv"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/genomicx/qrx/pkg/caption"
	"github.com/genomicx/qrx/pkg/encoder"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/logging"
)

// Renderer is the adapter between items and an encoder
type Renderer struct {
	enc    encoder.Encoder
	logger zerolog.Logger
}

// New creates a renderer around enc
func New(enc encoder.Encoder) *Renderer {
	return &Renderer{
		enc:    enc,
		logger: logging.GetLogger("render"),
	}
}

// Raster renders item at scale pixels per module, flattened onto white.
// Every failure is a *errors.QrxError.
func (r *Renderer) Raster(item Item, scale int) (*image.RGBA, error) {
	req, composite, err := BuildRequest(item, scale)
	if err != nil {
		return nil, err
	}

	img, err := r.encode(req)
	if err != nil {
		r.logger.Debug().Err(err).
			Str("format", item.Format.ID).
			Str("text", item.Text).
			Msg("Encoder rejected value")
		return nil, ClassifyError(err)
	}

	if composite {
		return withCaption(img, item.Text, scale), nil
	}
	return flatten(img), nil
}

func (r *Renderer) encode(req encoder.Request) (img image.Image, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf(errors.ErrEncodeFailed, "encoder panicked: %v", rec)
		}
	}()
	return r.enc.Encode(req)
}

// Preview renders at preview magnification
func (r *Renderer) Preview(item Item) (*image.RGBA, error) {
	return r.Raster(item, PreviewScale)
}

// Sized renders at high magnification and scales with nearest-neighbour so
// the longer side is exactly size pixels. The other side keeps the aspect
// ratio, rounded.
func (r *Renderer) Sized(item Item, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid target size %d", size)
	}
	hi, err := r.Raster(item, HiResScale)
	if err != nil {
		return nil, err
	}

	w, h := FitLongest(hi.Bounds().Dx(), hi.Bounds().Dy(), size)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	stddraw.Draw(out, out.Bounds(), image.White, image.Point{}, stddraw.Src)
	draw.NearestNeighbor.Scale(out, out.Bounds(), hi, hi.Bounds(), draw.Over, nil)
	return out, nil
}

// FitLongest scales (w, h) so the longer side equals size
func FitLongest(w, h, size int) (int, int) {
	if w <= 0 || h <= 0 {
		return size, size
	}
	if w >= h {
		return size, max(1, roundDiv(size*h, w))
	}
	return max(1, roundDiv(size*w, h)), size
}

func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}

// SVG renders item as SVG markup. Encoders with a vector capability are used
// directly unless a caption must be composited; otherwise a high resolution
// raster is embedded as a PNG data URL.
func (r *Renderer) SVG(item Item) (string, error) {
	if venc, ok := r.enc.(encoder.VectorEncoder); ok {
		req, composite, err := BuildRequest(item, DefaultScale)
		if err != nil {
			return "", err
		}
		if !composite {
			svg, err := venc.EncodeSVG(req)
			if err != nil {
				return "", ClassifyError(err)
			}
			return svg, nil
		}
	}

	img, err := r.Raster(item, HiResScale)
	if err != nil {
		return "", err
	}
	return EmbedPNG(img)
}

// EmbedPNG wraps a raster in an SVG document as a pixelated data URL image
func EmbedPNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, errors.ErrEncodeFailed, "failed to encode PNG")
	}
	w := strconv.Itoa(img.Bounds().Dx())
	h := strconv.Itoa(img.Bounds().Dy())

	doc := etree.NewDocument()
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	root.CreateAttr("width", w)
	root.CreateAttr("height", h)
	root.CreateAttr("viewBox", "0 0 "+w+" "+h)

	el := root.CreateElement("image")
	el.CreateAttr("href", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()))
	el.CreateAttr("width", w)
	el.CreateAttr("height", h)
	el.CreateAttr("image-rendering", "pixelated")
	el.CreateAttr("style", "image-rendering: pixelated")

	doc.Indent(2)
	return doc.WriteToString()
}

// CaptionBandHeight is how much taller a composited caption makes a symbol
func CaptionBandHeight(scale int) int {
	return caption.BandHeight(scale)
}

func withCaption(symbol image.Image, text string, scale int) *image.RGBA {
	b := symbol.Bounds()
	band := caption.BandHeight(scale)
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+band))
	stddraw.Draw(out, out.Bounds(), image.White, image.Point{}, stddraw.Src)
	stddraw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), symbol, b.Min, stddraw.Over)
	caption.Draw(out, image.Rect(0, b.Dy(), b.Dx(), b.Dy()+band), text, scale, color.Black, color.White)
	return out
}

func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(out, out.Bounds(), image.White, image.Point{}, stddraw.Src)
	stddraw.Draw(out, out.Bounds(), img, b.Min, stddraw.Over)
	return out
}
