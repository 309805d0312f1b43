// Package encoder defines the capability the renderer needs from a symbol
// encoder. The concrete library-backed implementation lives in
// pkg/symbology; tests substitute stubs.
package encoder

import "image"

// ECLevel is a QR error-correction level
type ECLevel string

const (
	ECLow      ECLevel = "L"
	ECMedium   ECLevel = "M"
	ECQuartile ECLevel = "Q"
	ECHigh     ECLevel = "H"
)

// Request is everything an encoder needs to draw one symbol
type Request struct {
	// Symbology is the encoder type key, e.g. "qrcode" or "gs1-128"
	Symbology string
	Text      string
	// Scale is the number of pixels per module
	Scale int
	// IncludeText asks for a human-readable line under linear symbols
	IncludeText bool

	ECLevel ECLevel
	// Columns and Rows request a Data Matrix size; zero means automatic
	Columns int
	Rows    int
	// BarHeightMM is the bar height of linear symbols; zero picks the default
	BarHeightMM float64
}

// Encoder draws a symbol as a raster image
type Encoder interface {
	Encode(req Request) (image.Image, error)
}

// VectorEncoder is implemented by encoders that can emit SVG directly
type VectorEncoder interface {
	EncodeSVG(req Request) (string, error)
}

// Func adapts a function to the Encoder interface
type Func func(req Request) (image.Image, error)

// Encode calls f(req)
func (f Func) Encode(req Request) (image.Image, error) {
	return f(req)
}
