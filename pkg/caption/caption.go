// Package caption draws one line of text in a band below a symbol. It is used
// both for the human-readable line of linear symbols and for the captions
// composited under matrix symbols.
package caption

import (
	"image"
	"image/color"
	stddraw "image/draw"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Ellipsis is appended to text that had to be shortened
const Ellipsis = "..."

var face = basicfont.Face7x13

// TextScale is the integer magnification of the 7x13 face for a module scale
func TextScale(scale int) int {
	ts := (scale + 1) / 2
	if ts < 1 {
		return 1
	}
	return ts
}

// BandHeight is the pixel height of a caption band for a module scale
func BandHeight(scale int) int {
	return face.Metrics().Height.Ceil()*TextScale(scale) + 4*scale
}

// Margin is the horizontal inset on each side of the band
func Margin(scale int) int {
	return 2 * scale
}

// Fit shortens text so that, drawn at TextScale(scale), it fits in width
// pixels. Shortened text ends in an ellipsis.
func Fit(text string, width, scale int) string {
	budget := width / TextScale(scale)
	if font.MeasureString(face, text).Ceil() <= budget {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + Ellipsis
		if font.MeasureString(face, s).Ceil() <= budget {
			return s
		}
	}
	if font.MeasureString(face, Ellipsis).Ceil() <= budget {
		return Ellipsis
	}
	return ""
}

// Draw fills band with bg and draws text centred in it. The text is fitted to
// the band width less Margin on each side.
func Draw(dst stddraw.Image, band image.Rectangle, text string, scale int, fg, bg color.Color) {
	stddraw.Draw(dst, band, image.NewUniform(bg), image.Point{}, stddraw.Src)

	usable := band.Dx() - 2*Margin(scale)
	if usable <= 0 || text == "" {
		return
	}
	text = Fit(text, usable, scale)
	if text == "" {
		return
	}

	w := font.MeasureString(face, text).Ceil()
	h := face.Metrics().Height.Ceil()
	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	stddraw.Draw(glyphs, glyphs.Bounds(), image.NewUniform(bg), image.Point{}, stddraw.Src)
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	ts := TextScale(scale)
	sw, sh := w*ts, h*ts
	x := band.Min.X + (band.Dx()-sw)/2
	y := band.Min.Y + 2*scale
	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+sw, y+sh), glyphs, glyphs.Bounds(), draw.Over, nil)
}
