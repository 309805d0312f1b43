package symbology

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/genomicx/qrx/pkg/caption"
	"github.com/genomicx/qrx/pkg/encoder"
)

// Encode draws the requested symbol at req.Scale pixels per module on a white
// background. Linear symbols get a human-readable line when req.IncludeText
// is set; matrix symbols never do.
func (l *Library) Encode(req encoder.Request) (image.Image, error) {
	s, err := l.encode(req)
	if err != nil {
		return nil, err
	}
	return paint(s, req), nil
}

func layout(s symbol, req encoder.Request) (w, h, symbolH int) {
	scale := scaleOf(req)
	w = s.cols() * scale
	if !s.linear {
		symbolH = s.rows() * scale
		return w, symbolH, symbolH
	}
	symbolH = barHeightPx(req)
	h = symbolH
	if req.IncludeText && s.text != "" {
		h += caption.BandHeight(scale)
	}
	return w, h, symbolH
}

func paint(s symbol, req encoder.Request) *image.RGBA {
	scale := scaleOf(req)
	w, h, symbolH := layout(s, req)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	for r, row := range s.modules {
		for c, on := range row {
			if !on {
				continue
			}
			x := c * scale
			rect := image.Rect(x, r*scale, x+scale, (r+1)*scale)
			if s.linear {
				rect = image.Rect(x, 0, x+scale, symbolH)
			}
			draw.Draw(img, rect, black, image.Point{}, draw.Src)
		}
	}

	if h > symbolH {
		band := image.Rect(0, symbolH, w, h)
		caption.Draw(img, band, s.text, scale, color.Black, color.White)
	}
	return img
}
