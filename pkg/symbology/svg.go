package symbology

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/genomicx/qrx/pkg/caption"
	"github.com/genomicx/qrx/pkg/encoder"
)

const svgNS = "http://www.w3.org/2000/svg"

// EncodeSVG emits the symbol as SVG markup. Dark modules become rects, with
// horizontal runs merged into one rect each.
func (l *Library) EncodeSVG(req encoder.Request) (string, error) {
	s, err := l.encode(req)
	if err != nil {
		return "", err
	}
	scale := scaleOf(req)
	w, h, symbolH := layout(s, req)

	doc := etree.NewDocument()
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", svgNS)
	root.CreateAttr("width", itoa(w))
	root.CreateAttr("height", itoa(h))
	root.CreateAttr("viewBox", "0 0 "+itoa(w)+" "+itoa(h))
	root.CreateAttr("shape-rendering", "crispEdges")

	bg := root.CreateElement("rect")
	bg.CreateAttr("width", "100%")
	bg.CreateAttr("height", "100%")
	bg.CreateAttr("fill", "#ffffff")

	bars := root.CreateElement("g")
	bars.CreateAttr("fill", "#000000")
	for r, row := range s.modules {
		for c := 0; c < len(row); {
			if !row[c] {
				c++
				continue
			}
			start := c
			for c < len(row) && row[c] {
				c++
			}
			rect := bars.CreateElement("rect")
			rect.CreateAttr("x", itoa(start*scale))
			rect.CreateAttr("width", itoa((c-start)*scale))
			if s.linear {
				rect.CreateAttr("y", "0")
				rect.CreateAttr("height", itoa(symbolH))
			} else {
				rect.CreateAttr("y", itoa(r*scale))
				rect.CreateAttr("height", itoa(scale))
			}
		}
	}

	if h > symbolH {
		ts := caption.TextScale(scale)
		text := root.CreateElement("text")
		text.CreateAttr("x", itoa(w/2))
		text.CreateAttr("y", itoa(symbolH+2*scale+11*ts))
		text.CreateAttr("text-anchor", "middle")
		text.CreateAttr("font-family", "monospace")
		text.CreateAttr("font-size", itoa(13*ts))
		text.CreateAttr("fill", "#000000")
		text.SetText(caption.Fit(s.text, w-2*caption.Margin(scale), scale))
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
