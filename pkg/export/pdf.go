package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/render"
)

// PDF writes a label sheet with one label per valid value. Values that fail
// to render leave their cell empty.
func (e *Exporter) PDF(w io.Writer, tmpl render.Item, values []string, opts labels.Options) (Stats, error) {
	var stats Stats
	valid := batch.ValidValues(tmpl, values)
	if len(valid) == 0 {
		return stats, noValidItems(tmpl)
	}
	layout, err := labels.NewLayout(opts)
	if err != nil {
		return stats, err
	}

	done := logging.LogOperationStart(e.logger, "pdf")
	defer done()

	doc := newDocument(layout)
	stats.Pages = layout.Pages(len(valid))
	for k, v := range valid {
		page, cell := layout.Place(k)
		if doc.PageNo() < page+1 {
			doc.AddPage()
		}

		item := tmpl
		item.Text = v
		if err := e.placeLabel(doc, layout, cell, item, k+1); err != nil {
			e.logger.Debug().Err(err).Str("value", v).Msg("Skipping label")
			stats.Skipped++
			continue
		}
		stats.Written++
	}

	if err := doc.Output(w); err != nil {
		return stats, errors.Wrap(err, errors.ErrDocument, "failed to write PDF")
	}
	e.logger.Info().
		Int("written", stats.Written).
		Int("skipped", stats.Skipped).
		Int("pages", stats.Pages).
		Msg("PDF written")
	return stats, nil
}

func newDocument(l labels.Layout) *fpdf.Fpdf {
	orientation := "P"
	if l.PageWidth > l.PageHeight {
		orientation = "L"
	}
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size: fpdf.SizeType{
			Wd: math.Min(l.PageWidth, l.PageHeight),
			Ht: math.Max(l.PageWidth, l.PageHeight),
		},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("qrx", true)
	return doc
}

func (e *Exporter) placeLabel(doc *fpdf.Fpdf, l labels.Layout, cell labels.Rect, item render.Item, n int) error {
	img, err := e.renderer.Raster(item, render.PDFScale)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, PNG); err != nil {
		return err
	}

	b := img.Bounds()
	at := labels.Fit(l.Interior(cell), float64(b.Dx()), float64(b.Dy()))

	name := fmt.Sprintf("label-%d", n)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, &buf)
	doc.ImageOptions(name, at.X, at.Y, at.W, at.H, false, opts, 0, "")
	if doc.Err() {
		err := doc.Error()
		doc.ClearError()
		return errors.Wrap(err, errors.ErrDocument, "failed to place label image")
	}
	return nil
}
