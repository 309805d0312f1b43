package export_test

import (
	"archive/zip"
	"bytes"
	stderrors "errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/export"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/render"
)

// stubRenderer fails for values in fail and records every call
type stubRenderer struct {
	fail   map[string]bool
	sized  []int
	scales []int
}

func (s *stubRenderer) check(item render.Item) error {
	if s.fail[item.Text] {
		return errors.Wrap(stderrors.New("boom"), errors.ErrEncodeFailed, "boom")
	}
	return nil
}

func (s *stubRenderer) Raster(item render.Item, scale int) (*image.RGBA, error) {
	s.scales = append(s.scales, scale)
	if err := s.check(item); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, 30, 10))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img, nil
}

func (s *stubRenderer) Sized(item render.Item, size int) (*image.RGBA, error) {
	s.sized = append(s.sized, size)
	if err := s.check(item); err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, size, size/2)), nil
}

func (s *stubRenderer) SVG(item render.Item) (string, error) {
	if err := s.check(item); err != nil {
		return "", err
	}
	return "<svg>" + item.Text + "</svg>", nil
}

func tmpl(t *testing.T, id string) render.Item {
	t.Helper()
	f, ok := formats.Get(id)
	require.True(t, ok)
	return render.Item{Format: f}
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	var names []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(b)
		names = append(names, f.Name)
	}
	out["__order__"] = strings.Join(names, ",")
	return out
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "LAB-SAMPLE_001", export.Sanitize("LAB-SAMPLE 001"))
	assert.Equal(t, "https___example_com_a_b", export.Sanitize("https://example.com/a?b"))
	assert.Len(t, export.Sanitize(strings.Repeat("x", 80)), export.MaxSafeLength)
	assert.Equal(t, "0007_A_B.png", export.EntryName(7, "A B", "png"))
}

func TestFileNames(t *testing.T) {
	gs1 := tmpl(t, "gs1_128").Format
	qr := tmpl(t, "qrcode").Format

	assert.Equal(t, "barcode-qrcode.svg", export.SVGFileName(qr))
	assert.Equal(t, "barcode-qrcode-1024x1024.jpg", export.RasterFileName(qr, 1024, export.JPEG))
	assert.Equal(t, "barcodes-gs1_128-png.zip", export.ArchiveFileName(gs1, export.ArchivePNG))
	assert.Equal(t, "barcodes-qr-code.pdf", export.PDFFileName(qr))
	assert.Equal(t, "barcodes-data-matrix.pdf", export.PDFFileName(tmpl(t, "datamatrix").Format))
}

func TestArchiveAllValidStartsAtOne(t *testing.T) {
	r := &stubRenderer{}
	var buf bytes.Buffer

	stats, err := export.New(r).Archive(&buf, tmpl(t, "code128"), []string{"A", "B C", "D"}, export.ArchiveSVG, 0)
	require.NoError(t, err)
	assert.Equal(t, export.Stats{Written: 3}, stats)

	entries := readZip(t, buf.Bytes())
	assert.Equal(t, "0001_A.svg,0002_B_C.svg,0003_D.svg", entries["__order__"])
	assert.Equal(t, "<svg>B C</svg>", entries["0002_B_C.svg"])
}

func TestArchiveSkipsInvalidAndFailed(t *testing.T) {
	r := &stubRenderer{fail: map[string]bool{"400638133393": true}}
	var buf bytes.Buffer

	values := []string{"ABC", "590123456789", "400638133393", "5901234123457"}
	stats, err := export.New(r).Archive(&buf, tmpl(t, "ean13"), values, export.ArchivePNG, 0)
	require.NoError(t, err)
	assert.Equal(t, export.Stats{Written: 2, Skipped: 1}, stats)

	entries := readZip(t, buf.Bytes())
	assert.Equal(t, "0002_590123456789.png,0004_5901234123457.png", entries["__order__"])
	assert.Equal(t, []int{512, 512, 512}, r.sized, "png entries default to 512px")

	img, err := png.Decode(strings.NewReader(entries["0002_590123456789.png"]))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
}

func TestArchiveNoValidItems(t *testing.T) {
	var buf bytes.Buffer
	_, err := export.New(&stubRenderer{}).Archive(&buf, tmpl(t, "ean13"), []string{"x", "y"}, export.ArchiveSVG, 0)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoValidItems))
	assert.Zero(t, buf.Len(), "nothing written")
}

func TestArchiveRejectsOddSize(t *testing.T) {
	var buf bytes.Buffer
	_, err := export.New(&stubRenderer{}).Archive(&buf, tmpl(t, "code128"), []string{"A"}, export.ArchivePNG, 300)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRaster(t *testing.T) {
	r := &stubRenderer{}
	e := export.New(r)

	for _, size := range export.Sizes {
		var buf bytes.Buffer
		require.NoError(t, e.Raster(&buf, tmpl(t, "qrcode"), size, export.JPEG))
		img, err := jpeg.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, size, img.Bounds().Dx())
	}

	var buf bytes.Buffer
	err := e.Raster(&buf, tmpl(t, "qrcode"), 300, export.PNG)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	item := tmpl(t, "qrcode")
	item.Text = "hello"
	require.NoError(t, export.New(&stubRenderer{}).SVG(&buf, item))
	assert.Equal(t, "<svg>hello</svg>", buf.String())
}

func TestParsers(t *testing.T) {
	rf, err := export.ParseRasterFormat("JPEG")
	require.NoError(t, err)
	assert.Equal(t, export.JPEG, rf)
	_, err = export.ParseRasterFormat("gif")
	assert.Error(t, err)

	k, err := export.ParseArchiveKind("zip-svg")
	require.NoError(t, err)
	assert.Equal(t, export.ArchiveSVG, k)
	_, err = export.ParseArchiveKind("tar")
	assert.Error(t, err)
}

func TestPDFPagination(t *testing.T) {
	r := &stubRenderer{fail: map[string]bool{"V003": true}}
	values := []string{"bad value!"}
	for i := 0; i < 100; i++ {
		values = append(values, fmt.Sprintf("V%03d", i))
	}
	opts := labels.Options{Preset: labels.PresetCustom, LabelWidth: 30, LabelHeight: 15}

	var buf bytes.Buffer
	item := tmpl(t, "code39")
	stats, err := export.New(r).PDF(&buf, item, values, opts)
	require.NoError(t, err)

	// 96 labels per A4 page
	assert.Equal(t, export.Stats{Written: 99, Skipped: 1, Pages: 2}, stats)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	for _, s := range r.scales {
		assert.Equal(t, render.PDFScale, s)
	}
}

func TestPDFErrors(t *testing.T) {
	var buf bytes.Buffer
	e := export.New(&stubRenderer{})

	_, err := e.PDF(&buf, tmpl(t, "ean13"), []string{"nope"}, labels.DefaultOptions())
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoValidItems))

	_, err = e.PDF(&buf, tmpl(t, "code128"), []string{"A"}, labels.Options{Preset: labels.PresetCustom, LabelWidth: 400})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = e.PDF(&buf, tmpl(t, "code128"), []string{"A"}, labels.Options{Preset: labels.PresetCustom, LabelWidth: 3, LabelHeight: 3})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Zero(t, buf.Len())
}

func TestPDFFullPageHasNoExtraPage(t *testing.T) {
	values := make([]string, 96)
	for i := range values {
		values[i] = fmt.Sprintf("V%03d", i)
	}
	opts := labels.Options{Preset: labels.PresetCustom, LabelWidth: 30, LabelHeight: 15}

	var buf bytes.Buffer
	stats, err := export.New(&stubRenderer{}).PDF(&buf, tmpl(t, "code39"), values, opts)
	require.NoError(t, err)
	assert.Equal(t, export.Stats{Written: 96, Pages: 1}, stats)
}
