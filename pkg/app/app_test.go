package app_test

import (
	"archive/zip"
	"bytes"
	stderrors "errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomicx/qrx/pkg/app"
	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/config"
	"github.com/genomicx/qrx/pkg/encoder"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/render"
)

// blocks draws a 20x10 module block and rejects "FAIL"
var blocks = encoder.Func(func(req encoder.Request) (image.Image, error) {
	if req.Text == "FAIL" {
		return nil, stderrors.New("boom")
	}
	img := image.NewRGBA(image.Rect(0, 0, 20*req.Scale, 10*req.Scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img, nil
})

func newSession(t *testing.T) *app.Session {
	t.Helper()
	s, err := app.New(config.Default(), blocks)
	require.NoError(t, err)
	return s
}

func TestNewUsesConfiguredFormat(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{
		NoFile:    true,
		SkipEnv:   true,
		Overrides: map[string]interface{}{"defaults.format": "code39", "defaults.caption": "off"},
	})
	require.NoError(t, err)

	s, err := app.New(cfg, blocks)
	require.NoError(t, err)
	assert.Equal(t, "code39", s.Format().ID)
	assert.Equal(t, render.CaptionOff, s.Caption())
	assert.False(t, s.ShowCaption())
	assert.Equal(t, app.ModeSingle, s.Mode())
}

func TestSetFormatResetsSelections(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetOption("eclevel", "H"))
	s.SetCaption(render.CaptionOn)
	assert.Equal(t, map[string]string{"eclevel": "H"}, s.Options())

	require.NoError(t, s.SetFormat("code128"))
	assert.Equal(t, map[string]string{"barheight": "10"}, s.Options())
	assert.Equal(t, render.CaptionAuto, s.Caption())
	assert.True(t, s.ShowCaption(), "linear formats caption by default")

	err := s.SetFormat("aztec")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, "code128", s.Format().ID)
}

func TestSetOptionsRejectsWithoutChange(t *testing.T) {
	s := newSession(t)
	err := s.SetOptions(map[string]string{"eclevel": "Z"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, "M", s.Options()["eclevel"])

	err = s.SetOption("barheight", "10")
	assert.Error(t, err, "qrcode has no bar height")
}

func TestParseModes(t *testing.T) {
	m, err := app.ParseMode("Batch")
	require.NoError(t, err)
	assert.Equal(t, app.ModeBatch, m)
	_, err = app.ParseMode("multi")
	assert.Error(t, err)

	f, err := app.ParseSingleFormat("JPEG")
	require.NoError(t, err)
	assert.Equal(t, app.AsJPEG, f)
	_, err = app.ParseSingleFormat("gif")
	assert.Error(t, err)

	b, err := app.ParseBatchFormat("zip-png")
	require.NoError(t, err)
	assert.Equal(t, app.AsZipPNG, b)
	_, err = app.ParseBatchFormat("zip")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	s := newSession(t)

	img, err := s.Preview("hello")
	require.NoError(t, err)
	assert.Equal(t, 20*render.PreviewScale, img.Bounds().Dx())
	assert.Equal(t, 10*render.PreviewScale, img.Bounds().Dy())

	_, err = s.Preview("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, "Enter text to encode", errors.UserMessage(err))

	_, err = s.Preview("FAIL")
	assert.True(t, errors.IsErrorCode(err, errors.ErrEncodeFailed))
}

func TestPreviewUsesConfiguredScale(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{
		NoFile:    true,
		SkipEnv:   true,
		Overrides: map[string]interface{}{"defaults.scale": 2},
	})
	require.NoError(t, err)
	s, err := app.New(cfg, blocks)
	require.NoError(t, err)

	img, err := s.Preview("hello")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(40, 20), img.Bounds().Size())
}

func TestResolveSingle(t *testing.T) {
	jpg, err := config.Load(config.LoadOptions{
		NoFile:    true,
		SkipEnv:   true,
		Overrides: map[string]interface{}{"export.raster_format": "jpg"},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		cfg  *config.Config
		as   string
		size int
		want app.SingleFormat
	}{
		{"empty is svg", config.Default(), "", 0, app.AsSVG},
		{"size picks configured png", config.Default(), "", 512, app.AsPNG},
		{"size picks configured jpg", jpg, "", 512, app.AsJPEG},
		{"explicit wins", jpg, "png", 512, app.AsPNG},
		{"explicit pdf", jpg, "pdf", 0, app.AsPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := app.New(tt.cfg, blocks)
			require.NoError(t, err)
			got, err := s.ResolveSingle(tt.as, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = newSession(t).ResolveSingle("gif", 0)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExportSingle(t *testing.T) {
	s := newSession(t)

	var buf bytes.Buffer
	art, err := s.Export(&buf, "hello", app.AsPNG, 256)
	require.NoError(t, err)
	assert.Equal(t, "barcode-qrcode-256x256.png", art.FileName)
	assert.Equal(t, app.ContentPNG, art.ContentType)
	assert.Equal(t, 1, art.Stats.Written)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	buf.Reset()
	art, err = s.Export(&buf, "hello", app.AsPDF, 0)
	require.NoError(t, err)
	assert.Equal(t, "barcodes-qr-code.pdf", art.FileName)
	assert.Equal(t, 1, art.Stats.Pages)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	_, err = s.Export(&bytes.Buffer{}, "FAIL", app.AsPDF, 0)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEncodeFailed))

	_, err = s.Export(&bytes.Buffer{}, "hello", app.AsPNG, 300)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDescribeUsesConfiguredSize(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, "barcode-qrcode-1024x1024.jpg", s.Describe(app.AsJPEG, 0).FileName)
	assert.Equal(t, "barcode-qrcode.svg", s.Describe(app.AsSVG, 0).FileName)
}

func TestBatch(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetFormat("ean13"))
	s.SetMode(app.ModeBatch)

	res := s.Batch("590123456789\n\n  ABC123 \nFAIL\n5901234123457\n")
	require.Len(t, res.Items, 4)
	assert.Equal(t, batch.Summary{Total: 4, Rendered: 2, Invalid: 2}, res.Summary)
	assert.Equal(t, "ABC123", res.Items[1].Value)
	assert.Equal(t, batch.KindValidationError, res.Items[1].Kind)

	valid, invalid := s.Partition("590123456789\nnope")
	assert.Len(t, valid, 1)
	assert.Len(t, invalid, 1)
}

func TestExportBatch(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetFormat("code128"))

	var buf bytes.Buffer
	art, err := s.ExportBatch(&buf, "A\nFAIL\nC", app.AsZipPNG, 0)
	require.NoError(t, err)
	assert.Equal(t, "barcodes-code128-png.zip", art.FileName)
	assert.Equal(t, 2, art.Stats.Written)
	assert.Equal(t, 1, art.Stats.Skipped)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "0001_A.png", zr.File[0].Name)
	assert.Equal(t, "0003_C.png", zr.File[1].Name)

	require.NoError(t, s.SetLabels(labels.Options{Preset: "large_label"}))
	buf.Reset()
	art, err = s.ExportBatch(&buf, "A\nB", app.AsSheet, 0)
	require.NoError(t, err)
	assert.Equal(t, "barcodes-code-128.pdf", art.FileName)
	assert.Equal(t, 2, art.Stats.Written)

	_, err = s.ExportBatch(&bytes.Buffer{}, "\n\n", app.AsZipSVG, 0)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoValidItems))
}

func TestSetLabelsRejectsOversize(t *testing.T) {
	s := newSession(t)
	err := s.SetLabels(labels.Options{Preset: labels.PresetCustom, LabelWidth: 900})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, labels.DefaultOptions(), s.Labels())
}
