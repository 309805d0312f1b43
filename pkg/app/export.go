package app

import (
	"io"
	"strings"

	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/export"
	"github.com/genomicx/qrx/pkg/render"
)

// SingleFormat is a one-symbol download
type SingleFormat string

const (
	AsSVG  SingleFormat = "svg"
	AsPNG  SingleFormat = "png"
	AsJPEG SingleFormat = "jpg"
	AsPDF  SingleFormat = "pdf"
)

// BatchFormat is a multi-symbol download
type BatchFormat string

const (
	AsZipSVG BatchFormat = "zip-svg"
	AsZipPNG BatchFormat = "zip-png"
	AsSheet  BatchFormat = "pdf"
)

// Content types of the artefacts
const (
	ContentSVG  = "image/svg+xml"
	ContentPNG  = "image/png"
	ContentJPEG = "image/jpeg"
	ContentPDF  = "application/pdf"
	ContentZip  = "application/zip"
)

// ParseSingleFormat accepts svg, png, jpg/jpeg and pdf
func ParseSingleFormat(s string) (SingleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "svg":
		return AsSVG, nil
	case "png":
		return AsPNG, nil
	case "jpg", "jpeg":
		return AsJPEG, nil
	case "pdf":
		return AsPDF, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unsupported output %q (use svg, png, jpg or pdf)", s)
}

// ParseBatchFormat accepts zip-svg, zip-png and pdf
func ParseBatchFormat(s string) (BatchFormat, error) {
	switch BatchFormat(strings.ToLower(strings.TrimSpace(s))) {
	case AsZipSVG:
		return AsZipSVG, nil
	case AsZipPNG:
		return AsZipPNG, nil
	case AsSheet:
		return AsSheet, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unsupported export %q (use zip-svg, zip-png or pdf)", s)
}

// ResolveSingle parses an output type. An empty one means SVG, or the
// configured raster encoding when a raster size was asked for.
func (s *Session) ResolveSingle(as string, size int) (SingleFormat, error) {
	if strings.TrimSpace(as) != "" {
		return ParseSingleFormat(as)
	}
	if size == 0 {
		return AsSVG, nil
	}
	rf, err := export.ParseRasterFormat(s.cfg.Export.RasterFormat)
	if err != nil {
		return "", err
	}
	if rf == export.JPEG {
		return AsJPEG, nil
	}
	return AsPNG, nil
}

// Artifact describes what an export wrote
type Artifact struct {
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	Stats       export.Stats `json:"stats"`
}

// Describe names the artefact a single export would produce without
// rendering anything
func (s *Session) Describe(as SingleFormat, size int) Artifact {
	size = s.rasterSize(size)
	switch as {
	case AsPNG:
		return Artifact{FileName: export.RasterFileName(s.format, size, export.PNG), ContentType: ContentPNG}
	case AsJPEG:
		return Artifact{FileName: export.RasterFileName(s.format, size, export.JPEG), ContentType: ContentJPEG}
	case AsPDF:
		return Artifact{FileName: export.PDFFileName(s.format), ContentType: ContentPDF}
	default:
		return Artifact{FileName: export.SVGFileName(s.format), ContentType: ContentSVG}
	}
}

// Export writes text as one artefact. size applies to raster output; zero
// uses the configured size. A PDF is a label sheet holding one label.
func (s *Session) Export(w io.Writer, text string, as SingleFormat, size int) (Artifact, error) {
	if err := s.check(text); err != nil {
		return Artifact{}, err
	}
	art := s.Describe(as, size)
	item := s.Item(text)

	var err error
	switch as {
	case AsSVG:
		err = s.exporter.SVG(w, item)
	case AsPNG:
		err = s.exporter.Raster(w, item, s.rasterSize(size), export.PNG)
	case AsJPEG:
		err = s.exporter.Raster(w, item, s.rasterSize(size), export.JPEG)
	case AsPDF:
		art.Stats, err = s.exporter.PDF(w, s.Template(), []string{text}, s.labels)
		if err == nil && art.Stats.Written == 0 {
			// the sheet skips failures; render again to surface the reason
			if _, err = s.renderer.Raster(item, render.DefaultScale); err == nil {
				err = errors.Newf(errors.ErrEncodeFailed, "%s could not encode %q", s.format.Name, text)
			}
		}
	default:
		err = errors.Newf(errors.ErrInvalidInput, "unsupported output %q", as)
	}
	if err != nil {
		return Artifact{}, err
	}
	if as != AsPDF {
		art.Stats.Written = 1
	}
	s.logger.Info().Str("format", s.format.ID).Str("file", art.FileName).Msg("Exported symbol")
	return art, nil
}

// DescribeBatch names the artefact a batch export would produce
func (s *Session) DescribeBatch(as BatchFormat) Artifact {
	switch as {
	case AsZipPNG:
		return Artifact{FileName: export.ArchiveFileName(s.format, export.ArchivePNG), ContentType: ContentZip}
	case AsSheet:
		return Artifact{FileName: export.PDFFileName(s.format), ContentType: ContentPDF}
	default:
		return Artifact{FileName: export.ArchiveFileName(s.format, export.ArchiveSVG), ContentType: ContentZip}
	}
}

// ExportBatch writes every valid line of raw into one archive or label
// sheet. Invalid lines and lines the encoder rejects are left out; the
// export is refused when no line is valid. size applies to zip-png entries.
func (s *Session) ExportBatch(w io.Writer, raw string, as BatchFormat, size int) (Artifact, error) {
	values := batch.ParseInput(raw)
	tmpl := s.Template()

	art := s.DescribeBatch(as)
	var err error
	switch as {
	case AsZipSVG:
		art.Stats, err = s.exporter.Archive(w, tmpl, values, export.ArchiveSVG, 0)
	case AsZipPNG:
		if size == 0 {
			size = s.cfg.Export.ArchiveSize
		}
		art.Stats, err = s.exporter.Archive(w, tmpl, values, export.ArchivePNG, size)
	case AsSheet:
		art.Stats, err = s.exporter.PDF(w, tmpl, values, s.labels)
	default:
		err = errors.Newf(errors.ErrInvalidInput, "unsupported export %q", as)
	}
	if err != nil {
		return Artifact{}, err
	}
	s.logger.Info().
		Str("format", s.format.ID).
		Str("file", art.FileName).
		Int("written", art.Stats.Written).
		Int("skipped", art.Stats.Skipped).
		Msg("Exported batch")
	return art, nil
}

func (s *Session) rasterSize(size int) int {
	if size == 0 {
		return s.cfg.Export.Size
	}
	return size
}
