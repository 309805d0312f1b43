package export

import (
	"archive/zip"
	"bytes"
	"io"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/render"
)

// ArchiveKind selects the entry encoding of an archive
type ArchiveKind string

const (
	ArchivePNG ArchiveKind = "png"
	ArchiveSVG ArchiveKind = "svg"
)

// ParseArchiveKind accepts png or svg, with or without a "zip-" prefix
func ParseArchiveKind(s string) (ArchiveKind, error) {
	switch s {
	case "png", "zip-png":
		return ArchivePNG, nil
	case "svg", "zip-svg":
		return ArchiveSVG, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unsupported archive kind %q (use png or svg)", s)
}

// Archive writes a ZIP with one entry per valid candidate value. Invalid
// values and values that fail to render are skipped. Entries are numbered by
// their 1-based position in values. size applies to PNG entries; zero means
// DefaultArchiveSize.
func (e *Exporter) Archive(w io.Writer, tmpl render.Item, values []string, kind ArchiveKind, size int) (Stats, error) {
	var stats Stats
	if !anyValid(tmpl, values) {
		return stats, noValidItems(tmpl)
	}
	if size == 0 {
		size = DefaultArchiveSize
	}
	if kind == ArchivePNG {
		if err := CheckSize(size); err != nil {
			return stats, err
		}
	}

	done := logging.LogOperationStart(e.logger, "archive")
	defer done()

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	now := time.Now()
	for i, v := range values {
		if reason := tmpl.Format.Validate(v); reason != "" {
			continue
		}
		item := tmpl
		item.Text = v

		data, err := e.entry(item, kind, size)
		if err != nil {
			e.logger.Debug().Err(err).Str("value", v).Msg("Skipping archive entry")
			stats.Skipped++
			continue
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     EntryName(i+1, v, string(kind)),
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return stats, errors.Wrap(err, errors.ErrArchive, "failed to add archive entry")
		}
		if _, err := fw.Write(data); err != nil {
			return stats, errors.Wrap(err, errors.ErrArchive, "failed to write archive entry")
		}
		stats.Written++
	}

	if err := zw.Close(); err != nil {
		return stats, errors.Wrap(err, errors.ErrArchive, "failed to finish archive")
	}
	e.logger.Info().Int("written", stats.Written).Int("skipped", stats.Skipped).Msg("Archive written")
	return stats, nil
}

func (e *Exporter) entry(item render.Item, kind ArchiveKind, size int) ([]byte, error) {
	switch kind {
	case ArchiveSVG:
		svg, err := e.renderer.SVG(item)
		if err != nil {
			return nil, err
		}
		return []byte(svg), nil
	case ArchivePNG:
		img, err := e.renderer.Sized(item, size)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := EncodeImage(&buf, img, PNG); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported archive kind %q", kind)
	}
}

func anyValid(tmpl render.Item, values []string) bool {
	for _, v := range values {
		if tmpl.Format.Valid(v) {
			return true
		}
	}
	return false
}
