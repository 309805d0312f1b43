package render

import (
	"strconv"
	"strings"

	"github.com/genomicx/qrx/pkg/encoder"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/formats"
)

// Magnifications used by the derived outputs
const (
	DefaultScale = 3
	PreviewScale = 4
	PDFScale     = 8
	HiResScale   = 10
)

// Caption overrides the format's default caption visibility
type Caption string

const (
	CaptionAuto Caption = "auto"
	CaptionOn   Caption = "on"
	CaptionOff  Caption = "off"
)

// ParseCaption accepts auto/on/off and the usual boolean spellings
func ParseCaption(s string) (Caption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "default":
		return CaptionAuto, nil
	case "on", "true", "yes", "1":
		return CaptionOn, nil
	case "off", "false", "no", "0":
		return CaptionOff, nil
	}
	return CaptionAuto, errors.Newf(errors.ErrInvalidInput, "invalid caption setting %q (use auto, on or off)", s)
}

// Show resolves the caption setting for a format
func (c Caption) Show(f formats.FormatDescriptor) bool {
	switch c {
	case CaptionOn:
		return true
	case CaptionOff:
		return false
	default:
		return f.ShowTextDefault
	}
}

// Item is one (format, text, options) combination to render
type Item struct {
	Format  formats.FormatDescriptor
	Text    string
	Options map[string]string
	Caption Caption
}

// BuildRequest translates an item into an encoder request. The second return
// value reports whether a caption must be composited under the symbol, which
// is the case for matrix formats with captions enabled.
func BuildRequest(item Item, scale int) (encoder.Request, bool, error) {
	f := item.Format
	show := item.Caption.Show(f)

	req := encoder.Request{
		Symbology:   f.EncoderKey,
		Text:        item.Text,
		Scale:       scale,
		IncludeText: show && !f.Is2D(),
	}

	for id, val := range f.Resolve(item.Options) {
		if val == "" {
			continue
		}
		opt, ok := f.Option(id)
		if !ok {
			continue
		}
		if opt.Kind != formats.KindChoice {
			return req, false, errors.Newf(errors.ErrInternal, "option %s has unsupported kind %s", id, opt.Kind)
		}
		if err := apply(&req, id, val); err != nil {
			return req, false, err
		}
	}

	return req, show && f.Is2D(), nil
}

func apply(req *encoder.Request, id, val string) error {
	switch id {
	case formats.OptECLevel:
		req.ECLevel = encoder.ECLevel(strings.ToUpper(val))
	case formats.OptDMSize:
		w, h, ok := strings.Cut(strings.ToLower(val), "x")
		cols, err1 := strconv.Atoi(w)
		rows, err2 := strconv.Atoi(h)
		if !ok || err1 != nil || err2 != nil || cols <= 0 || rows <= 0 {
			return errors.Newf(errors.ErrInvalidInput, "invalid Data Matrix size %q", val)
		}
		req.Columns, req.Rows = cols, rows
	case formats.OptBarHeight:
		mm, err := strconv.ParseFloat(val, 64)
		if err != nil || mm <= 0 {
			return errors.Newf(errors.ErrInvalidInput, "invalid bar height %q", val)
		}
		req.BarHeightMM = mm
	default:
		return errors.Newf(errors.ErrInternal, "no encoder mapping for option %s", id)
	}
	return nil
}
