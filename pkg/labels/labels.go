// Package labels describes printable label sheets: the label presets, the
// page sizes and the grid arithmetic that places label k on a page.
// All lengths are millimetres.
package labels

import (
	"math"
	"strings"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/registry"
)

// Preset identifiers with special sizing rules
const (
	PresetFullPage = "full_page"
	PresetCustom   = "custom"
)

// Defaults applied when options leave a value unset
const (
	DefaultGap          = 2.0
	DefaultMargin       = 10.0
	DefaultCustomWidth  = 30.0
	DefaultCustomHeight = 15.0
	DefaultPreset       = "medium_label"
	DefaultPageSize     = "a4"
)

// Preset is a named label size
type Preset struct {
	ID      string  `json:"id" toml:"id"`
	Name    string  `json:"name" toml:"name"`
	Width   float64 `json:"width_mm" toml:"width_mm"`
	Height  float64 `json:"height_mm" toml:"height_mm"`
	Padding float64 `json:"padding_mm" toml:"padding_mm"`
}

// PageSize is a paper size in portrait orientation
type PageSize struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Width  float64 `json:"width_mm"`
	Height float64 `json:"height_mm"`
}

// Orientation of the page
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

var (
	presets   = registry.New[Preset]()
	pageSizes = registry.New[PageSize]()
)

func init() {
	for _, p := range []Preset{
		{ID: "cryovial_cap", Name: "Cryovial Cap (12mm)", Width: 12, Height: 12, Padding: 1},
		{ID: "tube_side", Name: "Tube Side (25x10mm)", Width: 25, Height: 10, Padding: 1},
		{ID: "slide_label", Name: "Slide Label (25x12mm)", Width: 25, Height: 12, Padding: 1},
		{ID: "medium_label", Name: "Medium Label (40x20mm)", Width: 40, Height: 20, Padding: 2},
		{ID: "large_label", Name: "Large Label (60x30mm)", Width: 60, Height: 30, Padding: 2},
		{ID: PresetFullPage, Name: "Full Page (1 per page)", Padding: 10},
		{ID: PresetCustom, Name: "Custom", Width: DefaultCustomWidth, Height: DefaultCustomHeight, Padding: 2},
	} {
		registry.MustRegister(presets, p.ID, p)
	}
	for _, s := range []PageSize{
		{ID: "a4", Name: "A4", Width: 210, Height: 297},
		{ID: "letter", Name: "Letter", Width: 215.9, Height: 279.4},
	} {
		registry.MustRegister(pageSizes, s.ID, s)
	}
}

// Presets returns every preset in display order
func Presets() []Preset { return presets.All() }

// GetPreset looks up a preset by id
func GetPreset(id string) (Preset, error) { return presets.Get(id) }

// PageSizes returns every page size
func PageSizes() []PageSize { return pageSizes.All() }

// GetPageSize looks up a page size by id, ignoring case
func GetPageSize(id string) (PageSize, error) {
	return pageSizes.Get(strings.ToLower(id))
}

// ParseOrientation accepts portrait or landscape
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case "", Portrait:
		return Portrait, nil
	case Landscape:
		return Landscape, nil
	}
	return Portrait, errors.Newf(errors.ErrInvalidInput, "invalid orientation %q (use portrait or landscape)", s)
}

// Options selects a sheet layout. Zero Gap and Margin mean the defaults;
// use a negative value to ask for none.
type Options struct {
	PageSize    string      `json:"page_size" koanf:"page_size" toml:"page_size"`
	Orientation Orientation `json:"orientation" koanf:"orientation" toml:"orientation"`
	Preset      string      `json:"preset" koanf:"preset" toml:"preset"`
	LabelWidth  float64     `json:"label_width" koanf:"label_width" toml:"label_width"`
	LabelHeight float64     `json:"label_height" koanf:"label_height" toml:"label_height"`
	Gap         float64     `json:"gap" koanf:"gap" toml:"gap"`
	Margin      float64     `json:"margin" koanf:"margin" toml:"margin"`
}

// DefaultOptions returns the sheet the tool starts with
func DefaultOptions() Options {
	return Options{
		PageSize:    DefaultPageSize,
		Orientation: Portrait,
		Preset:      DefaultPreset,
		LabelWidth:  DefaultCustomWidth,
		LabelHeight: DefaultCustomHeight,
		Gap:         DefaultGap,
		Margin:      DefaultMargin,
	}
}

// Rect is an axis-aligned box
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Layout is a resolved label grid
type Layout struct {
	PageWidth   float64
	PageHeight  float64
	LabelWidth  float64
	LabelHeight float64
	Padding     float64
	Gap         float64
	Margin      float64
	Columns     int
	Rows        int
	FullPage    bool
}

// NewLayout resolves options into a grid. A label that does not fit on the
// page, or whose padding leaves no drawing area, fails with INVALID_INPUT.
func NewLayout(opts Options) (Layout, error) {
	size, err := GetPageSize(orDefault(opts.PageSize, DefaultPageSize))
	if err != nil {
		return Layout{}, errors.Newf(errors.ErrInvalidInput, "unknown page size %q", opts.PageSize)
	}
	preset, err := GetPreset(orDefault(opts.Preset, DefaultPreset))
	if err != nil {
		return Layout{}, errors.Newf(errors.ErrInvalidInput, "unknown label preset %q", opts.Preset)
	}
	orientation, err := ParseOrientation(string(opts.Orientation))
	if err != nil {
		return Layout{}, err
	}

	l := Layout{
		PageWidth:  size.Width,
		PageHeight: size.Height,
		Padding:    preset.Padding,
		Gap:        lengthOr(opts.Gap, DefaultGap),
		Margin:     lengthOr(opts.Margin, DefaultMargin),
	}
	if orientation == Landscape {
		l.PageWidth, l.PageHeight = l.PageHeight, l.PageWidth
	}

	usableW := l.PageWidth - 2*l.Margin
	usableH := l.PageHeight - 2*l.Margin

	switch preset.ID {
	case PresetFullPage:
		l.FullPage = true
		l.LabelWidth, l.LabelHeight = usableW, usableH
	case PresetCustom:
		l.LabelWidth = positiveOr(opts.LabelWidth, DefaultCustomWidth)
		l.LabelHeight = positiveOr(opts.LabelHeight, DefaultCustomHeight)
	default:
		l.LabelWidth, l.LabelHeight = preset.Width, preset.Height
	}

	if l.FullPage {
		l.Columns, l.Rows = 1, 1
	} else {
		l.Columns = int(math.Floor((usableW + l.Gap) / (l.LabelWidth + l.Gap)))
		l.Rows = int(math.Floor((usableH + l.Gap) / (l.LabelHeight + l.Gap)))
	}

	if l.Columns <= 0 || l.Rows <= 0 || usableW <= 0 || usableH <= 0 {
		return Layout{}, errors.Newf(errors.ErrInvalidInput,
			"a %gx%gmm label does not fit on a %gx%gmm page with %gmm margins",
			l.LabelWidth, l.LabelHeight, l.PageWidth, l.PageHeight, l.Margin)
	}
	if l.LabelWidth-2*l.Padding <= 0 || l.LabelHeight-2*l.Padding <= 0 {
		return Layout{}, errors.Newf(errors.ErrInvalidInput,
			"a %gx%gmm label leaves no room inside %gmm padding",
			l.LabelWidth, l.LabelHeight, l.Padding)
	}
	return l, nil
}

// PerPage is the number of labels on one page
func (l Layout) PerPage() int {
	if l.FullPage {
		return 1
	}
	return l.Columns * l.Rows
}

// Pages is how many pages n labels need
func (l Layout) Pages(n int) int {
	if n <= 0 {
		return 0
	}
	per := l.PerPage()
	return (n + per - 1) / per
}

// Place returns the 0-based page and the cell of label k
func (l Layout) Place(k int) (int, Rect) {
	per := l.PerPage()
	page := k / per
	idx := k % per
	col := idx % l.Columns
	row := idx / l.Columns
	return page, Rect{
		X: l.Margin + float64(col)*(l.LabelWidth+l.Gap),
		Y: l.Margin + float64(row)*(l.LabelHeight+l.Gap),
		W: l.LabelWidth,
		H: l.LabelHeight,
	}
}

// Interior is the padded drawing area of a cell
func (l Layout) Interior(cell Rect) Rect {
	return Rect{
		X: cell.X + l.Padding,
		Y: cell.Y + l.Padding,
		W: cell.W - 2*l.Padding,
		H: cell.H - 2*l.Padding,
	}
}

// Fit scales an image of w x h into area, keeping its aspect ratio, and
// centres it
func Fit(area Rect, w, h float64) Rect {
	if w <= 0 || h <= 0 || area.W <= 0 || area.H <= 0 {
		return Rect{X: area.X, Y: area.Y}
	}
	aspect := w / h
	var dw, dh float64
	if aspect >= area.W/area.H {
		dw, dh = area.W, area.W/aspect
	} else {
		dw, dh = area.H*aspect, area.H
	}
	return Rect{
		X: area.X + (area.W-dw)/2,
		Y: area.Y + (area.H-dh)/2,
		W: dw,
		H: dh,
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func lengthOr(v, def float64) float64 {
	switch {
	case v < 0:
		return 0
	case v == 0:
		return def
	default:
		return v
	}
}

func positiveOr(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
