// Package display holds the view models every output renderer draws, and
// the builders that turn qrx domain results into them.
package display

import (
	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/labels"
)

// FormatList is the catalog grouped for display
type FormatList struct {
	Groups []FormatGroup `json:"groups"`
}

// FormatGroup is one group of formats
type FormatGroup struct {
	Name    string      `json:"name"`
	Formats []FormatRow `json:"formats"`
}

// FormatRow is one catalog line
type FormatRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FormatDetail describes one format and its options
type FormatDetail struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Group       string      `json:"group"`
	Description string      `json:"description"`
	Placeholder string      `json:"placeholder"`
	Caption     bool        `json:"caption_by_default"`
	Options     []OptionRow `json:"options"`
}

// OptionRow is one option with its choices
type OptionRow struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Kind         string      `json:"kind"`
	Default      string      `json:"default"`
	DefaultLabel string      `json:"default_label"`
	Choices      []ChoiceRow `json:"choices"`
}

// ChoiceRow is one allowed option value
type ChoiceRow struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PresetList is the label preset table
type PresetList struct {
	Presets   []labels.Preset   `json:"presets"`
	PageSizes []labels.PageSize `json:"page_sizes"`
}

// BatchReport is a rendered batch without image data
type BatchReport struct {
	Format  string        `json:"format"`
	Items   []BatchRow    `json:"items"`
	Summary batch.Summary `json:"summary"`
}

// BatchRow is one line of a batch report. Line is 1-based.
type BatchRow struct {
	Line    int        `json:"line"`
	Value   string     `json:"value"`
	Kind    batch.Kind `json:"kind"`
	Error   string     `json:"error,omitempty"`
	Preview string     `json:"preview,omitempty"`
}

// ValidationReport lists which values a format accepts
type ValidationReport struct {
	Format  string          `json:"format"`
	Valid   int             `json:"valid"`
	Invalid int             `json:"invalid"`
	Items   []ValidationRow `json:"items"`
}

// ValidationRow is one checked value
type ValidationRow struct {
	Line    int    `json:"line"`
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ExportReport says where an export went
type ExportReport struct {
	Path    string `json:"path"`
	Written int    `json:"written"`
	Skipped int    `json:"skipped"`
	Pages   int    `json:"pages,omitempty"`
}

// NewFormatList builds the grouped catalog
func NewFormatList(groups []formats.Group) *FormatList {
	out := &FormatList{}
	for _, g := range groups {
		fg := FormatGroup{Name: g.Label}
		for _, id := range g.Formats {
			f, ok := formats.Get(id)
			if !ok {
				continue
			}
			fg.Formats = append(fg.Formats, FormatRow{ID: f.ID, Name: f.Name, Description: f.Description})
		}
		out.Groups = append(out.Groups, fg)
	}
	return out
}

// NewFormatDetail describes f
func NewFormatDetail(f formats.FormatDescriptor) *FormatDetail {
	d := &FormatDetail{
		ID:          f.ID,
		Name:        f.Name,
		Group:       f.Group,
		Description: f.Description,
		Placeholder: f.Placeholder,
		Caption:     f.ShowTextDefault,
		Options:     []OptionRow{},
	}
	for _, o := range f.Options {
		row := OptionRow{ID: o.ID, Label: o.Label, Kind: o.Kind.String(), Default: o.Default, DefaultLabel: o.ChoiceLabel(o.Default)}
		for _, c := range o.Choices {
			row.Choices = append(row.Choices, ChoiceRow{Value: c.Value, Label: c.Label})
		}
		d.Options = append(d.Options, row)
	}
	return d
}

// NewPresetList builds the preset table
func NewPresetList() *PresetList {
	return &PresetList{Presets: labels.Presets(), PageSizes: labels.PageSizes()}
}

// NewBatchReport drops image data from res. previews maps item index to a
// written preview file.
func NewBatchReport(res batch.Result, previews map[int]string) *BatchReport {
	out := &BatchReport{Format: res.Format, Summary: res.Summary, Items: make([]BatchRow, 0, len(res.Items))}
	for _, it := range res.Items {
		out.Items = append(out.Items, BatchRow{
			Line:    it.Index + 1,
			Value:   it.Value,
			Kind:    it.Kind,
			Error:   it.Error,
			Preview: previews[it.Index],
		})
	}
	return out
}

// NewValidationReport checks every candidate value against f
func NewValidationReport(f formats.FormatDescriptor, values []string) *ValidationReport {
	out := &ValidationReport{Format: f.ID, Items: make([]ValidationRow, 0, len(values))}
	for i, v := range values {
		msg := f.Validate(v)
		row := ValidationRow{Line: i + 1, Value: v, Valid: msg == "", Message: msg}
		if row.Valid {
			out.Valid++
		} else {
			out.Invalid++
		}
		out.Items = append(out.Items, row)
	}
	return out
}
