// Package text provides plain text output without any styling. The layout
// takes a Styler so the terminal renderer can reuse it with colours.
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/ui/display"
)

// Styler decorates s with the named style
type Styler func(style, s string) string

// Plain leaves text untouched
func Plain(_, s string) string { return s }

// Renderer writes results as aligned plain text
type Renderer struct {
	output io.Writer
	style  Styler
}

// New creates a plain text renderer
func New(output io.Writer) *Renderer {
	return NewStyled(output, Plain)
}

// NewStyled creates a text renderer that decorates with style
func NewStyled(output io.Writer, style Styler) *Renderer {
	if style == nil {
		style = Plain
	}
	return &Renderer{output: output, style: style}
}

// RenderResult renders a display view model
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder
	switch v := result.(type) {
	case *display.FormatList:
		r.formatList(&b, v)
	case *display.FormatDetail:
		r.formatDetail(&b, v)
	case *display.PresetList:
		r.presetList(&b, v)
	case *display.BatchReport:
		r.batchReport(&b, v)
	case *display.ValidationReport:
		r.validationReport(&b, v)
	case *display.ExportReport:
		r.exportReport(&b, v)
	case string:
		b.WriteString(strings.TrimRight(v, "\n") + "\n")
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with its code
func (r *Renderer) RenderError(err error) error {
	code := errors.GetErrorCode(err)
	msg := errors.UserMessage(err)
	if code == errors.ErrUnknown {
		_, werr := fmt.Fprintf(r.output, "%s %s\n", r.style("Error", "Error:"), msg)
		return werr
	}
	_, werr := fmt.Fprintf(r.output, "%s %s %s\n", r.style("Error", "Error:"), msg, r.style("Muted", "["+string(code)+"]"))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) formatList(b *strings.Builder, v *display.FormatList) {
	width := 0
	for _, g := range v.Groups {
		for _, f := range g.Formats {
			width = max(width, len(f.ID))
		}
	}
	for i, g := range v.Groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.style("Group", g.Name) + "\n")
		for _, f := range g.Formats {
			fmt.Fprintf(b, "  %s  %s  %s\n",
				r.style("FormatID", pad(f.ID, width)), r.style("Bold", f.Name), r.style("Muted", f.Description))
		}
	}
}

func (r *Renderer) formatDetail(b *strings.Builder, v *display.FormatDetail) {
	fmt.Fprintf(b, "%s (%s)\n", r.style("Header", v.Name), v.ID)
	fmt.Fprintf(b, "  Group:    %s\n", v.Group)
	fmt.Fprintf(b, "  About:    %s\n", v.Description)
	fmt.Fprintf(b, "  Example:  %s\n", v.Placeholder)
	caption := "off"
	if v.Caption {
		caption = "on"
	}
	fmt.Fprintf(b, "  Caption:  %s by default\n", caption)
	if len(v.Options) == 0 {
		b.WriteString("  Options:  none\n")
		return
	}
	b.WriteString("  Options:\n")
	for _, o := range v.Options {
		fmt.Fprintf(b, "    %s  %s (%s, default %s)\n", r.style("FormatID", o.ID), o.Label, o.Kind, o.DefaultLabel)
		width := 0
		for _, c := range o.Choices {
			width = max(width, len(choiceValue(c.Value)))
		}
		for _, c := range o.Choices {
			fmt.Fprintf(b, "      %s  %s\n", pad(choiceValue(c.Value), width), r.style("Muted", c.Label))
		}
	}
}

func (r *Renderer) presetList(b *strings.Builder, v *display.PresetList) {
	b.WriteString(r.style("Group", "Label presets") + "\n")
	width := 0
	for _, p := range v.Presets {
		width = max(width, len(p.ID))
	}
	for _, p := range v.Presets {
		size := fmt.Sprintf("%g x %g mm", p.Width, p.Height)
		switch p.ID {
		case labels.PresetFullPage:
			size = "page usable area"
		case labels.PresetCustom:
			size = "--label-width/--label-height, default " + size
		}
		fmt.Fprintf(b, "  %s  %s  %s\n", r.style("FormatID", pad(p.ID, width)), p.Name,
			r.style("Muted", fmt.Sprintf("%s, padding %g mm", size, p.Padding)))
	}
	b.WriteString("\n" + r.style("Group", "Page sizes") + "\n")
	for _, s := range v.PageSizes {
		fmt.Fprintf(b, "  %s  %s  %s\n", r.style("FormatID", pad(s.ID, width)), s.Name,
			r.style("Muted", fmt.Sprintf("%g x %g mm", s.Width, s.Height)))
	}
}

func (r *Renderer) batchReport(b *strings.Builder, v *display.BatchReport) {
	for _, it := range v.Items {
		line := fmt.Sprintf("%4d  %s  %s", it.Line, r.kind(it.Kind), r.style("Value", it.Value))
		switch {
		case it.Error != "":
			line += "  " + r.style("Muted", it.Error)
		case it.Preview != "":
			line += "  " + r.style("Muted", it.Preview)
		}
		b.WriteString(line + "\n")
	}
	s := v.Summary
	fmt.Fprintf(b, "%d values: %s, %s, %s\n", s.Total,
		r.style("Success", fmt.Sprintf("%d rendered", s.Rendered)),
		r.style("Error", fmt.Sprintf("%d failed", s.Failed)),
		r.style("Warning", fmt.Sprintf("%d invalid", s.Invalid)))
}

func (r *Renderer) validationReport(b *strings.Builder, v *display.ValidationReport) {
	for _, it := range v.Items {
		if it.Valid {
			fmt.Fprintf(b, "%4d  %s  %s\n", it.Line, r.style("Success", pad("valid", 7)), it.Value)
			continue
		}
		fmt.Fprintf(b, "%4d  %s  %s  %s\n", it.Line, r.style("Warning", "invalid"), it.Value, r.style("Muted", it.Message))
	}
	fmt.Fprintf(b, "%s: %d valid, %d invalid\n", v.Format, v.Valid, v.Invalid)
}

func (r *Renderer) exportReport(b *strings.Builder, v *display.ExportReport) {
	fmt.Fprintf(b, "%s %s (%d written", r.style("Success", "Wrote"), v.Path, v.Written)
	if v.Skipped > 0 {
		fmt.Fprintf(b, ", %d skipped", v.Skipped)
	}
	if v.Pages > 0 {
		fmt.Fprintf(b, ", %d pages", v.Pages)
	}
	b.WriteString(")\n")
}

// KindLabel is the short word shown for a batch outcome
func KindLabel(k batch.Kind) string {
	switch k {
	case batch.KindRendered:
		return "ok"
	case batch.KindGenerationError:
		return "failed"
	case batch.KindValidationError:
		return "invalid"
	default:
		return string(k)
	}
}

func (r *Renderer) kind(k batch.Kind) string {
	label := pad(KindLabel(k), 7)
	switch k {
	case batch.KindRendered:
		return r.style("Success", label)
	case batch.KindGenerationError:
		return r.style("Error", label)
	default:
		return r.style("Warning", label)
	}
}

func choiceValue(v string) string {
	if v == "" {
		return `""`
	}
	return v
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
