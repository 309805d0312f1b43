package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/genomicx/qrx/pkg/app"
	"github.com/genomicx/qrx/pkg/export"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/render"
)

// Plan is what the user asked for. Run has already applied the format,
// options, caption and sheet choices to the session.
type Plan struct {
	Mode    app.Mode
	Text    string
	Batch   string
	Single  app.SingleFormat
	BatchAs app.BatchFormat
	Size    int
	Path    string
}

var (
	singleOutputs = []app.SingleFormat{app.AsSVG, app.AsPNG, app.AsJPEG, app.AsPDF}
	batchOutputs  = []app.BatchFormat{app.AsZipSVG, app.AsZipPNG, app.AsSheet}
	captions      = []render.Caption{render.CaptionAuto, render.CaptionOn, render.CaptionOff}
	orientations  = []labels.Orientation{labels.Portrait, labels.Landscape}
)

// Run walks the user through one export. Declining the final confirmation
// returns ErrAborted.
func Run(ctx context.Context, d Driver, s *app.Session) (Plan, error) {
	logger := logging.GetLogger("prompt")

	if err := askFormat(ctx, d, s); err != nil {
		return Plan{}, err
	}
	if err := askOptions(ctx, d, s); err != nil {
		return Plan{}, err
	}
	if err := askCaption(ctx, d, s); err != nil {
		return Plan{}, err
	}

	modeIdx, err := d.Select(ctx, SelectConfig{
		Message:      "Mode",
		Options:      []string{"Single value", "Batch (one value per line)"},
		DefaultIndex: indexOf([]app.Mode{app.ModeSingle, app.ModeBatch}, s.Mode()),
	})
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Mode: app.ModeSingle}
	if modeIdx == 1 {
		plan.Mode = app.ModeBatch
	}
	s.SetMode(plan.Mode)

	var fileName string
	if plan.Mode == app.ModeSingle {
		fileName, err = askSingle(ctx, d, s, &plan)
	} else {
		fileName, err = askBatch(ctx, d, s, &plan)
	}
	if err != nil {
		return Plan{}, err
	}

	plan.Path, err = d.Input(ctx, InputConfig{
		Message: "Save as",
		Default: fileName,
		Validator: func(v string) error {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("a file name is required")
			}
			return nil
		},
	})
	if err != nil {
		return Plan{}, err
	}
	plan.Path = strings.TrimSpace(plan.Path)

	ok, err := d.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Write %s?", plan.Path), Default: true})
	if err != nil {
		return Plan{}, err
	}
	if !ok {
		return Plan{}, ErrAborted
	}
	logger.Debug().Str("format", s.Format().ID).Str("mode", string(plan.Mode)).Str("path", plan.Path).Msg("Prompt complete")
	return plan, nil
}

func askFormat(ctx context.Context, d Driver, s *app.Session) error {
	all := formats.All()
	names := make([]string, len(all))
	ids := make([]string, len(all))
	for i, f := range all {
		names[i] = fmt.Sprintf("%s (%s)", f.Name, f.ID)
		ids[i] = f.ID
	}
	idx, err := d.Select(ctx, SelectConfig{
		Message:      "Barcode format",
		Options:      names,
		DefaultIndex: indexOf(ids, s.Format().ID),
	})
	if err != nil {
		return err
	}
	if idx == indexOf(ids, s.Format().ID) {
		return nil
	}
	return s.SetFormat(ids[idx])
}

func askOptions(ctx context.Context, d Driver, s *app.Session) error {
	current := s.Options()
	for _, o := range s.Format().Options {
		names := make([]string, len(o.Choices))
		values := make([]string, len(o.Choices))
		for i, c := range o.Choices {
			names[i] = c.Label
			values[i] = c.Value
		}
		idx, err := d.Select(ctx, SelectConfig{
			Message:      o.Label,
			Options:      names,
			DefaultIndex: indexOf(values, current[o.ID]),
			Help:         "Currently " + o.ChoiceLabel(current[o.ID]),
		})
		if err != nil {
			return err
		}
		if err := s.SetOption(o.ID, values[idx]); err != nil {
			return err
		}
	}
	return nil
}

func askCaption(ctx context.Context, d Driver, s *app.Session) error {
	def := "off"
	if s.Format().ShowTextDefault {
		def = "on"
	}
	idx, err := d.Select(ctx, SelectConfig{
		Message:      "Caption",
		Options:      []string{fmt.Sprintf("Format default (%s)", def), "Always show", "Never show"},
		DefaultIndex: indexOf(captions, s.Caption()),
	})
	if err != nil {
		return err
	}
	s.SetCaption(captions[idx])
	return nil
}

func askSingle(ctx context.Context, d Driver, s *app.Session, plan *Plan) (string, error) {
	text, err := d.Input(ctx, InputConfig{
		Message: "Text to encode",
		Help:    "e.g. " + formats.Placeholder(s.Format().ID),
		Validator: func(v string) error {
			if msg := s.Validate(v); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			return nil
		},
	})
	if err != nil {
		return "", err
	}
	plan.Text = text

	names := make([]string, len(singleOutputs))
	for i, o := range singleOutputs {
		names[i] = strings.ToUpper(string(o))
	}
	idx, err := d.Select(ctx, SelectConfig{Message: "Output", Options: names})
	if err != nil {
		return "", err
	}
	plan.Single = singleOutputs[idx]

	switch plan.Single {
	case app.AsPNG, app.AsJPEG:
		if plan.Size, err = askSize(ctx, d, s.Config().Export.Size); err != nil {
			return "", err
		}
	case app.AsPDF:
		if err := askSheet(ctx, d, s); err != nil {
			return "", err
		}
	}
	return s.Describe(plan.Single, plan.Size).FileName, nil
}

func askBatch(ctx context.Context, d Driver, s *app.Session, plan *Plan) (string, error) {
	raw, err := d.TextArea(ctx, TextAreaConfig{
		Message: "Values, one per line",
		Help:    "Blank lines are ignored",
	})
	if err != nil {
		return "", err
	}
	plan.Batch = raw

	idx, err := d.Select(ctx, SelectConfig{
		Message: "Export",
		Options: []string{"ZIP of SVG files", "ZIP of PNG files", "PDF label sheet"},
	})
	if err != nil {
		return "", err
	}
	plan.BatchAs = batchOutputs[idx]

	switch plan.BatchAs {
	case app.AsZipPNG:
		if plan.Size, err = askSize(ctx, d, s.Config().Export.ArchiveSize); err != nil {
			return "", err
		}
	case app.AsSheet:
		if err := askSheet(ctx, d, s); err != nil {
			return "", err
		}
	}
	return s.DescribeBatch(plan.BatchAs).FileName, nil
}

func askSize(ctx context.Context, d Driver, def int) (int, error) {
	names := make([]string, len(export.Sizes))
	for i, n := range export.Sizes {
		names[i] = fmt.Sprintf("%dpx", n)
	}
	idx, err := d.Select(ctx, SelectConfig{
		Message:      "Size",
		Options:      names,
		DefaultIndex: indexOf(export.Sizes, def),
	})
	if err != nil {
		return 0, err
	}
	return export.Sizes[idx], nil
}

func askSheet(ctx context.Context, d Driver, s *app.Session) error {
	opts := s.Labels()

	presets := labels.Presets()
	names := make([]string, len(presets))
	ids := make([]string, len(presets))
	for i, p := range presets {
		names[i], ids[i] = p.Name, p.ID
	}
	idx, err := d.Select(ctx, SelectConfig{Message: "Label size", Options: names, DefaultIndex: indexOf(ids, opts.Preset)})
	if err != nil {
		return err
	}
	opts.Preset = ids[idx]

	if opts.Preset == labels.PresetCustom {
		if opts.LabelWidth, err = askLength(ctx, d, "Label width (mm)", opts.LabelWidth); err != nil {
			return err
		}
		if opts.LabelHeight, err = askLength(ctx, d, "Label height (mm)", opts.LabelHeight); err != nil {
			return err
		}
	}

	sizes := labels.PageSizes()
	names = make([]string, len(sizes))
	ids = make([]string, len(sizes))
	for i, p := range sizes {
		names[i], ids[i] = p.Name, p.ID
	}
	if idx, err = d.Select(ctx, SelectConfig{Message: "Page size", Options: names, DefaultIndex: indexOf(ids, opts.PageSize)}); err != nil {
		return err
	}
	opts.PageSize = ids[idx]

	if idx, err = d.Select(ctx, SelectConfig{
		Message:      "Orientation",
		Options:      []string{"Portrait", "Landscape"},
		DefaultIndex: indexOf(orientations, opts.Orientation),
	}); err != nil {
		return err
	}
	opts.Orientation = orientations[idx]

	return s.SetLabels(opts)
}

func askLength(ctx context.Context, d Driver, msg string, def float64) (float64, error) {
	raw, err := d.Input(ctx, InputConfig{
		Message: msg,
		Default: strconv.FormatFloat(def, 'f', -1, 64),
		Validator: func(v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	return f, nil
}

func indexOf[T comparable](items []T, v T) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return 0
}
