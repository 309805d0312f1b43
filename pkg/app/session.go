// Package app holds the state of one qrx session: the selected format, the
// single/batch mode, the caption override, option selections and label
// sheet options. Commands and the HTTP API drive every operation through a
// Session instead of package-level variables.
package app

import (
	"image"
	"strings"

	"github.com/rs/zerolog"

	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/config"
	"github.com/genomicx/qrx/pkg/encoder"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/export"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/render"
	"github.com/genomicx/qrx/pkg/symbology"
)

// Mode is single or batch entry
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// ParseMode accepts single or batch
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeBatch:
		return ModeBatch, nil
	}
	return ModeSingle, errors.Newf(errors.ErrInvalidInput, "invalid mode %q (use single or batch)", s)
}

// Session is the mutable state behind one CLI invocation, prompt loop or
// HTTP request. It is not safe for concurrent use.
type Session struct {
	cfg *config.Config

	format     formats.FormatDescriptor
	mode       Mode
	caption    render.Caption
	selections map[string]string
	labels     labels.Options

	renderer *render.Renderer
	exporter *export.Exporter
	batch    *batch.Orchestrator
	logger   zerolog.Logger
}

// New creates a session on the configured default format using enc.
// A nil enc selects the library-backed symbology encoder.
func New(cfg *config.Config, enc encoder.Encoder) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if enc == nil {
		enc = symbology.New()
	}
	r := render.New(enc)
	s := &Session{
		cfg:      cfg,
		mode:     ModeSingle,
		labels:   cfg.PDF,
		renderer: r,
		exporter: export.New(r),
		batch:    batch.New(r),
		logger:   logging.GetLogger("app"),
	}
	if err := s.SetFormat(cfg.Defaults.Format); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the configuration the session was built from
func (s *Session) Config() *config.Config { return s.cfg }

// Renderer exposes the session's render adapter
func (s *Session) Renderer() *render.Renderer { return s.renderer }

// Format returns the selected format
func (s *Session) Format() formats.FormatDescriptor { return s.format }

// SetFormat switches format. Option selections and the caption override
// go back to their configured defaults, since options belong to a format.
func (s *Session) SetFormat(id string) error {
	f, ok := formats.Get(id)
	if !ok {
		return errors.Newf(errors.ErrNotFound, "unknown format %q (available: %s)", id, strings.Join(formats.IDs(), ", ")).
			WithDetail("format", id)
	}
	s.format = f
	s.selections = s.cfg.FormatOptions(f.ID)
	s.caption = s.cfg.Caption()
	s.logger.Debug().Str("format", f.ID).Msg("Format selected")
	return nil
}

// Mode returns the entry mode
func (s *Session) Mode() Mode { return s.mode }

// SetMode switches between single and batch entry
func (s *Session) SetMode(m Mode) { s.mode = m }

// Caption returns the caption override
func (s *Session) Caption() render.Caption { return s.caption }

// SetCaption overrides caption visibility
func (s *Session) SetCaption(c render.Caption) { s.caption = c }

// ShowCaption reports whether renders will carry a caption
func (s *Session) ShowCaption() bool { return s.caption.Show(s.format) }

// SetOption selects one option value for the current format
func (s *Session) SetOption(id, value string) error {
	return s.SetOptions(map[string]string{id: value})
}

// SetOptions merges selections for the current format. Nothing changes
// when any selection is rejected.
func (s *Session) SetOptions(selected map[string]string) error {
	merged := make(map[string]string, len(s.selections)+len(selected))
	for k, v := range s.selections {
		merged[k] = v
	}
	for k, v := range selected {
		merged[k] = v
	}
	parsed, err := formats.ParseOptions(s.format, merged)
	if err != nil {
		return err
	}
	s.selections = parsed
	return nil
}

// Options returns the value of every option of the current format
func (s *Session) Options() map[string]string {
	return s.format.Resolve(s.selections)
}

// Labels returns the label sheet options
func (s *Session) Labels() labels.Options { return s.labels }

// SetLabels replaces the label sheet options after checking they lay out
func (s *Session) SetLabels(opts labels.Options) error {
	if _, err := labels.NewLayout(opts); err != nil {
		return err
	}
	s.labels = opts
	return nil
}

// Layout resolves the current label sheet
func (s *Session) Layout() (labels.Layout, error) {
	return labels.NewLayout(s.labels)
}

// Template is the render item for the current state with no text
func (s *Session) Template() render.Item {
	return render.Item{
		Format:  s.format,
		Options: s.Options(),
		Caption: s.caption,
	}
}

// Item is the render item for text
func (s *Session) Item(text string) render.Item {
	it := s.Template()
	it.Text = text
	return it
}

// Validate returns the validation message for text, empty when valid
func (s *Session) Validate(text string) string {
	return s.format.Validate(text)
}

// Preview renders text at preview scale. Invalid text is refused with its
// validation message before the encoder is called.
func (s *Session) Preview(text string) (*image.RGBA, error) {
	if err := s.check(text); err != nil {
		return nil, err
	}
	return s.renderer.Raster(s.Item(text), s.cfg.Defaults.Scale)
}

// Batch renders every line of raw and reports each outcome in input order
func (s *Session) Batch(raw string) batch.Result {
	return s.batch.Run(s.Template(), raw)
}

// Partition splits raw batch input into valid and invalid values
func (s *Session) Partition(raw string) ([]batch.Candidate, []batch.Invalid) {
	return batch.Partition(s.Template(), batch.ParseInput(raw))
}

func (s *Session) check(text string) error {
	if msg := s.Validate(text); msg != "" {
		return errors.New(errors.ErrInvalidInput, msg).
			WithDetail("format", s.format.ID).
			WithDetail("value", text)
	}
	return nil
}
