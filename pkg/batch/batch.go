// Package batch runs many values through one format: it splits raw input
// into candidates, partitions them by validation, renders the valid ones and
// merges everything back in input order.
package batch

import (
	"image"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/render"
)

// Kind is the outcome of one batch item
type Kind string

const (
	KindRendered        Kind = "rendered"
	KindGenerationError Kind = "generation_error"
	KindValidationError Kind = "validation_error"
)

// Candidate is a parsed input value and its 0-based position
type Candidate struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// Invalid is a candidate rejected by validation
type Invalid struct {
	Candidate
	Reason string `json:"reason"`
}

// Item is one entry of a batch result
type Item struct {
	Index int         `json:"index"`
	Value string      `json:"value"`
	Kind  Kind        `json:"kind"`
	Error string      `json:"error,omitempty"`
	Image *image.RGBA `json:"-"`
}

// OK reports whether the item was rendered
func (i Item) OK() bool {
	return i.Kind == KindRendered
}

// Summary counts items per outcome
type Summary struct {
	Total    int `json:"total"`
	Rendered int `json:"rendered"`
	Failed   int `json:"failed"`
	Invalid  int `json:"invalid"`
}

// Result is a merged batch
type Result struct {
	Format  string  `json:"format"`
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

// Previewer renders one item at preview magnification
type Previewer interface {
	Preview(item render.Item) (*image.RGBA, error)
}

// ParseInput splits raw text into trimmed, non-empty lines
func ParseInput(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Partition validates every value, keeping its original position
func Partition(tmpl render.Item, values []string) (valid []Candidate, invalid []Invalid) {
	for i, v := range values {
		c := Candidate{Index: i, Value: v}
		if reason := tmpl.Format.Validate(v); reason != "" {
			invalid = append(invalid, Invalid{Candidate: c, Reason: reason})
			continue
		}
		valid = append(valid, c)
	}
	return valid, invalid
}

// ValidValues returns the values that pass validation, in order
func ValidValues(tmpl render.Item, values []string) []string {
	valid, _ := Partition(tmpl, values)
	out := make([]string, len(valid))
	for i, c := range valid {
		out[i] = c.Value
	}
	return out
}

// Orchestrator drives a previewer over batches
type Orchestrator struct {
	renderer Previewer
	logger   zerolog.Logger
}

// New creates an orchestrator
func New(r Previewer) *Orchestrator {
	return &Orchestrator{
		renderer: r,
		logger:   logging.GetLogger("batch"),
	}
}

// Generate renders every valid candidate. A failing value becomes a
// generation-error item and never stops the rest.
func (o *Orchestrator) Generate(tmpl render.Item, valid []Candidate) []Item {
	items := make([]Item, 0, len(valid))
	for _, c := range valid {
		it := tmpl
		it.Text = c.Value
		img, err := o.renderer.Preview(it)
		if err != nil {
			o.logger.Debug().Err(err).Int("index", c.Index).Str("value", c.Value).Msg("Batch item failed")
			items = append(items, Item{Index: c.Index, Value: c.Value, Kind: KindGenerationError, Error: errors.UserMessage(err)})
			continue
		}
		items = append(items, Item{Index: c.Index, Value: c.Value, Kind: KindRendered, Image: img})
	}
	return items
}

// Merge combines generated and invalid items ordered by original position
func Merge(generated []Item, invalid []Invalid) []Item {
	out := make([]Item, 0, len(generated)+len(invalid))
	out = append(out, generated...)
	for _, inv := range invalid {
		out = append(out, Item{Index: inv.Index, Value: inv.Value, Kind: KindValidationError, Error: inv.Reason})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Run parses raw input and produces the merged result
func (o *Orchestrator) Run(tmpl render.Item, raw string) Result {
	done := logging.LogOperationStart(o.logger, "batch")
	defer done()

	values := ParseInput(raw)
	valid, invalid := Partition(tmpl, values)
	items := Merge(o.Generate(tmpl, valid), invalid)

	o.logger.Info().
		Str("format", tmpl.Format.ID).
		Int("candidates", len(values)).
		Int("valid", len(valid)).
		Int("invalid", len(invalid)).
		Msg("Batch generated")

	return Result{Format: tmpl.Format.ID, Items: items, Summary: Summarize(items)}
}

// Summarize counts item outcomes
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.Kind {
		case KindRendered:
			s.Rendered++
		case KindGenerationError:
			s.Failed++
		case KindValidationError:
			s.Invalid++
		}
	}
	return s
}
