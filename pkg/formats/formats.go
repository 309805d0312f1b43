// Package formats holds the barcode format catalog: descriptors, option
// schemas, caption defaults, groups, placeholders and per-format validation.
//
// The catalog is static. Descriptors are registered once at init and never
// mutated, so lookups are safe from any goroutine.
package formats

import (
	"fmt"

	"github.com/genomicx/qrx/pkg/registry"
)

// OptionKind tags the shape of an option. Choice is the only kind offered
// today; code that translates options switches on the kind so a new member
// fails loudly instead of being ignored.
type OptionKind int

const (
	// KindChoice is a fixed list of values
	KindChoice OptionKind = iota
)

// MarshalText writes the kind by name
func (k OptionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText reads a kind name
func (k *OptionKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "choice":
		*k = KindChoice
		return nil
	}
	return fmt.Errorf("unknown option kind %q", b)
}

func (k OptionKind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Option identifiers understood by the renderer
const (
	OptECLevel   = "eclevel"
	OptDMSize    = "dmsize"
	OptBarHeight = "barheight"
)

// Group names in display order
const (
	Group2D = "2D Matrix"
	Group1D = "1D Linear"
)

// DefaultPlaceholder is shown for unknown ids
const DefaultPlaceholder = "Enter text to encode"

// Choice is one selectable option value
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionDescriptor describes a user-tunable encoder option
type OptionDescriptor struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Kind    OptionKind `json:"kind"`
	Choices []Choice   `json:"choices"`
	Default string     `json:"default"`
}

// Allows reports whether v is one of the option's choices
func (o OptionDescriptor) Allows(v string) bool {
	for _, c := range o.Choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

// ChoiceLabel returns the label for a value, falling back to the value itself
func (o OptionDescriptor) ChoiceLabel(v string) string {
	for _, c := range o.Choices {
		if c.Value == v {
			return c.Label
		}
	}
	return v
}

// Validator returns a user-facing message for invalid text, or "" if valid
type Validator func(text string) string

// FormatDescriptor is the immutable definition of one barcode format
type FormatDescriptor struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Group           string             `json:"group"`
	Description     string             `json:"description"`
	EncoderKey      string             `json:"encoder_key"`
	Options         []OptionDescriptor `json:"options"`
	ShowTextDefault bool               `json:"show_text_default"`
	Placeholder     string             `json:"placeholder"`

	validate Validator
}

// Validate checks text against the format's constraints.
// It returns "" when the text is acceptable.
func (f FormatDescriptor) Validate(text string) string {
	if f.validate == nil {
		return ""
	}
	return f.validate(text)
}

// Valid is shorthand for Validate(text) == ""
func (f FormatDescriptor) Valid(text string) bool {
	return f.Validate(text) == ""
}

// Option looks up an option descriptor by id
func (f FormatDescriptor) Option(id string) (OptionDescriptor, bool) {
	for _, o := range f.Options {
		if o.ID == id {
			return o, true
		}
	}
	return OptionDescriptor{}, false
}

// Is2D reports whether the format is a matrix symbology. Matrix symbols never
// carry a native human-readable line, so captions are composited instead.
func (f FormatDescriptor) Is2D() bool {
	return f.Group == Group2D
}

// Group is an ordered set of format ids shown together
type Group struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Formats []string `json:"formats"`
}

var (
	catalog = registry.New[FormatDescriptor]()
	groups  = []Group{
		{ID: "2d", Label: Group2D, Formats: []string{"datamatrix", "qrcode"}},
		{ID: "1d", Label: Group1D, Formats: []string{"code128", "code39", "ean13", "gs1_128"}},
	}
)

func init() {
	for _, f := range builtins() {
		registry.MustRegister(catalog, f.ID, f)
	}
}

// Get returns the descriptor for id
func Get(id string) (FormatDescriptor, bool) {
	f, err := catalog.Get(id)
	if err != nil {
		return FormatDescriptor{}, false
	}
	return f, true
}

// All returns every descriptor in catalog order
func All() []FormatDescriptor {
	return catalog.All()
}

// IDs returns every format id in catalog order
func IDs() []string {
	return catalog.List()
}

// Groups returns the display groups in order
func Groups() []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

// Placeholder returns the example value for a format id
func Placeholder(id string) string {
	if f, ok := Get(id); ok && f.Placeholder != "" {
		return f.Placeholder
	}
	return DefaultPlaceholder
}
