package formats

import (
	"sort"
	"strings"

	"github.com/genomicx/qrx/pkg/errors"
)

// ParseOptions checks user selections against the format's option schema.
// Unknown ids and values outside the choice set are rejected.
func ParseOptions(f FormatDescriptor, raw map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(raw))

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := raw[k]
		opt, ok := f.Option(k)
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, "format %s has no option %q", f.ID, k).
				WithDetail("format", f.ID).
				WithDetail("option", k)
		}
		switch opt.Kind {
		case KindChoice:
			if !opt.Allows(v) {
				return nil, errors.Newf(errors.ErrInvalidInput, "invalid value %q for %s (allowed: %s)",
					v, k, strings.Join(choiceValues(opt), ", ")).
					WithDetail("format", f.ID).
					WithDetail("option", k).
					WithDetail("value", v)
			}
		default:
			return nil, errors.Newf(errors.ErrInternal, "option %s has unsupported kind %s", k, opt.Kind)
		}
		out[k] = v
	}
	return out, nil
}

// ParseOptionPairs turns "key=value" strings into a map.
// A bare key maps to the empty value, which selects "Auto" style choices.
func ParseOptionPairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, _ := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "malformed option %q, expected key=value", p)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// Resolve returns the selected value for every option, falling back to the
// option default when the user made no selection.
func (f FormatDescriptor) Resolve(selected map[string]string) map[string]string {
	out := make(map[string]string, len(f.Options))
	for _, o := range f.Options {
		if v, ok := selected[o.ID]; ok {
			out[o.ID] = v
			continue
		}
		out[o.ID] = o.Default
	}
	return out
}

func choiceValues(o OptionDescriptor) []string {
	vals := make([]string, 0, len(o.Choices))
	for _, c := range o.Choices {
		if c.Value == "" {
			vals = append(vals, `""`)
			continue
		}
		vals = append(vals, c.Value)
	}
	return vals
}
