package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/render"
)

// Show renders the merged configuration as TOML
func (c *Config) Show() (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c.k.Raw()); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.String(), nil
}

// Keys lists every dotted key that is set
func (c *Config) Keys() []string {
	return c.k.Keys()
}

// Caption returns the parsed default caption setting
func (c *Config) Caption() render.Caption {
	caption, _ := render.ParseCaption(c.Defaults.Caption)
	return caption
}

// FormatOptions returns a copy of the configured option defaults for a format
func (c *Config) FormatOptions(id string) map[string]string {
	out := map[string]string{}
	for k, v := range c.Options[id] {
		out[k] = v
	}
	return out
}

// Item builds a render template for format id with the configured options
// and caption. Explicit selections win over the configured ones.
func (c *Config) Item(id string, selected map[string]string) (render.Item, error) {
	f, ok := formats.Get(id)
	if !ok {
		return render.Item{}, errors.Newf(errors.ErrNotFound, "unknown format %q", id).
			WithDetail("format", id)
	}
	merged := c.FormatOptions(f.ID)
	for k, v := range selected {
		merged[k] = v
	}
	opts, err := formats.ParseOptions(f, merged)
	if err != nil {
		return render.Item{}, err
	}
	return render.Item{Format: f, Options: opts, Caption: c.Caption()}, nil
}

// Init writes the default config file to path. An existing file is kept
// unless force is set.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Newf(errors.ErrAlreadyExists, "config file %s already exists (use --force to overwrite)", path).
			WithDetail("path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}
