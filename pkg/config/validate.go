package config

import (
	"sort"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/export"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/render"
)

// MaxScale bounds defaults.scale
const MaxScale = 50

// Validate checks every value against the format catalog and the export
// constraints. The first problem is returned as CONFIG_PARSE with the
// offending key in its details.
func (c *Config) Validate() error {
	if _, ok := formats.Get(c.Defaults.Format); !ok {
		return invalid("defaults.format", errors.Newf(errors.ErrInvalidInput, "unknown format %q", c.Defaults.Format))
	}
	if _, err := render.ParseCaption(c.Defaults.Caption); err != nil {
		return invalid("defaults.caption", err)
	}
	if c.Defaults.Scale < 1 || c.Defaults.Scale > MaxScale {
		return invalid("defaults.scale", errors.Newf(errors.ErrInvalidInput, "scale must be between 1 and %d", MaxScale))
	}

	ids := make([]string, 0, len(c.Options))
	for id := range c.Options {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		f, ok := formats.Get(id)
		if !ok {
			return invalid("options."+id, errors.Newf(errors.ErrInvalidInput, "unknown format %q", id))
		}
		if _, err := formats.ParseOptions(f, c.Options[id]); err != nil {
			return invalid("options."+id, err)
		}
	}

	if err := export.CheckSize(c.Export.Size); err != nil {
		return invalid("export.size", err)
	}
	if err := export.CheckSize(c.Export.ArchiveSize); err != nil {
		return invalid("export.archive_size", err)
	}
	if _, err := export.ParseRasterFormat(c.Export.RasterFormat); err != nil {
		return invalid("export.raster_format", err)
	}
	if _, err := labels.NewLayout(c.PDF); err != nil {
		return invalid("pdf", err)
	}
	if c.Batch.Debounce < 0 {
		return invalid("batch.debounce", errors.New(errors.ErrInvalidInput, "debounce must not be negative"))
	}
	if c.Serve.MaxBatch < 1 {
		return invalid("serve.max_batch", errors.New(errors.ErrInvalidInput, "max_batch must be at least 1"))
	}
	return nil
}

func invalid(key string, err error) error {
	return errors.Wrapf(err, errors.ErrConfigParse, "invalid %s: %s", key, errors.UserMessage(err)).
		WithDetail("key", key)
}
