package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomicx/qrx/pkg/config"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/render"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "qrcode", cfg.Defaults.Format)
	assert.Equal(t, render.CaptionAuto, cfg.Caption())
	assert.Equal(t, 4, cfg.Defaults.Scale)
	assert.Equal(t, 1024, cfg.Export.Size)
	assert.Equal(t, 512, cfg.Export.ArchiveSize)
	assert.Equal(t, "png", cfg.Export.RasterFormat)
	assert.Equal(t, 400*time.Millisecond, cfg.Batch.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Serve.ReadTimeout)
	assert.Equal(t, labels.DefaultOptions(), cfg.PDF)
	assert.Equal(t, map[string]string{"eclevel": "M"}, cfg.FormatOptions("qrcode"))
	assert.Empty(t, cfg.Source)
}

func TestLoadLayers(t *testing.T) {
	path := writeFile(t, "config.toml", `
[defaults]
format = "code128"
caption = "off"

[options.code128]
barheight = "20"

[pdf]
preset = "large_label"
orientation = "landscape"
`)
	t.Setenv("QRX_DEFAULTS__SCALE", "6")
	t.Setenv("QRX_PDF__PAGE_SIZE", "letter")
	t.Setenv("QRX_BATCH__DEBOUNCE", "1s")

	cfg, err := config.Load(config.LoadOptions{
		Path:      path,
		Overrides: map[string]interface{}{"defaults.format": "ean13"},
	})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "ean13", cfg.Defaults.Format, "overrides win")
	assert.Equal(t, render.CaptionOff, cfg.Caption())
	assert.Equal(t, 6, cfg.Defaults.Scale, "env beats defaults")
	assert.Equal(t, time.Second, cfg.Batch.Debounce)
	assert.Equal(t, "letter", cfg.PDF.PageSize)
	assert.Equal(t, labels.Landscape, cfg.PDF.Orientation)
	assert.Equal(t, "large_label", cfg.PDF.Preset)
	assert.Equal(t, 10.0, cfg.PDF.Margin, "untouched keys keep defaults")
	assert.Equal(t, "20", cfg.FormatOptions("code128")["barheight"])
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "defaults:\n  format: datamatrix\nexport:\n  size: 256\n")
	cfg, err := config.Load(config.LoadOptions{Path: path, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "datamatrix", cfg.Defaults.Format)
	assert.Equal(t, 256, cfg.Export.Size)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
		key     string
	}{
		{"syntax", "[defaults\n", errors.ErrConfigParse, ""},
		{"unknown format", "[defaults]\nformat = \"aztec\"\n", errors.ErrConfigParse, "defaults.format"},
		{"bad caption", "[defaults]\ncaption = \"sometimes\"\n", errors.ErrConfigParse, "defaults.caption"},
		{"bad option", "[options.qrcode]\neclevel = \"Z\"\n", errors.ErrConfigParse, "options.qrcode"},
		{"unknown option", "[options.ean13]\nbarheight = \"10\"\n", errors.ErrConfigParse, "options.ean13"},
		{"odd size", "[export]\nsize = 300\n", errors.ErrConfigParse, "export.size"},
		{"label too big", "[pdf]\npreset = \"custom\"\nlabel_width = 500.0\n", errors.ErrConfigParse, "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.toml", tt.content)
			_, err := config.Load(config.LoadOptions{Path: path, SkipEnv: true})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)

			if tt.key != "" {
				var qe *errors.QrxError
				require.ErrorAs(t, err, &qe)
				assert.Equal(t, tt.key, qe.Details["key"])
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	_, err := config.Load(config.LoadOptions{Path: missing})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := config.Load(config.LoadOptions{SkipEnv: true})
	require.NoError(t, err, "a missing default file is fine")
	assert.Empty(t, cfg.Source)
}

func TestPathEnv(t *testing.T) {
	path := writeFile(t, "alt.toml", "[defaults]\nformat = \"code39\"\n")
	t.Setenv(config.PathEnv, path)
	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "code39", cfg.Defaults.Format)
}

func TestShow(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{
		NoFile:    true,
		SkipEnv:   true,
		Overrides: map[string]interface{}{"output.format": "json"},
	})
	require.NoError(t, err)

	out, err := cfg.Show()
	require.NoError(t, err)
	assert.Contains(t, out, "[output]")
	assert.Regexp(t, `format = ['"]json['"]`, out)
	assert.Contains(t, cfg.Keys(), "pdf.page_size")
}

func TestItem(t *testing.T) {
	cfg := config.Default()

	item, err := cfg.Item("qrcode", map[string]string{"eclevel": "H"})
	require.NoError(t, err)
	assert.Equal(t, "H", item.Options["eclevel"])
	assert.Equal(t, render.CaptionAuto, item.Caption)

	item, err = cfg.Item("code128", nil)
	require.NoError(t, err)
	assert.Equal(t, "10", item.Options["barheight"])

	_, err = cfg.Item("aztec", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, err = cfg.Item("qrcode", map[string]string{"eclevel": "X"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qrx", "config.toml")
	require.NoError(t, config.Init(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultContent(), string(data))
	assert.True(t, strings.HasPrefix(string(data), "# qrx configuration"))

	err = config.Init(path, false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	assert.NoError(t, config.Init(path, true))

	cfg, err := config.Load(config.LoadOptions{Path: path, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
}
