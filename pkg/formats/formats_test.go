package formats_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, id string) formats.FormatDescriptor {
	t.Helper()
	f, ok := formats.Get(id)
	require.True(t, ok, "format %s should exist", id)
	return f
}

func TestCatalogOrderAndGroups(t *testing.T) {
	assert.Equal(t,
		[]string{"datamatrix", "qrcode", "code128", "code39", "ean13", "gs1_128"},
		formats.IDs())

	groups := formats.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "2D Matrix", groups[0].Label)
	assert.Equal(t, []string{"datamatrix", "qrcode"}, groups[0].Formats)
	assert.Equal(t, "1D Linear", groups[1].Label)

	for _, g := range groups {
		for _, id := range g.Formats {
			f := mustGet(t, id)
			assert.Equal(t, g.Label, f.Group)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	_, ok := formats.Get("pdf417")
	assert.False(t, ok)
	assert.Equal(t, formats.DefaultPlaceholder, formats.Placeholder("pdf417"))
}

func TestCaptionDefaults(t *testing.T) {
	assert.False(t, mustGet(t, "datamatrix").ShowTextDefault)
	assert.False(t, mustGet(t, "qrcode").ShowTextDefault)
	for _, id := range []string{"code128", "code39", "ean13", "gs1_128"} {
		assert.True(t, mustGet(t, id).ShowTextDefault, id)
	}
}

func TestPlaceholdersAreValid(t *testing.T) {
	for _, f := range formats.All() {
		t.Run(f.ID, func(t *testing.T) {
			assert.Equal(t, "", f.Validate(formats.Placeholder(f.ID)))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		text    string
		wantErr string
	}{
		{"datamatrix ok", "datamatrix", "SAMPLE-2025-001", ""},
		{"datamatrix empty", "datamatrix", "", "Enter text to encode"},
		{"datamatrix limit", "datamatrix", strings.Repeat("a", 2335), ""},
		{"datamatrix too long", "datamatrix", strings.Repeat("a", 2336), "Data Matrix supports up to 2,335 characters"},
		{"qrcode limit", "qrcode", strings.Repeat("a", 4296), ""},
		{"qrcode too long", "qrcode", strings.Repeat("a", 4297), "QR Code supports up to 4,296 characters"},
		{"code128 ABC123", "code128", "ABC123", ""},
		{"code128 too long", "code128", strings.Repeat("x", 81), "Keep Code 128 under 80 characters for reliable scanning"},
		{"code39 lower case is upper-cased", "code39", "sample 001", ""},
		{"code39 bad char", "code39", "sample_001", "Code 39 supports: A-Z, 0-9, - . $ / + % and space"},
		{"code39 too long", "code39", strings.Repeat("A", 41), "Keep Code 39 under 40 characters for reliable scanning"},
		{"ean13 twelve digits", "ean13", "590123456789", ""},
		{"ean13 thirteen digits with spaces", "ean13", "5 901234 123457", ""},
		{"ean13 ABC123", "ean13", "ABC123", "EAN-13 requires exactly 12 or 13 digits"},
		{"ean13 empty", "ean13", "", "Enter 12 or 13 digits"},
		{"ean13 eleven digits", "ean13", "12345678901", "EAN-13 requires exactly 12 or 13 digits"},
		{"gs1 ok", "gs1_128", "(01)09501101530003(17)250101", ""},
		{"gs1 too long", "gs1_128", strings.Repeat("1", 49), "GS1-128 should be under 48 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, mustGet(t, tt.format).Validate(tt.text))
		})
	}
}

func TestABC123AcrossFormats(t *testing.T) {
	assert.False(t, mustGet(t, "ean13").Valid("ABC123"))
	assert.True(t, mustGet(t, "code128").Valid("ABC123"))
}

func TestParseOptions(t *testing.T) {
	qr := mustGet(t, "qrcode")

	got, err := formats.ParseOptions(qr, map[string]string{"eclevel": "H"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"eclevel": "H"}, got)

	_, err = formats.ParseOptions(qr, map[string]string{"eclevel": "Z"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = formats.ParseOptions(qr, map[string]string{"barheight": "10"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	dm := mustGet(t, "datamatrix")
	got, err = formats.ParseOptions(dm, map[string]string{"dmsize": ""})
	require.NoError(t, err)
	assert.Equal(t, "", got["dmsize"])
}

func TestParseOptionPairs(t *testing.T) {
	got, err := formats.ParseOptionPairs([]string{"eclevel=H", " barheight = 15 ", "dmsize"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"eclevel": "H", "barheight": "15", "dmsize": ""}, got)

	_, err = formats.ParseOptionPairs([]string{"=H"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestResolveFillsDefaults(t *testing.T) {
	gs1 := mustGet(t, "gs1_128")
	assert.Equal(t, map[string]string{"barheight": "15"}, gs1.Resolve(nil))
	assert.Equal(t, map[string]string{"barheight": "25"}, gs1.Resolve(map[string]string{"barheight": "25"}))
	assert.Empty(t, mustGet(t, "ean13").Resolve(map[string]string{"x": "y"}))
}

func TestOptionKindString(t *testing.T) {
	assert.Equal(t, "choice", formats.KindChoice.String())
}

func TestOptionKindJSON(t *testing.T) {
	opt, ok := mustGet(t, "qrcode").Option(formats.OptECLevel)
	require.True(t, ok)

	data, err := json.Marshal(opt)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"choice"`)

	var back formats.OptionDescriptor
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, formats.KindChoice, back.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"slider"}`), &back))
}

func TestChoiceLabel(t *testing.T) {
	opt, ok := mustGet(t, "datamatrix").Option(formats.OptDMSize)
	require.True(t, ok)
	assert.Equal(t, "Auto", opt.ChoiceLabel(""))
	assert.Equal(t, "8x18 (rect)", opt.ChoiceLabel("8x18"))
	assert.Equal(t, "9x9", opt.ChoiceLabel("9x9"))
}
