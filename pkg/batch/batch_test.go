package batch_test

import (
	stderrors "errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPreviewer fails for any value listed in fail
type stubPreviewer struct {
	fail  map[string]bool
	calls []string
}

func (s *stubPreviewer) Preview(item render.Item) (*image.RGBA, error) {
	s.calls = append(s.calls, item.Text)
	if s.fail[item.Text] {
		return nil, errors.Wrap(stderrors.New("boom"), errors.ErrEncodeFailed, "Could not generate barcode")
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func template(t *testing.T, id string) render.Item {
	t.Helper()
	f, ok := formats.Get(id)
	require.True(t, ok)
	return render.Item{Format: f}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"blank lines dropped", "a\n\n  \nb\n", []string{"a", "b"}},
		{"crlf", "one\r\ntwo\r\n", []string{"one", "two"}},
		{"trimmed", "  padded  \n\ttabbed\t", []string{"padded", "tabbed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, batch.ParseInput(tt.raw))
		})
	}
}

func TestPartitionKeepsPositions(t *testing.T) {
	valid, invalid := batch.Partition(template(t, "ean13"), []string{"ABC123", "590123456789", "12", "5901234123457"})

	assert.Equal(t, []batch.Candidate{{Index: 1, Value: "590123456789"}, {Index: 3, Value: "5901234123457"}}, valid)
	require.Len(t, invalid, 2)
	assert.Equal(t, 0, invalid[0].Index)
	assert.Equal(t, 2, invalid[1].Index)
	assert.Equal(t, "EAN-13 requires exactly 12 or 13 digits", invalid[0].Reason)
}

func TestRunCountAndOrder(t *testing.T) {
	raw := strings.Join([]string{
		"590123456789",
		"",
		"not digits",
		"5901234123457",
		"   ",
		"400638133393",
		"bad",
	}, "\n")

	prev := &stubPreviewer{fail: map[string]bool{"5901234123457": true}}
	res := batch.New(prev).Run(template(t, "ean13"), raw)

	values := batch.ParseInput(raw)
	require.Len(t, res.Items, len(values), "one result per candidate")
	for i, it := range res.Items {
		assert.Equal(t, i, it.Index)
		assert.Equal(t, values[i], it.Value)
	}

	kinds := []batch.Kind{}
	for _, it := range res.Items {
		kinds = append(kinds, it.Kind)
	}
	assert.Equal(t, []batch.Kind{
		batch.KindRendered,
		batch.KindValidationError,
		batch.KindGenerationError,
		batch.KindRendered,
		batch.KindValidationError,
	}, kinds)

	assert.Equal(t, "Could not generate barcode", res.Items[2].Error)
	assert.NotNil(t, res.Items[0].Image)
	assert.Nil(t, res.Items[1].Image)
	assert.Equal(t, batch.Summary{Total: 5, Rendered: 2, Failed: 1, Invalid: 2}, res.Summary)
	assert.Equal(t, "ean13", res.Format)

	assert.Equal(t, []string{"590123456789", "5901234123457", "400638133393"}, prev.calls, "only valid values are rendered")
}

func TestGeneratePassesTemplateOptions(t *testing.T) {
	var seen []render.Item
	prev := previewFunc(func(it render.Item) (*image.RGBA, error) {
		seen = append(seen, it)
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	})
	tmpl := template(t, "qrcode")
	tmpl.Options = map[string]string{"eclevel": "H"}
	tmpl.Caption = render.CaptionOn

	batch.New(prev).Generate(tmpl, []batch.Candidate{{Index: 0, Value: "a"}, {Index: 1, Value: "b"}})

	require.Len(t, seen, 2)
	assert.Equal(t, "b", seen[1].Text)
	assert.Equal(t, "H", seen[1].Options["eclevel"])
	assert.Equal(t, render.CaptionOn, seen[1].Caption)
}

type previewFunc func(render.Item) (*image.RGBA, error)

func (f previewFunc) Preview(it render.Item) (*image.RGBA, error) { return f(it) }

func TestMergeIsStable(t *testing.T) {
	merged := batch.Merge(
		[]batch.Item{{Index: 3, Kind: batch.KindRendered}, {Index: 0, Kind: batch.KindRendered}},
		[]batch.Invalid{{Candidate: batch.Candidate{Index: 1}}, {Candidate: batch.Candidate{Index: 2}}},
	)
	idx := []int{}
	for _, it := range merged {
		idx = append(idx, it.Index)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, idx)
}

func TestValidValues(t *testing.T) {
	assert.Equal(t, []string{"A B", "C"}, batch.ValidValues(template(t, "code39"), []string{"A B", "a_b", "C"}))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "values.TXT")
	require.NoError(t, os.WriteFile(txt, []byte("a\nb\n"), 0644))
	got, err := batch.ReadFile(txt)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)

	_, err = batch.ReadFile(filepath.Join(dir, "values.xlsx"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedFile))

	_, err = batch.ReadFile(filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileRead))
}

func TestReadAll(t *testing.T) {
	got, err := batch.ReadAll(strings.NewReader("x\ny"))
	require.NoError(t, err)
	assert.Equal(t, "x\ny", got)
}
