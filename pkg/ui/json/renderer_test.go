package json_test

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/ui/display"
	"github.com/genomicx/qrx/pkg/ui/json"
)

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	report := &display.BatchReport{
		Format:  "code128",
		Items:   []display.BatchRow{{Line: 1, Value: "A", Kind: batch.KindRendered}},
		Summary: batch.Summary{Total: 1, Rendered: 1},
	}
	require.NoError(t, json.New(&buf).RenderResult(report))

	var got map[string]interface{}
	require.NoError(t, stdjson.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "code128", got["format"])
	items := got["items"].([]interface{})
	assert.Equal(t, "rendered", items[0].(map[string]interface{})["kind"])
	assert.NotContains(t, buf.String(), "preview", "empty previews are omitted")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	err := fmt.Errorf("cmd: %w", errors.New(errors.ErrNotFound, "unknown format").WithDetail("format", "aztec"))
	require.NoError(t, json.New(&buf).RenderError(err))

	var got struct {
		Error json.ErrorBody `json:"error"`
	}
	require.NoError(t, stdjson.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, errors.ErrNotFound, got.Error.Code)
	assert.Equal(t, "unknown format", got.Error.Message)
	assert.Equal(t, "aztec", got.Error.Details["format"])
}

func TestRenderMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.New(&buf).RenderMessage("done"))
	assert.JSONEq(t, `{"message":"done"}`, buf.String())
}
