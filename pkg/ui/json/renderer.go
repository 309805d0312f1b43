// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/genomicx/qrx/pkg/errors"
)

// Renderer writes indented JSON documents, one per call
type Renderer struct {
	encoder *json.Encoder
}

// New creates a JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// RenderResult renders any result type as JSON
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// ErrorBody is the JSON shape of an error
type ErrorBody struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewErrorBody extracts code, message and details from err
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Code: errors.GetErrorCode(err), Message: errors.UserMessage(err)}
	if d := errors.DetailsOf(err); len(d) > 0 {
		body.Details = d
	}
	return body
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]ErrorBody{"error": NewErrorBody(err)})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
