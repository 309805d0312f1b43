// Package ui renders command results as rich terminal output, plain text or
// JSON. Results are the view models in pkg/ui/display.
package ui

import (
	"io"
	"os"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/ui/json"
	"github.com/genomicx/qrx/pkg/ui/terminal"
	"github.com/genomicx/qrx/pkg/ui/text"
)

// Renderer is implemented by every output format
type Renderer interface {
	// RenderResult renders a display view model
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output
// when it is a file and falls back to plain text otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown output format: %v", format)
	}
}
