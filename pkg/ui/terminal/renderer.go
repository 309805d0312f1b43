// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/ui/display"
	"github.com/genomicx/qrx/pkg/ui/styles"
	"github.com/genomicx/qrx/pkg/ui/text"
)

// Renderer styles the plain text layout and draws batch reports as tables
type Renderer struct {
	output io.Writer
	text   *text.Renderer
}

// New creates a terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w, text: text.NewStyled(w, styles.Render)}
}

// RenderResult renders a display view model
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.BatchReport:
		return r.batchTable(v)
	default:
		return r.text.RenderResult(result)
	}
}

// RenderError renders an error with the pterm error prefix
func (r *Renderer) RenderError(err error) error {
	code := errors.GetErrorCode(err)
	msg := pterm.Error.MessageStyle.Sprint(errors.UserMessage(err))
	if code != errors.ErrUnknown {
		msg += " " + styles.Render("Muted", "["+string(code)+"]")
	}
	_, werr := fmt.Fprintf(r.output, "%s %s\n", pterm.Error.Prefix.Text, msg)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.text.RenderMessage(msg)
}

// KindStyle colours a batch outcome badge
func KindStyle(k batch.Kind) *pterm.Style {
	switch k {
	case batch.KindRendered:
		return pterm.NewStyle(pterm.FgGreen)
	case batch.KindGenerationError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgYellow)
	}
}

func (r *Renderer) batchTable(v *display.BatchReport) error {
	data := pterm.TableData{{"#", "Status", "Value", "Detail"}}
	for _, it := range v.Items {
		detail := it.Error
		if detail == "" {
			detail = it.Preview
		}
		data = append(data, []string{
			strconv.Itoa(it.Line),
			KindStyle(it.Kind).Sprint(text.KindLabel(it.Kind)),
			it.Value,
			detail,
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	s := v.Summary
	_, err = fmt.Fprintf(r.output, "%s\n%s %d values: %s, %s, %s\n", table,
		pterm.Info.Prefix.Text, s.Total,
		styles.Render("Success", fmt.Sprintf("%d rendered", s.Rendered)),
		styles.Render("Error", fmt.Sprintf("%d failed", s.Failed)),
		styles.Render("Warning", fmt.Sprintf("%d invalid", s.Invalid)))
	return err
}
