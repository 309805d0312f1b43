package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/genomicx/qrx/pkg/app"
	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/export"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/render"
	"github.com/genomicx/qrx/pkg/ui/display"
)

// Selection is the part of every request that configures the session
type Selection struct {
	Format  string            `json:"format"`
	Options map[string]string `json:"options,omitempty"`
	Caption string            `json:"caption,omitempty"`
	PDF     *labels.Options   `json:"pdf,omitempty"`
}

// ValidateRequest checks one value
type ValidateRequest struct {
	Format string `json:"format"`
	Text   string `json:"text"`
}

// ValidateResponse is the outcome of a check
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// RenderRequest renders one value as a download
type RenderRequest struct {
	Selection
	Text string `json:"text"`
	As   string `json:"as"`
	Size int    `json:"size,omitempty"`
}

// BatchRequest previews newline separated values
type BatchRequest struct {
	Selection
	Input string `json:"input"`
}

// ExportRequest packages newline separated values
type ExportRequest struct {
	Selection
	Input string `json:"input"`
	As    string `json:"as"`
	Size  int    `json:"size,omitempty"`
}

// Catalog is the GET /formats body
type Catalog struct {
	Groups  []formats.Group            `json:"groups"`
	Formats []formats.FormatDescriptor `json:"formats"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (s *Server) listFormats(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, Catalog{Groups: formats.Groups(), Formats: formats.All()})
	return nil
}

func (s *Server) getFormat(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["id"]
	f, ok := formats.Get(id)
	if !ok {
		return errors.Newf(errors.ErrNotFound, "unknown format %q", id).WithDetail("format", id)
	}
	writeJSON(w, http.StatusOK, display.NewFormatDetail(f))
	return nil
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) error {
	var req ValidateRequest
	if err := decode(r, w, &req); err != nil {
		return err
	}
	sess, err := s.open(Selection{Format: req.Format})
	if err != nil {
		return err
	}
	msg := sess.Validate(req.Text)
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: msg == "", Message: msg})
	return nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) error {
	var req RenderRequest
	if err := decode(r, w, &req); err != nil {
		return err
	}
	sess, err := s.open(req.Selection)
	if err != nil {
		return err
	}
	as, err := sess.ResolveSingle(req.As, req.Size)
	if err != nil {
		return err
	}
	if err := checkSize(as == app.AsPNG || as == app.AsJPEG, req.Size); err != nil {
		return err
	}

	// the pdf exporter writes before it knows the outcome
	var buf bytes.Buffer
	art, err := sess.Export(&buf, req.Text, as, req.Size)
	if err != nil {
		return err
	}
	return download(w, art, buf.Bytes())
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) error {
	var req BatchRequest
	if err := decode(r, w, &req); err != nil {
		return err
	}
	sess, err := s.open(req.Selection)
	if err != nil {
		return err
	}
	if err := s.checkBatch(req.Input); err != nil {
		return err
	}

	res := sess.Batch(req.Input)
	previews := make(map[int]string)
	for _, it := range res.Items {
		if !it.OK() || it.Image == nil {
			continue
		}
		var buf bytes.Buffer
		if err := export.EncodeImage(&buf, it.Image, export.PNG); err != nil {
			return err
		}
		previews[it.Index] = "data:" + app.ContentPNG + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	}
	writeJSON(w, http.StatusOK, display.NewBatchReport(res, previews))
	return nil
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) error {
	var req ExportRequest
	if err := decode(r, w, &req); err != nil {
		return err
	}
	sess, err := s.open(req.Selection)
	if err != nil {
		return err
	}
	as, err := app.ParseBatchFormat(orDefault(req.As, string(app.AsZipSVG)))
	if err != nil {
		return err
	}
	if err := checkSize(as == app.AsZipPNG, req.Size); err != nil {
		return err
	}
	if err := s.checkBatch(req.Input); err != nil {
		return err
	}

	var buf bytes.Buffer
	art, err := sess.ExportBatch(&buf, req.Input, as, req.Size)
	if err != nil {
		return err
	}
	w.Header().Set("X-Qrx-Written", strconv.Itoa(art.Stats.Written))
	w.Header().Set("X-Qrx-Skipped", strconv.Itoa(art.Stats.Skipped))
	return download(w, art, buf.Bytes())
}

// open builds a session for one request
func (s *Server) open(sel Selection) (*app.Session, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	if sel.Format != "" {
		if err := sess.SetFormat(sel.Format); err != nil {
			return nil, err
		}
	}
	if len(sel.Options) > 0 {
		if err := sess.SetOptions(sel.Options); err != nil {
			return nil, err
		}
	}
	if sel.Caption != "" {
		c, err := render.ParseCaption(sel.Caption)
		if err != nil {
			return nil, err
		}
		sess.SetCaption(c)
	}
	if sel.PDF != nil {
		if err := sess.SetLabels(*sel.PDF); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *Server) checkBatch(input string) error {
	n := len(batch.ParseInput(input))
	if limit := s.cfg.Serve.MaxBatch; n > limit {
		return withStatus(http.StatusRequestEntityTooLarge,
			errors.Newf(errors.ErrInvalidInput, "batch of %d values exceeds the limit of %d", n, limit).
				WithDetail("values", n).
				WithDetail("limit", limit))
	}
	return nil
}

func checkSize(raster bool, size int) error {
	if !raster || size == 0 {
		return nil
	}
	return export.CheckSize(size)
}

func download(w http.ResponseWriter, art app.Artifact, body []byte) error {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(body)
	return err
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
