package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"net/http"
	"path"

	"github.com/Law4Us/Law4Us-sub002/internal/overlay"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

type calibrationQuery struct {
	Page   string `form:"page"`
	Step   int    `form:"step"`
	Layout string `form:"layout"`
}

type formResponse struct {
	Pages []types.Payload `json:"pages"`
}

// handleGetCalibration renders a form page with the coordinate grid, and the field
// anchors of a layout when one is named.
func (s *Service) handleGetCalibration(w http.ResponseWriter, r *http.Request) {
	var q calibrationQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	if q.Page == "" || path.Base(q.Page) != q.Page {
		s.writeError(w, r, badRequest(errors.New("page must be a file name")))
		return
	}
	if s.pages == nil {
		s.writeError(w, r, &types.ConfigError{Resource: "form pages", Identifier: "FORM_TEMPLATE_DIR"})
		return
	}

	data, err := fs.ReadFile(s.pages, q.Page)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
		s.writeError(w, r, err)
		return
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("decode form page %s: %w", q.Page, err))
		return
	}

	var page *overlay.PageLayout
	if q.Layout != "" {
		l, err := overlay.DefaultLayout(q.Layout)
		if err != nil {
			s.writeError(w, r, badRequest(err))
			return
		}
		page = l.Page(q.Page)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, overlay.Calibrate(src, q.Step, page)); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeFile(w, "", "image/png", buf.Bytes())
}

// handlePostForm4 fills Form 4 for the posted submission and returns the pages as
// base64 PNG images.
func (s *Service) handlePostForm4(w http.ResponseWriter, r *http.Request) {
	if s.forms == nil {
		s.writeError(w, r, &types.ConfigError{Resource: "form pages", Identifier: "FORM_TEMPLATE_DIR"})
		return
	}

	sub, err := s.decodeSubmission(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sub.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	pages, err := s.forms.Fill(sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := formResponse{Pages: make([]types.Payload, len(pages))}
	for i, p := range pages {
		resp.Pages[i] = types.Payload(p)
	}
	s.writeJSON(w, http.StatusOK, resp)
}
