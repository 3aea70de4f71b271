package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/Law4Us/Law4Us-sub002/internal/filing"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// maxBodyBytes bounds request bodies; submissions carry base64 page images.
const maxBodyBytes = 64 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// requestError marks a failure caused by the request itself.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func isBadRequest(err error) bool {
	var re *requestError
	return errors.As(err, &re) ||
		errors.Is(err, types.ErrNoClaims) ||
		errors.Is(err, types.ErrUnknownClaim) ||
		errors.Is(err, types.ErrClaimNotSelected) ||
		errors.Is(err, types.ErrDuplicateClaim) ||
		errors.Is(err, types.ErrInvalidSubmissionID)
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps err to a status. Core failures are logged and reported without detail.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isBadRequest(err):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrSubmissionExists):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "submission already exists"})
	case filing.IsNotFound(err):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "submission failed"})
	}
}

func (s *Service) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

func (s *Service) writeFile(w http.ResponseWriter, fileName, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if fileName != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.WithError(err).Warn("failed to write file response")
	}
}

func (s *Service) decodeSubmission(w http.ResponseWriter, r *http.Request) (*types.Submission, error) {
	var sub types.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&sub); err != nil {
		return nil, badRequest(err)
	}
	return &sub, nil
}
