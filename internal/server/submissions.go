package server

import (
	"fmt"
	"net/http"

	"github.com/alexedwards/flow"

	"github.com/Law4Us/Law4Us-sub002/internal/utils"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

const downloadCookieName = "download"

type downloadToken struct {
	SubmissionID string          `json:"s"`
	Claim        types.ClaimType `json:"c"`
}

type documentView struct {
	*types.GeneratedDocument
	DownloadURL string `json:"downloadUrl"`
}

type documentsResponse struct {
	SubmissionID string          `json:"submissionId"`
	Documents    []*documentView `json:"documents"`
}

type previewQuery struct {
	Claim string `form:"claim"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}

func (s *Service) handlePostSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.decodeSubmission(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	receipt, err := s.filing.Submit(r.Context(), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views, err := s.documentViews(receipt.Documents)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, documentsResponse{
		SubmissionID: receipt.SubmissionID,
		Documents:    views,
	})
}

func (s *Service) handleGetDocuments(w http.ResponseWriter, r *http.Request) {
	submissionID := flow.Param(r.Context(), "id")
	if !utils.ValidID(submissionID) {
		s.writeError(w, r, badRequest(fmt.Errorf("invalid submission id %q", submissionID)))
		return
	}

	docs, err := s.filing.Documents(r.Context(), submissionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views, err := s.documentViews(docs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, documentsResponse{
		SubmissionID: submissionID,
		Documents:    views,
	})
}

func (s *Service) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	claim, err := types.ParseClaimType(flow.Param(r.Context(), "claim"))
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	submissionID := flow.Param(r.Context(), "id")
	if !utils.ValidID(submissionID) {
		s.writeError(w, r, badRequest(fmt.Errorf("invalid submission id %q", submissionID)))
		return
	}

	s.serveDocument(w, r, submissionID, claim)
}

func (s *Service) handleDownloadToken(w http.ResponseWriter, r *http.Request) {
	var token downloadToken
	err := s.cookie.Decode(downloadCookieName, flow.Param(r.Context(), "token"), &token)
	if err != nil {
		s.logger.WithError(err).Debug("invalid download token")
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	s.serveDocument(w, r, token.SubmissionID, token.Claim)
}

func (s *Service) serveDocument(w http.ResponseWriter, r *http.Request, submissionID string, claim types.ClaimType) {
	record, data, err := s.filing.Download(r.Context(), submissionID, claim)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeFile(w, record.FileName, record.MimeType, data)
}

func (s *Service) handlePostPreview(w http.ResponseWriter, r *http.Request) {
	var q previewQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	claim, err := types.ParseClaimType(q.Claim)
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	sub, err := s.decodeSubmission(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.filing.Preview(r.Context(), sub, claim)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeFile(w, doc.FileName, doc.MIMEType, doc.Data)
}

func (s *Service) documentViews(docs []*types.GeneratedDocument) ([]*documentView, error) {
	views := make([]*documentView, 0, len(docs))
	for _, d := range docs {
		token, err := s.cookie.Encode(downloadCookieName, downloadToken{SubmissionID: d.SubmissionID, Claim: d.ClaimType})
		if err != nil {
			return nil, fmt.Errorf("failed to sign download link: %w", err)
		}
		views = append(views, &documentView{
			GeneratedDocument: d,
			DownloadURL:       "/downloads/" + token,
		})
	}
	return views, nil
}
