// Package filing turns an accepted submission into stored documents: it persists the
// submission, composes one document per selected claim and uploads the results.
package filing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Law4Us/Law4Us-sub002/internal/compose"
	"github.com/Law4Us/Law4Us-sub002/internal/storage"
	"github.com/Law4Us/Law4Us-sub002/internal/utils"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// maxConcurrentUploads bounds the uploads in flight for one submission.
const maxConcurrentUploads = 4

type Generator interface {
	Generate(req compose.Request) (*types.DocumentBuffer, error)
}

type SubmissionStore interface {
	Submission(ctx context.Context, id string) (*types.Submission, error)
	SaveSubmission(ctx context.Context, sub *types.Submission) error
}

type DocumentStore interface {
	DocumentsBySubmission(ctx context.Context, submissionID string) ([]*types.GeneratedDocument, error)
	LatestDocument(ctx context.Context, submissionID string, claim types.ClaimType) (*types.GeneratedDocument, error)
	CreateDocument(ctx context.Context, doc *types.GeneratedDocument) error
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// SignatureSource yields the default lawyer signature image.
type SignatureSource interface {
	Get(ctx context.Context) (types.Payload, error)
}

// FormSource produces extra pages attached to every document of a submission.
type FormSource interface {
	Attachment(sub *types.Submission, label string) (types.AttachmentSpec, error)
}

type Service struct {
	logger      logrus.FieldLogger
	generator   Generator
	submissions SubmissionStore
	documents   DocumentStore
	objects     ObjectStore
	signatures  SignatureSource
	forms       FormSource
	now         func() time.Time
}

type Option func(*Service)

func WithSignatures(s SignatureSource) Option {
	return func(svc *Service) { svc.signatures = s }
}

// WithForms attaches the pages produced by f after the submission's own attachments.
func WithForms(f FormSource) Option {
	return func(svc *Service) { svc.forms = f }
}

func WithNow(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

func New(logger logrus.FieldLogger, generator Generator, submissions SubmissionStore, documents DocumentStore, objects ObjectStore, opts ...Option) *Service {
	s := &Service{
		logger:      logger,
		generator:   generator,
		submissions: submissions,
		documents:   documents,
		objects:     objects,
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Receipt lists the documents recorded for one submission, in canonical claim order.
type Receipt struct {
	SubmissionID string                     `json:"submissionId"`
	Documents    []*types.GeneratedDocument `json:"documents"`
}

type generated struct {
	claim types.ClaimType
	doc   *types.DocumentBuffer
	key   string
}

// Submit validates and persists sub, then generates, uploads and records one document
// per selected claim. Nothing is recorded unless every document was generated and
// uploaded. A caller-supplied ID may only name a new submission or one whose previous
// run recorded no documents.
func (s *Service) Submit(ctx context.Context, sub *types.Submission) (*Receipt, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if sub.ID == "" {
		sub.ID = utils.NanoID()
	} else if err := s.checkCallerID(ctx, sub.ID); err != nil {
		return nil, err
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now().UTC()
	}

	logger := s.logger.WithField("submission_id", sub.ID)

	if err := s.submissions.SaveSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	logger.Info("submission saved")

	req, err := s.request(ctx, sub)
	if err != nil {
		return nil, err
	}

	claims := sub.Claims()
	results := make([]generated, len(claims))
	for i, claim := range claims {
		req.Claims = []types.ClaimType{claim}
		doc, err := s.generator.Generate(req)
		if err != nil {
			logger.WithError(err).WithField("claim", claim).Error("failed to generate document")
			return nil, fmt.Errorf("generate %s: %w", claim, err)
		}
		results[i] = generated{
			claim: claim,
			doc:   doc,
			key:   storage.DocumentKey(sub.ID, claim, doc.FileName),
		}
		logger.WithFields(logrus.Fields{
			"claim": claim,
			"bytes": doc.Len(),
		}).Debug("document generated")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)
	for _, r := range results {
		g.Go(func() error {
			if _, err := s.objects.Upload(gctx, r.key, r.doc.Data, r.doc.MIMEType); err != nil {
				return fmt.Errorf("upload %s: %w", r.claim, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("failed to upload documents")
		return nil, err
	}

	receipt := &Receipt{SubmissionID: sub.ID}
	generatedAt := s.now().UTC()
	for _, r := range results {
		record := &types.GeneratedDocument{
			ID:            utils.NanoID(),
			SubmissionID:  sub.ID,
			ClaimType:     r.claim,
			FileName:      r.doc.FileName,
			FileSizeBytes: int64(r.doc.Len()),
			MimeType:      r.doc.MIMEType,
			StorageKey:    r.key,
			GeneratedAt:   generatedAt,
		}
		if err := s.documents.CreateDocument(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to record document for %s: %w", r.claim, err)
		}
		receipt.Documents = append(receipt.Documents, record)

		logger.WithFields(logrus.Fields{
			"claim": r.claim,
			"bytes": r.doc.Len(),
		}).Info("document uploaded")
	}

	return receipt, nil
}

func (s *Service) checkCallerID(ctx context.Context, id string) error {
	if !utils.ValidID(id) {
		return fmt.Errorf("%w: %q", types.ErrInvalidSubmissionID, id)
	}

	_, err := s.submissions.Submission(ctx, id)
	if errors.Is(err, types.ErrSubmissionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up submission: %w", err)
	}

	docs, err := s.documents.DocumentsBySubmission(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up documents: %w", err)
	}
	if len(docs) > 0 {
		return fmt.Errorf("%w: %q", types.ErrSubmissionExists, id)
	}
	return nil
}

// Preview generates the document for one claim without persisting anything.
func (s *Service) Preview(ctx context.Context, sub *types.Submission, claim types.ClaimType) (*types.DocumentBuffer, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	req, err := s.request(ctx, sub)
	if err != nil {
		return nil, err
	}
	req.Claims = []types.ClaimType{claim}

	return s.generator.Generate(req)
}

// Documents lists the recorded documents of a stored submission.
func (s *Service) Documents(ctx context.Context, submissionID string) ([]*types.GeneratedDocument, error) {
	if _, err := s.submissions.Submission(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.documents.DocumentsBySubmission(ctx, submissionID)
}

// Document returns the latest record for a claim without downloading it.
func (s *Service) Document(ctx context.Context, submissionID string, claim types.ClaimType) (*types.GeneratedDocument, error) {
	return s.documents.LatestDocument(ctx, submissionID, claim)
}

// Download fetches the latest stored document for a claim of a submission.
func (s *Service) Download(ctx context.Context, submissionID string, claim types.ClaimType) (*types.GeneratedDocument, []byte, error) {
	record, err := s.documents.LatestDocument(ctx, submissionID, claim)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.objects.Download(ctx, record.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download %s: %w", record.StorageKey, err)
	}

	return record, data, nil
}

// request builds the composition request shared by every claim of sub.
func (s *Service) request(ctx context.Context, sub *types.Submission) (compose.Request, error) {
	req := compose.Request{
		Submission:             sub,
		Attachments:            sub.Attachments,
		IncludeForm3:           true,
		IncludePowerOfAttorney: true,
	}

	if sub.LawyerSignature.Empty() && s.signatures != nil {
		sig, err := s.signatures.Get(ctx)
		if err != nil {
			return req, fmt.Errorf("failed to load lawyer signature: %w", err)
		}
		req.LawyerSignature = sig
	}

	if s.forms != nil {
		spec, err := s.forms.Attachment(sub, nextLabel(sub.Attachments))
		if err != nil {
			return req, fmt.Errorf("failed to fill forms: %w", err)
		}
		attachments := make([]types.AttachmentSpec, 0, len(sub.Attachments)+1)
		attachments = append(attachments, sub.Attachments...)
		req.Attachments = append(attachments, spec)
	}

	return req, nil
}

// IsNotFound reports whether err means the submission or document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, types.ErrSubmissionNotFound) || errors.Is(err, types.ErrDocumentNotFound)
}
