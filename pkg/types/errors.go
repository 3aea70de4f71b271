package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoClaims            = errors.New("submission has no selected claims")
	ErrUnknownClaim        = errors.New("unknown claim type")
	ErrClaimNotSelected    = errors.New("claim type is not selected in submission")
	ErrDuplicateClaim      = errors.New("claim selected more than once")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrInvalidSubmissionID = errors.New("invalid submission id")
	ErrSubmissionExists    = errors.New("submission already has documents")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrUnsupportedMedia    = errors.New("unsupported media type")
	ErrMissingCredential   = errors.New("missing credential")
)

// ConfigError reports a missing or invalid piece of configuration: a template for a
// claim type, a bucket name, a font path. It is always fatal for the current operation.
type ConfigError struct {
	Resource   string // e.g. "template", "bucket"
	Identifier string // the offending name
	Err        error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s %q: %v", e.Resource, e.Identifier, e.Err)
	}
	return fmt.Sprintf("configuration: %s %q", e.Resource, e.Identifier)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
