package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"

	"github.com/Law4Us/Law4Us-sub002/internal/filing"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

var decoder = form.NewDecoder()

// Filing is implemented by filing.Service.
type Filing interface {
	Submit(ctx context.Context, sub *types.Submission) (*filing.Receipt, error)
	Preview(ctx context.Context, sub *types.Submission, claim types.ClaimType) (*types.DocumentBuffer, error)
	Documents(ctx context.Context, submissionID string) ([]*types.GeneratedDocument, error)
	Download(ctx context.Context, submissionID string, claim types.ClaimType) (*types.GeneratedDocument, []byte, error)
}

// Forms fills the court form pages for a submission.
type Forms interface {
	Fill(sub *types.Submission) ([][]byte, error)
}

// KeySets resolves a JWKS URL to its key set. jwk.Cache implements it.
type KeySets interface {
	Lookup(ctx context.Context, u string) (jwk.Set, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	filing Filing
	forms  Forms
	pages  fs.FS

	cookie *securecookie.SecureCookie

	jwksCache KeySets
	jwksURL   string

	server *http.Server
}

// New wires the HTTP API. forms, pages and keys may be nil: the form endpoints then
// report a configuration error and bearer auth is disabled.
func New(
	config *types.Config,
	logger *logrus.Logger,
	filingService Filing,
	forms Forms,
	pages fs.FS,
	keys KeySets,
) (*Service, error) {
	mux := flow.New()

	cookie, err := downloadCookie(config, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger: logger,
		config: config,
		filing: filingService,
		forms:  forms,
		pages:  pages,
		cookie: cookie,

		jwksCache: keys,
		jwksURL:   config.JWKSURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	// Paths with a trailing slash never match a route.
	r.NotFound = s.StripTrailingSlash(http.HandlerFunc(s.handleNotFound))

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.HandleFunc("/downloads/:token", s.handleDownloadToken, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/submissions", s.handlePostSubmission, http.MethodPost)
		r.HandleFunc("/submissions/:id/documents", s.handleGetDocuments, http.MethodGet)
		r.HandleFunc("/submissions/:id/documents/:claim", s.handleGetDocument, http.MethodGet)
		r.HandleFunc("/documents/preview", s.handlePostPreview, http.MethodPost)

		r.HandleFunc("/forms/calibration", s.handleGetCalibration, http.MethodGet)
		r.HandleFunc("/forms/form4", s.handlePostForm4, http.MethodPost)
	})
}

// downloadCookie builds the codec for download links. Without configured keys a random
// hash key is used, so links do not survive a restart.
func downloadCookie(config *types.Config, logger logrus.FieldLogger) (*securecookie.SecureCookie, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.DownloadHashKey)
	if err != nil {
		return nil, &types.ConfigError{Resource: "credential", Identifier: "DOWNLOAD_HASH_KEY", Err: err}
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.DownloadBlockKey)
	if err != nil {
		return nil, &types.ConfigError{Resource: "credential", Identifier: "DOWNLOAD_BLOCK_KEY", Err: err}
	}

	if len(hashKey) == 0 {
		logger.Warn("DOWNLOAD_HASH_KEY not set, download links expire on restart")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.SetSerializer(securecookie.JSONEncoder{})
	if config.DownloadTTLSec > 0 {
		cookie.MaxAge(config.DownloadTTLSec)
	}
	return cookie, nil
}
