package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeySubject contextKey = "subject"
	contextKeyEmail   contextKey = "email"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth verifies the bearer token against the configured JWKS and adds the
// subject to the context. Without a JWKS it lets every request through.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.jwksCache == nil || s.jwksURL == "" {
			next.ServeHTTP(w, r)
			return
		}

		// 1. Get the bearer token
		header := r.Header.Get("Authorization")
		accessToken, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(accessToken) == "" {
			s.logger.Debug("no bearer token")
			s.unauthorized(w)
			return
		}

		// 2. Fetch JWK and verify JWT
		set, err := s.jwksCache.Lookup(r.Context(), s.jwksURL)
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch JWKS")
			s.unauthorized(w)
			return
		}

		token, err := jwt.Parse(
			[]byte(strings.TrimSpace(accessToken)),
			jwt.WithKeySet(set),
			jwt.WithValidate(true),
		)
		if err != nil {
			s.logger.WithError(err).Warn("failed to parse JWT")
			s.unauthorized(w)
			return
		}

		// 3. Extract caller info from claims
		subject, ok := token.Subject()
		if !ok || subject == "" {
			s.logger.Warn("no subject in JWT")
			s.unauthorized(w)
			return
		}

		var email string
		if err := token.Get("email", &email); err != nil {
			// email is optional
			email = ""
		}

		ctx := context.WithValue(r.Context(), contextKeySubject, subject)
		if email != "" {
			ctx = context.WithValue(ctx, contextKeyEmail, email)
		}

		s.logger.WithFields(logrus.Fields{
			"subject": subject,
			"email":   email,
		}).Debug("authenticated caller")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
