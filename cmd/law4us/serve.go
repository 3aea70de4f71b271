package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Law4Us/Law4Us-sub002/internal/compose"
	"github.com/Law4Us/Law4Us-sub002/internal/db"
	"github.com/Law4Us/Law4Us-sub002/internal/filing"
	"github.com/Law4Us/Law4Us-sub002/internal/server"
	"github.com/Law4Us/Law4Us-sub002/internal/signature"
	"github.com/Law4Us/Law4Us-sub002/internal/storage"
	"github.com/Law4Us/Law4Us-sub002/internal/store"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	submissionRepo := store.NewSubmissionRepository(pool)
	documentRepo := store.NewDocumentRepository(pool)

	objects, err := storage.NewS3Storage(s3Client, config.DocumentsBucket)
	if err != nil {
		return err
	}

	// documents and filled forms share one clock so their dates agree
	clock := compose.SystemClock

	compositor, _, err := newCompositor(config, clock)
	if err != nil {
		return err
	}

	opts := []filing.Option{filing.WithNow(clock.Now)}
	if config.SignatureBucket != "" {
		fetcher, err := signature.NewS3Fetcher(s3Client, config.SignatureBucket, config.SignatureKey)
		if err != nil {
			return err
		}
		opts = append(opts, filing.WithSignatures(signature.NewCache(fetcher)))
	} else {
		logger.Warn("SIGNATURE_BUCKET not set, documents without a lawyer signature are left unsigned")
	}

	var forms server.Forms
	filler, pages, err := newFormFiller(config, clock)
	if err != nil {
		return err
	}
	if filler != nil {
		forms = filler
		if config.AttachForm4 {
			opts = append(opts, filing.WithForms(filler))
		}
	}

	filingService := filing.New(logger, compositor, submissionRepo, documentRepo, objects, opts...)

	var keys server.KeySets
	if config.JWKSURL != "" {
		jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
		if err != nil {
			return fmt.Errorf("failed to initialize jwk cache: %w", err)
		}

		err = jwkCache.Register(context.Background(), config.JWKSURL)
		if err != nil {
			return fmt.Errorf("failed to register jwks with cache: %w", err)
		}
		keys = jwkCache
	} else {
		logger.Warn("JWKS_URL not set, API authentication disabled")
	}

	srv, err := server.New(
		config,
		logger,
		filingService,
		forms,
		pages,
		keys,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
