package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"

	"github.com/Law4Us/Law4Us-sub002/internal/clause"
	"github.com/Law4Us/Law4Us-sub002/internal/compose"
	"github.com/Law4Us/Law4Us-sub002/internal/filing"
	"github.com/Law4Us/Law4Us-sub002/internal/overlay"
	"github.com/Law4Us/Law4Us-sub002/internal/templates"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 60
	}

	if c.PageCharsPerLine <= 0 {
		c.PageCharsPerLine = 70
	}

	if c.PageLinesPerPage <= 0 {
		c.PageLinesPerPage = 38
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func lawyer(c *types.Config) compose.Lawyer {
	return compose.Lawyer{Name: c.LawyerName, License: c.LawyerLicense}
}

func newCompositor(c *types.Config, clock compose.Clock) (*compose.Compositor, *clause.Catalogue, error) {
	source, err := templates.NewSource(c.TemplateDir)
	if err != nil {
		return nil, nil, err
	}

	catalogue, err := clause.Default()
	if err != nil {
		return nil, nil, err
	}

	comp := compose.New(source, catalogue,
		compose.WithEstimator(compose.NewLineEstimator(c.PageCharsPerLine, c.PageLinesPerPage)),
		compose.WithLawyer(lawyer(c)),
		compose.WithClock(clock),
	)
	return comp, catalogue, nil
}

// newFormFiller loads the Form 4 layout and its page scans. It returns nil when
// FORM_TEMPLATE_DIR is not set.
func newFormFiller(c *types.Config, clock compose.Clock) (*filing.FormFiller, fs.FS, error) {
	if c.FormTemplateDir == "" {
		return nil, nil, nil
	}
	pages := os.DirFS(c.FormTemplateDir)

	renderer, err := overlay.NewHebrewRenderer(c.FontPath)
	if err != nil {
		return nil, nil, err
	}

	layout, err := overlay.DefaultLayout("form4")
	if err != nil {
		return nil, nil, err
	}

	images, err := overlay.LoadPages(pages, layout)
	if err != nil {
		return nil, nil, err
	}

	filler, err := filing.NewFormFiller(renderer, layout, images, lawyer(c), clock)
	if err != nil {
		return nil, nil, err
	}
	return filler, pages, nil
}
