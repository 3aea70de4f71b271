package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Law4Us/Law4Us-sub002/internal/overlay"
)

var calibrateCommand = &cli.Command{
	Name:  "calibrate",
	Usage: "Draw a coordinate grid over a form page for placing fields",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "page",
			Aliases:  []string{"p"},
			Usage:    "Form page image",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "step",
			Aliases: []string{"s"},
			Usage:   "Grid spacing in pixels",
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output PNG",
			Value:   "grid.png",
		},
		&cli.StringFlag{
			Name:    "layout",
			Aliases: []string{"l"},
			Usage:   "Also mark the field anchors of this layout, e.g. form4",
		},
	},
	Action: calibrate,
}

func calibrate(c *cli.Context) error {
	pagePath := c.String("page")
	data, err := os.ReadFile(pagePath)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode page: %w", err)
	}

	var page *overlay.PageLayout
	if name := c.String("layout"); name != "" {
		l, err := overlay.DefaultLayout(name)
		if err != nil {
			return err
		}
		page = l.Page(filepath.Base(pagePath))
		if page == nil {
			logrus.WithField("layout", name).Warn("page is not part of the layout, drawing grid only")
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, overlay.Calibrate(src, c.Int("step"), page)); err != nil {
		return fmt.Errorf("failed to encode grid: %w", err)
	}

	out := c.String("out")
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	logrus.WithField("file", out).Info("calibration grid written")
	return nil
}
