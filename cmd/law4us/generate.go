package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Law4Us/Law4Us-sub002/internal/compose"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

var generateCommand = &cli.Command{
	Name:  "generate",
	Usage: "Generate a filing document from a submission JSON file, without database or storage",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "Submission JSON file",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "claim",
			Aliases: []string{"c"},
			Usage:   "Claim to generate; every selected claim when empty",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output file; named after the claims when empty",
		},
		&cli.StringFlag{
			Name:  "lawyer-signature",
			Usage: "Image file used when the submission carries no lawyer signature",
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "Print the selected clauses before generating",
		},
	},
	Action: generate,
}

func generate(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read submission: %w", err)
	}

	var sub types.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("failed to parse submission: %w", err)
	}

	req := compose.Request{
		Submission:             &sub,
		IncludeForm3:           true,
		IncludePowerOfAttorney: true,
	}
	if name := c.String("claim"); name != "" {
		claim, err := types.ParseClaimType(name)
		if err != nil {
			return err
		}
		req.Claims = []types.ClaimType{claim}
	}
	if path := c.String("lawyer-signature"); path != "" {
		sig, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read lawyer signature: %w", err)
		}
		req.LawyerSignature = sig
	}

	compositor, catalogue, err := newCompositor(cfg, compose.SystemClock)
	if err != nil {
		return err
	}

	if c.Bool("dump") {
		claims := req.Claims
		if len(claims) == 0 {
			claims = sub.Claims()
		}
		for _, claim := range claims {
			pp.Println(claim, catalogue.Select(claim, compose.Facts(&sub, claim)))
		}
	}

	doc, err := compositor.Generate(req)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = doc.FileName
	}
	if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	logrus.WithFields(logrus.Fields{
		"file":  out,
		"bytes": doc.Len(),
	}).Info("document generated")

	return nil
}
