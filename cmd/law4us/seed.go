package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Law4Us/Law4Us-sub002/internal/db"
	"github.com/Law4Us/Law4Us-sub002/internal/seed"
	"github.com/Law4Us/Law4Us-sub002/internal/store"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo submissions",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		if err := db.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		submissionRepo := store.NewSubmissionRepository(pool)

		logrus.Info("Seeding submissions...")
		if err := seed.SeedSubmissions(ctx, submissionRepo); err != nil {
			return fmt.Errorf("failed to seed submissions: %w", err)
		}

		logrus.Info("Submissions seeded successfully")

		return nil
	},
}
