package main

import (
	"boohk/internal/compliance"
	"boohk/internal/db"
	"boohk/internal/seed"
	"boohk/internal/store"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with initial data",
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

		companyRepo := store.NewCompanyRepository(pool)
		signerRepo := store.NewSignerRepository(pool)
		quotationRepo := store.NewQuotationRepository(pool)
		complianceRepo := store.NewComplianceRepository(pool)

		tracker := compliance.NewTracker(complianceRepo, nil, logrus.StandardLogger())

		logrus.Info("Seeding companies...")
		if err := seed.SeedCompanies(ctx, companyRepo); err != nil {
			return fmt.Errorf("failed to seed companies: %w", err)
		}

		logrus.Info("Seeding signers...")
		if err := seed.SeedSigners(ctx, signerRepo); err != nil {
			return fmt.Errorf("failed to seed signers: %w", err)
		}

		logrus.Info("Seeding quotations...")
		if err := seed.SeedQuotations(ctx, quotationRepo, tracker); err != nil {
			return fmt.Errorf("failed to seed quotations: %w", err)
		}

		logrus.Info("Seed complete")

		return nil
	},
}
