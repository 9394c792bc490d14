package seed

import (
	"boohk/internal/store"
	"boohk/internal/utils"
	"boohk/pkg/types"
	"context"
	"errors"
	"fmt"
)

// Fixed IDs so reseeding a dev database is idempotent.
// To generate new IDs: `go run ./cmd/boohk nanoid`
var seedCompanies = []types.Company{
	{
		ID:            "pQ4n8VYw2KcJmXr6TbH0ZdLs1AeGfN9u",
		Name:          "Harborview Print Co",
		ContactEmail:  utils.StringPtr("orders@harborviewprint.example.com"),
		ContactPerson: utils.StringPtr("Dana Reyes"),
	},
	{
		ID:            "Wk7mR2xPv9LtQs4NcJ6bYhZd8EfG0aUi",
		Name:          "Meridian Packaging Ltd",
		ContactEmail:  utils.StringPtr("procurement@meridianpack.example.com"),
		ContactPerson: utils.StringPtr("Felix Ong"),
	},
	{
		ID:            "Bz5cT8yKn3WqXv1MdJ7rLhPf2GeS9oAu",
		Name:          "Crestline Signage",
		ContactEmail:  utils.StringPtr("hello@crestlinesignage.example.com"),
		ContactPerson: utils.StringPtr("Mara Lindqvist"),
	},
}

func SeedCompanies(ctx context.Context, repo *store.CompanyRepository) error {
	seeded := 0
	for _, company := range seedCompanies {
		_, err := repo.Company(ctx, company.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrCompanyNotFound) {
			return fmt.Errorf("failed to fetch company %s: %w", company.ID, err)
		}

		if err := repo.Create(ctx, &company); err != nil {
			return fmt.Errorf("failed to create company %s: %w", company.ID, err)
		}
		seeded++
	}

	fmt.Printf("Companies seeded: %d created, %d already present\n", seeded, len(seedCompanies)-seeded)
	return nil
}
