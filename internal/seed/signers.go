package seed

import (
	"boohk/internal/store"
	"boohk/internal/utils"
	"boohk/pkg/types"
	"context"
	"errors"
	"fmt"
)

var seedSigners = []types.Signer{
	{
		ID:          "Hd2fK9sWm6PxQr3TcV8nZbJy5LeG1oAu",
		Email:       utils.StringPtr("dana.reyes+seed1@example.com"),
		DisplayName: utils.StringPtr("Dana Reyes"),
		CompanyID:   utils.StringPtr("pQ4n8VYw2KcJmXr6TbH0ZdLs1AeGfN9u"),
	},
	{
		ID:          "Jm4rN7vQx2KsWt9PcY5bZdHf8LeG3oAu",
		Email:       utils.StringPtr("felix.ong+seed2@example.com"),
		DisplayName: utils.StringPtr("Felix Ong"),
		CompanyID:   utils.StringPtr("Wk7mR2xPv9LtQs4NcJ6bYhZd8EfG0aUi"),
	},
	{
		ID:          "Tq6wB3yRk8NsXv5McJ1rLhPd7GeZ0fAu",
		Email:       utils.StringPtr("mara.lindqvist+seed3@example.com"),
		DisplayName: utils.StringPtr("Mara Lindqvist"),
	},
}

func SeedSigners(ctx context.Context, repo *store.SignerRepository) error {
	seeded := 0
	for _, signer := range seedSigners {
		_, err := repo.Signer(ctx, signer.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrSignerNotFound) {
			return fmt.Errorf("failed to fetch signer %s: %w", signer.ID, err)
		}

		if err := repo.Create(ctx, &signer); err != nil {
			return fmt.Errorf("failed to create signer %s: %w", signer.ID, err)
		}
		seeded++
	}

	fmt.Printf("Signers seeded: %d created, %d already present\n", seeded, len(seedSigners)-seeded)
	return nil
}
