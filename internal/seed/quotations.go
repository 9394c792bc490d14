package seed

import (
	"boohk/internal/compliance"
	"boohk/internal/store"
	"boohk/pkg/types"
	"context"
	"fmt"
	"time"

	"github.com/k0kubun/pp"
)

const seedOrgID = "org-seed-dev"

// SeedQuotations creates a handful of quotations in various statuses so
// the list, pagination, and checklist flows have data to work against.
// Quotations get generated IDs, so presence is checked per org rather
// than per row: an org that already has quotations is left alone.
func SeedQuotations(ctx context.Context, repo *store.QuotationRepository, tracker *compliance.Tracker) error {
	existing, err := repo.QuotationPage(ctx, types.QuotationFilter{OrgID: seedOrgID}, nil, 1)
	if err != nil {
		return fmt.Errorf("failed to check for existing quotations: %w", err)
	}
	if len(existing) > 0 {
		fmt.Println("Quotations already seeded, skipping")
		return nil
	}

	now := time.Now().UTC()

	quotations := []types.Quotation{
		{
			OrgID:     seedOrgID,
			SignerID:  "Hd2fK9sWm6PxQr3TcV8nZbJy5LeG1oAu",
			Title:     "Spring catalogue print run",
			Status:    types.QuotationStatusSent,
			IssueDate: now.AddDate(0, 0, -14),
			LineItems: []types.LineItem{
				{Description: "Catalogue, 48pp, offset", Quantity: 5000, UnitCents: 310, TotalCents: 1550000},
				{Description: "Delivery, palletised", Quantity: 1, UnitCents: 24000, TotalCents: 24000},
			},
		},
		{
			OrgID:     seedOrgID,
			SignerID:  "Jm4rN7vQx2KsWt9PcY5bZdHf8LeG3oAu",
			Title:     "Retail shelf packaging, Q3",
			Status:    types.QuotationStatusAccepted,
			IssueDate: now.AddDate(0, 0, -7),
			LineItems: []types.LineItem{
				{Description: "Folding carton, litho-laminated", Quantity: 20000, UnitCents: 85, TotalCents: 1700000},
			},
		},
		{
			OrgID:     seedOrgID,
			SignerID:  "Tq6wB3yRk8NsXv5McJ1rLhPd7GeZ0fAu",
			Title:     "Storefront signage refresh",
			Status:    types.QuotationStatusDraft,
			IssueDate: now,
			LineItems: []types.LineItem{
				{Description: "Acrylic fascia sign, 3m", Quantity: 2, UnitCents: 98000, TotalCents: 196000},
				{Description: "Window vinyl, full wrap", Quantity: 4, UnitCents: 22000, TotalCents: 88000},
			},
		},
	}

	for i := range quotations {
		if err := repo.CreateQuotation(ctx, &quotations[i]); err != nil {
			return fmt.Errorf("failed to create quotation %q: %w", quotations[i].Title, err)
		}

		if err := tracker.InitChecklist(ctx, quotations[i].ID); err != nil {
			return fmt.Errorf("failed to seed checklist for quotation %s: %w", quotations[i].ID, err)
		}

		pp.Println(quotations[i].ID, quotations[i].Title)
	}

	fmt.Printf("Quotations seeded: %d created\n", len(quotations))
	return nil
}
