package pdf

import (
	"context"
	"errors"
	"fmt"

	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RenderInputs is the minimal payload a render needs: the quotation's
// line items and dates, company branding, and the signer's rasterized
// signature. Logo and Signature may be nil; the renderer degrades.
type RenderInputs struct {
	Quotation *types.Quotation
	Company   *types.Company
	Logo      []byte
	Signature []byte
}

type CompanyStore interface {
	Company(ctx context.Context, companyID string) (*types.Company, error)
	CompanyByContactEmail(ctx context.Context, email string) (*types.Company, error)
	CompanyByContactPerson(ctx context.Context, person string) (*types.Company, error)
}

type SignerStore interface {
	Signer(ctx context.Context, signerID string) (*types.Signer, error)
}

type BlobStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Assembler builds RenderInputs for a quotation. Branding and signature
// assets are fetched in parallel; a missing or failing logo degrades to
// a render without branding, a failing signature fetch aborts.
type Assembler struct {
	companies CompanyStore
	signers   SignerStore
	blobs     BlobStore
	logger    *logrus.Logger
}

func NewAssembler(companies CompanyStore, signers SignerStore, blobs BlobStore, logger *logrus.Logger) *Assembler {
	return &Assembler{
		companies: companies,
		signers:   signers,
		blobs:     blobs,
		logger:    logger,
	}
}

func (a *Assembler) Assemble(ctx context.Context, quotation *types.Quotation) (*RenderInputs, error) {

	signer, err := a.signers.Signer(ctx, quotation.SignerID)
	if err != nil {
		if errors.Is(err, types.ErrSignerNotFound) {
			signer = nil
		} else {
			return nil, &types.GenerationError{Stage: "signer lookup", Err: err}
		}
	}

	inputs := &RenderInputs{Quotation: quotation}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		company, logo := a.fetchBranding(gCtx, quotation, signer)
		inputs.Company = company
		inputs.Logo = logo
		return nil
	})

	g.Go(func() error {
		signature, err := a.fetchSignature(gCtx, signer)
		if err != nil {
			return &types.GenerationError{Stage: "signature fetch", Err: err}
		}
		inputs.Signature = signature
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return inputs, nil
}

// fetchBranding resolves the company profile and downloads its logo.
// Every failure here is logged and swallowed: a quotation renders
// without branding rather than not at all.
func (a *Assembler) fetchBranding(ctx context.Context, quotation *types.Quotation, signer *types.Signer) (*types.Company, []byte) {

	company, err := a.resolveCompanyProfile(ctx, quotation, signer)
	if err != nil {
		if !errors.Is(err, types.ErrCompanyNotFound) {
			a.logger.WithError(err).WithField("quotation_id", quotation.ID).Warn("company profile lookup failed, rendering without branding")
		}
		return nil, nil
	}

	if company.LogoKey == nil || *company.LogoKey == "" {
		return company, nil
	}

	logo, err := a.blobs.Download(ctx, *company.LogoKey)
	if err != nil {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"quotation_id": quotation.ID,
			"logo_key":     *company.LogoKey,
		}).Warn("logo fetch failed, rendering without logo")
		return company, nil
	}

	return company, logo
}

// resolveCompanyProfile tries an ordered list of strategies until one
// finds a company: the quotation's org, the signer's company, then the
// signer's email and display name as contact lookups.
func (a *Assembler) resolveCompanyProfile(ctx context.Context, quotation *types.Quotation, signer *types.Signer) (*types.Company, error) {

	strategies := []func(context.Context) (*types.Company, error){
		func(ctx context.Context) (*types.Company, error) {
			if quotation.OrgID == "" {
				return nil, types.ErrCompanyNotFound
			}
			return a.companies.Company(ctx, quotation.OrgID)
		},
		func(ctx context.Context) (*types.Company, error) {
			if signer == nil || signer.CompanyID == nil {
				return nil, types.ErrCompanyNotFound
			}
			return a.companies.Company(ctx, *signer.CompanyID)
		},
		func(ctx context.Context) (*types.Company, error) {
			if signer == nil || signer.Email == nil {
				return nil, types.ErrCompanyNotFound
			}
			return a.companies.CompanyByContactEmail(ctx, *signer.Email)
		},
		func(ctx context.Context) (*types.Company, error) {
			if signer == nil || signer.DisplayName == nil {
				return nil, types.ErrCompanyNotFound
			}
			return a.companies.CompanyByContactPerson(ctx, *signer.DisplayName)
		},
	}

	for _, strategy := range strategies {
		company, err := strategy(ctx)
		if err != nil {
			if errors.Is(err, types.ErrCompanyNotFound) {
				continue
			}
			return nil, err
		}
		return company, nil
	}

	return nil, types.ErrCompanyNotFound
}

// fetchSignature downloads the signer's current signature image. No
// signer or no signature on file is not an error; a failed download is.
func (a *Assembler) fetchSignature(ctx context.Context, signer *types.Signer) ([]byte, error) {

	if signer == nil || signer.SignatureKey == nil || *signer.SignatureKey == "" {
		return nil, nil
	}

	signature, err := a.blobs.Download(ctx, *signer.SignatureKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signature image %s: %w", *signer.SignatureKey, err)
	}

	return signature, nil
}
