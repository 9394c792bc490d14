package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"boohk/internal/utils"
	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
)

type fakeCompanyStore struct {
	byID      map[string]*types.Company
	byEmail   map[string]*types.Company
	byContact map[string]*types.Company
}

func (s *fakeCompanyStore) Company(_ context.Context, companyID string) (*types.Company, error) {
	if c, ok := s.byID[companyID]; ok {
		return c, nil
	}
	return nil, types.ErrCompanyNotFound
}

func (s *fakeCompanyStore) CompanyByContactEmail(_ context.Context, email string) (*types.Company, error) {
	if c, ok := s.byEmail[email]; ok {
		return c, nil
	}
	return nil, types.ErrCompanyNotFound
}

func (s *fakeCompanyStore) CompanyByContactPerson(_ context.Context, person string) (*types.Company, error) {
	if c, ok := s.byContact[person]; ok {
		return c, nil
	}
	return nil, types.ErrCompanyNotFound
}

type fakeSignerStore struct {
	signers map[string]*types.Signer
}

func (s *fakeSignerStore) Signer(_ context.Context, signerID string) (*types.Signer, error) {
	if signer, ok := s.signers[signerID]; ok {
		return signer, nil
	}
	return nil, types.ErrSignerNotFound
}

type fakeBlobStore struct {
	objects map[string][]byte
	errKeys map[string]error
}

func (s *fakeBlobStore) Download(_ context.Context, key string) ([]byte, error) {
	if err, ok := s.errKeys[key]; ok {
		return nil, err
	}
	if data, ok := s.objects[key]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("object %s not found", key)
}

func assemblerLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAssembleResolvesCompanyByOrg(t *testing.T) {
	companies := &fakeCompanyStore{
		byID: map[string]*types.Company{
			"org-1": {ID: "org-1", Name: "Org Company"},
			"c-2":   {ID: "c-2", Name: "Signer Company"},
		},
	}
	signers := &fakeSignerStore{signers: map[string]*types.Signer{
		"s1": {ID: "s1", CompanyID: utils.StringPtr("c-2")},
	}}
	a := NewAssembler(companies, signers, &fakeBlobStore{}, assemblerLogger())

	inputs, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", OrgID: "org-1", SignerID: "s1"})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	// The org takes precedence over the signer's company.
	if inputs.Company == nil || inputs.Company.ID != "org-1" {
		t.Errorf("Expected the org's company, got %+v", inputs.Company)
	}
}

func TestAssembleCompanyFallbackOrder(t *testing.T) {
	signerCompany := &types.Company{ID: "c-2", Name: "Signer Company"}
	emailCompany := &types.Company{ID: "c-3", Name: "Email Company"}
	contactCompany := &types.Company{ID: "c-4", Name: "Contact Company"}

	tests := []struct {
		name   string
		signer *types.Signer
		stores *fakeCompanyStore
		wantID string
	}{
		{
			name:   "signer company when org is unknown",
			signer: &types.Signer{ID: "s1", CompanyID: utils.StringPtr("c-2"), Email: utils.StringPtr("a@b.c")},
			stores: &fakeCompanyStore{
				byID:    map[string]*types.Company{"c-2": signerCompany},
				byEmail: map[string]*types.Company{"a@b.c": emailCompany},
			},
			wantID: "c-2",
		},
		{
			name:   "contact email when no company link",
			signer: &types.Signer{ID: "s1", Email: utils.StringPtr("a@b.c"), DisplayName: utils.StringPtr("Ada")},
			stores: &fakeCompanyStore{
				byEmail:   map[string]*types.Company{"a@b.c": emailCompany},
				byContact: map[string]*types.Company{"Ada": contactCompany},
			},
			wantID: "c-3",
		},
		{
			name:   "contact person as last resort",
			signer: &types.Signer{ID: "s1", DisplayName: utils.StringPtr("Ada")},
			stores: &fakeCompanyStore{
				byContact: map[string]*types.Company{"Ada": contactCompany},
			},
			wantID: "c-4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signers := &fakeSignerStore{signers: map[string]*types.Signer{"s1": tt.signer}}
			a := NewAssembler(tt.stores, signers, &fakeBlobStore{}, assemblerLogger())

			inputs, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", OrgID: "org-unknown", SignerID: "s1"})
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}
			if inputs.Company == nil || inputs.Company.ID != tt.wantID {
				t.Errorf("Expected company %s, got %+v", tt.wantID, inputs.Company)
			}
		})
	}
}

func TestAssembleNoCompanyAnywhere(t *testing.T) {
	signers := &fakeSignerStore{signers: map[string]*types.Signer{"s1": {ID: "s1"}}}
	a := NewAssembler(&fakeCompanyStore{}, signers, &fakeBlobStore{}, assemblerLogger())

	inputs, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", OrgID: "org-1", SignerID: "s1"})
	if err != nil {
		t.Fatalf("Assemble must not fail without a company: %v", err)
	}
	if inputs.Company != nil {
		t.Errorf("Expected no company, got %+v", inputs.Company)
	}
}

func TestAssembleLogoFailureDegrades(t *testing.T) {
	companies := &fakeCompanyStore{
		byID: map[string]*types.Company{
			"org-1": {ID: "org-1", Name: "Org Company", LogoKey: utils.StringPtr("logos/org-1.png")},
		},
	}
	signers := &fakeSignerStore{signers: map[string]*types.Signer{"s1": {ID: "s1"}}}
	blobs := &fakeBlobStore{errKeys: map[string]error{"logos/org-1.png": fmt.Errorf("timeout")}}
	a := NewAssembler(companies, signers, blobs, assemblerLogger())

	inputs, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", OrgID: "org-1", SignerID: "s1"})
	if err != nil {
		t.Fatalf("Logo failure must not abort the assembly: %v", err)
	}
	if inputs.Company == nil {
		t.Fatal("Company must survive a failed logo fetch")
	}
	if inputs.Logo != nil {
		t.Error("Expected no logo bytes after a failed fetch")
	}
}

func TestAssembleSignatureFetchFailureAborts(t *testing.T) {
	signers := &fakeSignerStore{signers: map[string]*types.Signer{
		"s1": {ID: "s1", SignatureKey: utils.StringPtr("signatures/s1.png")},
	}}
	blobs := &fakeBlobStore{errKeys: map[string]error{"signatures/s1.png": fmt.Errorf("timeout")}}
	a := NewAssembler(&fakeCompanyStore{}, signers, blobs, assemblerLogger())

	_, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", SignerID: "s1"})

	var genErr *types.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected GenerationError, got %v", err)
	}
	if genErr.Stage != "signature fetch" {
		t.Errorf("Expected signature fetch stage, got %q", genErr.Stage)
	}
}

func TestAssembleSignerWithoutSignature(t *testing.T) {
	signers := &fakeSignerStore{signers: map[string]*types.Signer{"s1": {ID: "s1"}}}
	a := NewAssembler(&fakeCompanyStore{}, signers, &fakeBlobStore{}, assemblerLogger())

	inputs, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", SignerID: "s1"})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if inputs.Signature != nil {
		t.Error("Expected no signature bytes for an unsigned signer")
	}
}

func TestAssembleUnknownSigner(t *testing.T) {
	a := NewAssembler(&fakeCompanyStore{}, &fakeSignerStore{}, &fakeBlobStore{}, assemblerLogger())

	inputs, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", SignerID: "ghost"})
	if err != nil {
		t.Fatalf("Unknown signer must not abort the assembly: %v", err)
	}
	if inputs.Signature != nil {
		t.Error("Expected no signature for an unknown signer")
	}
}

func TestAssembleDownloadsAssets(t *testing.T) {
	companies := &fakeCompanyStore{
		byID: map[string]*types.Company{
			"org-1": {ID: "org-1", Name: "Org Company", LogoKey: utils.StringPtr("logos/org-1.png")},
		},
	}
	signers := &fakeSignerStore{signers: map[string]*types.Signer{
		"s1": {ID: "s1", SignatureKey: utils.StringPtr("signatures/s1.png")},
	}}
	blobs := &fakeBlobStore{objects: map[string][]byte{
		"logos/org-1.png":   []byte("logo-bytes"),
		"signatures/s1.png": []byte("signature-bytes"),
	}}
	a := NewAssembler(companies, signers, blobs, assemblerLogger())

	inputs, err := a.Assemble(context.Background(), &types.Quotation{ID: "q1", OrgID: "org-1", SignerID: "s1"})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if string(inputs.Logo) != "logo-bytes" {
		t.Errorf("Unexpected logo payload %q", inputs.Logo)
	}
	if string(inputs.Signature) != "signature-bytes" {
		t.Errorf("Unexpected signature payload %q", inputs.Signature)
	}
}
