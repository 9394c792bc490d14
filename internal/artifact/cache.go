// Package artifact owns the generated-PDF cache: it decides when a
// cached artifact is still fresh against the signer's signature version
// and serializes regeneration per quotation.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boohk/internal/pdf"
	"boohk/internal/utils"
	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// passwordAlphabet leaves out the characters people misread over the
// phone (0/O, 1/l/I).
const (
	passwordAlphabet = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"
	passwordLength   = 12
)

type QuotationStore interface {
	Quotation(ctx context.Context, quotationID string) (*types.Quotation, error)
	QuotationsByPageGroup(ctx context.Context, pageGroupID string) ([]*types.Quotation, error)
	SetArtifact(ctx context.Context, quotationID, artifactID string) error
}

type ArtifactStore interface {
	Artifact(ctx context.Context, artifactID string) (*types.Artifact, error)
	CreateArtifact(ctx context.Context, artifact *types.Artifact) error
}

// VersionSource is the freshness oracle: the signer's current signature
// version, nil when none is on file.
type VersionSource interface {
	SignatureVersion(ctx context.Context, signerID string) (*time.Time, error)
}

type InputAssembler interface {
	Assemble(ctx context.Context, quotation *types.Quotation) (*pdf.RenderInputs, error)
}

type Renderer interface {
	Render(inputs *pdf.RenderInputs) ([]byte, error)
}

type BlobStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Result is what a caller needs to hand the PDF to a user: the artifact
// record, its storage key, and the access password.
type Result struct {
	ArtifactID string `json:"artifactId"`
	StorageKey string `json:"storageKey"`
	Password   string `json:"password"`
}

type Cache struct {
	quotations QuotationStore
	artifacts  ArtifactStore
	versions   VersionSource
	assembler  InputAssembler
	renderer   Renderer
	blobs      BlobStore
	logger     *logrus.Logger

	flight singleflight.Group
}

func NewCache(
	quotations QuotationStore,
	artifacts ArtifactStore,
	versions VersionSource,
	assembler InputAssembler,
	renderer Renderer,
	blobs BlobStore,
	logger *logrus.Logger,
) *Cache {
	return &Cache{
		quotations: quotations,
		artifacts:  artifacts,
		versions:   versions,
		assembler:  assembler,
		renderer:   renderer,
		blobs:      blobs,
		logger:     logger,
	}
}

// GetOrGenerate returns the current artifact for the quotation,
// regenerating it when the signer's signature version no longer matches
// the one it was rendered against. Concurrent callers for the same
// quotation share one in-flight generation.
func (c *Cache) GetOrGenerate(ctx context.Context, quotationID string) (*Result, error) {
	v, err, _ := c.flight.Do(quotationID, func() (any, error) {
		return c.getOrGenerate(ctx, quotationID)
	})
	if err != nil {
		return nil, err
	}

	return v.(*Result), nil
}

func (c *Cache) getOrGenerate(ctx context.Context, quotationID string) (*Result, error) {

	quotation, err := c.quotations.Quotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	version, err := c.versions.SignatureVersion(ctx, quotation.SignerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signature version: %w", err)
	}

	return c.refresh(ctx, quotation, version)
}

// refresh applies the freshness decision against an already-fetched
// signer version and regenerates when needed.
func (c *Cache) refresh(ctx context.Context, quotation *types.Quotation, version *time.Time) (*Result, error) {

	if quotation.ArtifactID != nil {
		cached, err := c.artifacts.Artifact(ctx, *quotation.ArtifactID)
		if err != nil && !errors.Is(err, types.ErrArtifactNotFound) {
			return nil, err
		}

		if cached != nil && fresh(cached.SignerVersion, version) {
			return &Result{
				ArtifactID: cached.ID,
				StorageKey: cached.StorageKey,
				Password:   cached.Password,
			}, nil
		}
	}

	return c.generate(ctx, quotation, version)
}

// fresh reports whether a cached artifact can be reused. When either
// side has no version, freshness cannot be proven and the artifact is
// regenerated; correctness beats cache-hit rate here.
func fresh(recorded, current *time.Time) bool {
	if recorded == nil || current == nil {
		return false
	}
	return recorded.Equal(*current)
}

func (c *Cache) generate(ctx context.Context, quotation *types.Quotation, version *time.Time) (*Result, error) {

	inputs, err := c.assembler.Assemble(ctx, quotation)
	if err != nil {
		return nil, err
	}

	data, err := c.renderer.Render(inputs)
	if err != nil {
		return nil, err
	}

	artifactID := utils.NanoID()
	storageKey := fmt.Sprintf("quotations/%s/%s.pdf", quotation.ID, artifactID)

	if _, err := c.blobs.Upload(ctx, storageKey, data, "application/pdf"); err != nil {
		return nil, &types.GenerationError{Stage: "artifact upload", Err: err}
	}

	artifact := &types.Artifact{
		ID:            artifactID,
		QuotationID:   quotation.ID,
		StorageKey:    storageKey,
		Password:      utils.NanoIDAlphabet(passwordAlphabet, passwordLength),
		SignerVersion: version,
		GeneratedAt:   time.Now().UTC(),
	}

	if err := c.artifacts.CreateArtifact(ctx, artifact); err != nil {
		return nil, err
	}

	if err := c.quotations.SetArtifact(ctx, quotation.ID, artifactID); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"quotation_id": quotation.ID,
		"artifact_id":  artifactID,
	}).Info("generated quotation artifact")

	return &Result{
		ArtifactID: artifactID,
		StorageKey: storageKey,
		Password:   artifact.Password,
	}, nil
}

// InvalidateGroup walks every sibling of a page group and refreshes the
// stale ones. The signer version is fetched once per distinct signer
// rather than per sibling.
func (c *Cache) InvalidateGroup(ctx context.Context, pageGroupID string) error {

	siblings, err := c.quotations.QuotationsByPageGroup(ctx, pageGroupID)
	if err != nil {
		return err
	}

	versions := make(map[string]*time.Time, 1)

	for _, quotation := range siblings {
		version, ok := versions[quotation.SignerID]
		if !ok {
			version, err = c.versions.SignatureVersion(ctx, quotation.SignerID)
			if err != nil {
				return fmt.Errorf("failed to fetch signature version: %w", err)
			}
			versions[quotation.SignerID] = version
		}

		quotation := quotation
		_, err, _ = c.flight.Do(quotation.ID, func() (any, error) {
			return c.refresh(ctx, quotation, version)
		})
		if err != nil {
			return fmt.Errorf("failed to refresh quotation %s: %w", quotation.ID, err)
		}
	}

	return nil
}
