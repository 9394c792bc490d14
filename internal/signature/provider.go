// Package signature resolves a signer's current signature asset: the
// version timestamp cached artifacts are compared against, and the
// image bytes embedded in a render.
package signature

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boohk/pkg/types"
)

type SignerStore interface {
	Signer(ctx context.Context, signerID string) (*types.Signer, error)
}

type BlobStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type Provider struct {
	signers SignerStore
	blobs   BlobStore
}

func NewProvider(signers SignerStore, blobs BlobStore) *Provider {
	return &Provider{
		signers: signers,
		blobs:   blobs,
	}
}

// SignatureVersion returns the timestamp of the signer's current
// signature, or nil when the signer has no signature on file. An
// unknown signer also counts as "no signature".
func (p *Provider) SignatureVersion(ctx context.Context, signerID string) (*time.Time, error) {
	signer, err := p.signers.Signer(ctx, signerID)
	if err != nil {
		if errors.Is(err, types.ErrSignerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve signature version for signer %s: %w", signerID, err)
	}

	return signer.SignatureSignedAt, nil
}

// SignatureImage returns the signer's current signature image bytes, or
// nil when none is on file.
func (p *Provider) SignatureImage(ctx context.Context, signerID string) ([]byte, error) {
	signer, err := p.signers.Signer(ctx, signerID)
	if err != nil {
		if errors.Is(err, types.ErrSignerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve signature image for signer %s: %w", signerID, err)
	}

	if signer.SignatureKey == nil || *signer.SignatureKey == "" {
		return nil, nil
	}

	image, err := p.blobs.Download(ctx, *signer.SignatureKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signature image for signer %s: %w", signerID, err)
	}

	return image, nil
}
