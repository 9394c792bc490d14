package store

import (
	"context"
	"fmt"
	"time"

	"boohk/internal/utils"
	"boohk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const signerTableName = "boohk.signers"

var signerColumns = utils.StructTagValues(types.Signer{})

type SignerRepository struct {
	pool *pgxpool.Pool
}

func NewSignerRepository(pool *pgxpool.Pool) *SignerRepository {
	return &SignerRepository{pool: pool}
}

func (r *SignerRepository) Signer(ctx context.Context, signerID string) (*types.Signer, error) {
	query, args, err := psql().
		Select(signerColumns...).
		From(signerTableName).
		Where(sq.Eq{"id": signerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate signer query: %w", err)
	}

	var signer types.Signer
	err = pgxscan.Get(ctx, r.pool, &signer, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrSignerNotFound
		}
		return nil, fmt.Errorf("failed to fetch signer: %w", err)
	}

	return &signer, nil
}

func (r *SignerRepository) Create(ctx context.Context, signer *types.Signer) error {
	now := time.Now().UTC()
	signer.CreatedAt = now
	signer.UpdatedAt = now

	query, args, err := psql().
		Insert(signerTableName).
		SetMap(utils.StructToMap(signer)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create signer query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}

	return nil
}

// SetSignature records a newly captured signature image. Moving
// signature_signed_at is what invalidates cached artifacts for this
// signer's quotations.
func (r *SignerRepository) SetSignature(ctx context.Context, signerID, signatureKey string, signedAt time.Time) error {
	query, args, err := psql().
		Update(signerTableName).
		Set("signature_key", signatureKey).
		Set("signature_signed_at", signedAt).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": signerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate signature update query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update signer signature: %w", err)
	}

	return nil
}
