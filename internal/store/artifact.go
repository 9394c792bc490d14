package store

import (
	"context"
	"fmt"

	"boohk/internal/utils"
	"boohk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const artifactTableName = "boohk.artifacts"

var artifactColumns = utils.StructTagValues(types.Artifact{})

type ArtifactRepository struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{pool: pool}
}

func (r *ArtifactRepository) Artifact(ctx context.Context, artifactID string) (*types.Artifact, error) {

	query, args, err := psql().Select(artifactColumns...).From(artifactTableName).
		Where(sq.Eq{"id": artifactID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate artifact query: %w", err)
	}

	var artifact = new(types.Artifact)
	err = pgxscan.Get(ctx, r.pool, artifact, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrArtifactNotFound
	}

	return artifact, nil

}

// CreateArtifact inserts a new artifact row. Artifacts are immutable;
// there is no update path.
func (r *ArtifactRepository) CreateArtifact(ctx context.Context, artifact *types.Artifact) error {

	artifactMap := utils.StructToMap(artifact)

	query, args, err := psql().Insert(artifactTableName).SetMap(artifactMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert artifact query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create artifact")

}
