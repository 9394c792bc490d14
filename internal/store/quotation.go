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

const quotationTableName = "boohk.quotations"

var quotationColumns = utils.StructTagValues(types.Quotation{})

type QuotationRepository struct {
	pool *pgxpool.Pool
}

func NewQuotationRepository(pool *pgxpool.Pool) *QuotationRepository {
	return &QuotationRepository{pool: pool}
}

func (r *QuotationRepository) Quotation(ctx context.Context, quotationID string) (*types.Quotation, error) {

	query, args, err := psql().Select(quotationColumns...).From(quotationTableName).
		Where(sq.Eq{"id": quotationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation query: %w", err)
	}

	var quotation = new(types.Quotation)
	err = pgxscan.Get(ctx, r.pool, quotation, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrQuotationNotFound
	}

	return quotation, nil

}

// QuotationsByPageGroup returns all sibling quotations generated together
// under one page group, oldest first.
func (r *QuotationRepository) QuotationsByPageGroup(ctx context.Context, pageGroupID string) ([]*types.Quotation, error) {

	query, args, err := psql().Select(quotationColumns...).From(quotationTableName).
		Where(sq.Eq{"page_group_id": pageGroupID}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate page group query: %w", err)
	}

	var quotations = make([]*types.Quotation, 0)
	err = pgxscan.Select(ctx, r.pool, &quotations, query, args...)
	if err != nil {
		return nil, err
	}

	return quotations, nil
}

// QuotationPage fetches up to limit quotations ordered by creation
// descending with the ID as tie-break. When after is set the fetch
// continues strictly past that ordering key.
func (r *QuotationRepository) QuotationPage(ctx context.Context, filter types.QuotationFilter, after *types.PageKey, limit uint64) ([]*types.Quotation, error) {

	builder := psql().Select(quotationColumns...).From(quotationTableName).
		OrderBy("created_at desc", "id desc").
		Limit(limit)

	if filter.OrgID != "" {
		builder = builder.Where(sq.Eq{"org_id": filter.OrgID})
	}

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	if after != nil {
		builder = builder.Where(sq.Expr("(created_at, id) < (?, ?)", after.CreatedAt, after.ID))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation page query: %w", err)
	}

	var quotations = make([]*types.Quotation, 0)
	err = pgxscan.Select(ctx, r.pool, &quotations, query, args...)
	if err != nil {
		return nil, err
	}

	return quotations, nil
}

func (r *QuotationRepository) CreateQuotation(ctx context.Context, quotation *types.Quotation) error {

	now := time.Now().UTC()
	quotation.ID = utils.NanoID()
	quotation.CreatedAt = now
	quotation.UpdatedAt = now

	if quotation.Status == "" {
		quotation.Status = types.QuotationStatusDraft
	}

	quotationMap := utils.StructToMap(quotation)

	query, args, err := psql().Insert(quotationTableName).SetMap(quotationMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert quotation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create quotation")

}

func (r *QuotationRepository) UpdateQuotation(ctx context.Context, quotationID string, quotation *types.Quotation) error {

	now := time.Now().UTC()
	quotation.ID = quotationID
	quotation.UpdatedAt = now

	quotationMap := utils.StructToMap(quotation)

	query, args, err := psql().Update(quotationTableName).SetMap(quotationMap).Where(sq.Eq{"id": quotationID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update quotation query for quotation %s: %w", quotationID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update quotation")

}

func (r *QuotationRepository) SetStatus(ctx context.Context, quotationID string, status types.QuotationStatus) error {

	query, args, err := psql().Update(quotationTableName).
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": quotationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate status update query for quotation %s: %w", quotationID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update quotation status")

}

// SetArtifact repoints the quotation at a newly generated artifact.
// Last writer wins when two generations race.
func (r *QuotationRepository) SetArtifact(ctx context.Context, quotationID, artifactID string) error {

	query, args, err := psql().Update(quotationTableName).
		Set("artifact_id", artifactID).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": quotationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate artifact update query for quotation %s: %w", quotationID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update quotation artifact")

}
