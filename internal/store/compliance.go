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

const complianceTableName = "boohk.compliance_items"

var complianceColumns = utils.StructTagValues(types.ComplianceItem{})

type ComplianceRepository struct {
	pool *pgxpool.Pool
}

func NewComplianceRepository(pool *pgxpool.Pool) *ComplianceRepository {
	return &ComplianceRepository{pool: pool}
}

func (r *ComplianceRepository) ItemsByQuotation(ctx context.Context, quotationID string) ([]types.ComplianceItem, error) {

	query, args, err := psql().Select(complianceColumns...).From(complianceTableName).
		Where(sq.Eq{"quotation_id": quotationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate compliance items query: %w", err)
	}

	var items = make([]types.ComplianceItem, 0)
	err = pgxscan.Select(ctx, r.pool, &items, query, args...)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *ComplianceRepository) Item(ctx context.Context, quotationID, itemKey string) (*types.ComplianceItem, error) {

	query, args, err := psql().Select(complianceColumns...).From(complianceTableName).
		Where(sq.Eq{"quotation_id": quotationID, "item_key": itemKey}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate compliance item query: %w", err)
	}

	var item = new(types.ComplianceItem)
	err = pgxscan.Get(ctx, r.pool, item, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrComplianceItemNotFound
	}

	return item, nil

}

// SeedItems inserts the fixed checklist rows for a freshly created
// quotation. All items start pending.
func (r *ComplianceRepository) SeedItems(ctx context.Context, items []types.ComplianceItem) error {

	builder := psql().Insert(complianceTableName).Columns(complianceColumns...)

	now := time.Now().UTC()
	for _, item := range items {
		builder = builder.Values(
			item.QuotationID,
			item.ItemKey,
			item.Category,
			item.Kind,
			item.State,
			item.FileKey,
			item.UploadedBy,
			now,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate seed compliance items query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to seed compliance items")

}

// SetState transitions one item. The file key is only written when
// non-nil so a re-accept after a decline keeps the existing evidence.
// Concurrent writers are last-writer-wins.
func (r *ComplianceRepository) SetState(ctx context.Context, quotationID, itemKey string, state types.ComplianceState, fileKey *string, actor string) error {

	builder := psql().Update(complianceTableName).
		Set("state", state).
		Set("uploaded_by", nullable(actor)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"quotation_id": quotationID, "item_key": itemKey})

	if fileKey != nil {
		builder = builder.Set("file_key", *fileKey)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate compliance state update for item %s: %w", itemKey, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update compliance item %s: %w", itemKey, err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrComplianceItemNotFound
	}

	return nil

}
