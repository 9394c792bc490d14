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

const companyTableName = "boohk.companies"

var companyColumns = utils.StructTagValues(types.Company{})

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

func (r *CompanyRepository) Company(ctx context.Context, companyID string) (*types.Company, error) {
	return r.companyWhere(ctx, sq.Eq{"id": companyID})
}

func (r *CompanyRepository) CompanyByContactEmail(ctx context.Context, email string) (*types.Company, error) {
	return r.companyWhere(ctx, sq.Eq{"contact_email": email})
}

func (r *CompanyRepository) CompanyByContactPerson(ctx context.Context, person string) (*types.Company, error) {
	return r.companyWhere(ctx, sq.Eq{"contact_person": person})
}

func (r *CompanyRepository) companyWhere(ctx context.Context, pred sq.Eq) (*types.Company, error) {
	query, args, err := psql().
		Select(companyColumns...).
		From(companyTableName).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate company query: %w", err)
	}

	var company types.Company
	err = pgxscan.Get(ctx, r.pool, &company, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}

	return &company, nil
}

func (r *CompanyRepository) Create(ctx context.Context, company *types.Company) error {
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	query, args, err := psql().
		Insert(companyTableName).
		SetMap(utils.StructToMap(company)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create company query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}
