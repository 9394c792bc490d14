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

const bookingTableName = "boohk.bookings"

var bookingColumns = utils.StructTagValues(types.Booking{})

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Booking(ctx context.Context, bookingID string) (*types.Booking, error) {

	query, args, err := psql().Select(bookingColumns...).From(bookingTableName).
		Where(sq.Eq{"id": bookingID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking query: %w", err)
	}

	var booking = new(types.Booking)
	err = pgxscan.Get(ctx, r.pool, booking, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrBookingNotFound
	}

	return booking, nil

}

// CreateBooking inserts the booking row. The compliance snapshot and
// artifact reference were copied in by the gate; the row is immutable
// history afterwards.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *types.Booking) error {

	bookingMap := utils.StructToMap(booking)

	query, args, err := psql().Insert(bookingTableName).SetMap(bookingMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert booking query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create booking")

}
