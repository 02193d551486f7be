package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
)

var voucherColumns = []string{
	"id",
	"code",
	"discount_type",
	"discount_value",
	"min_order_cents",
	"max_discount_cents",
	"usage_limit",
	"usage_count",
	"valid_from",
	"valid_until",
	"status",
	"created_at",
	"updated_at",
}

type PostgresVoucherRepository struct {
	conn postgres.Querier
}

func NewPostgresVoucherRepository(conn postgres.Querier) *PostgresVoucherRepository {
	return &PostgresVoucherRepository{
		conn: conn,
	}
}

func scanVoucher(row pgx.Row) (*voucher.Voucher, error) {
	var v voucher.Voucher
	var discountType, status string
	err := row.Scan(
		&v.ID,
		&v.Code,
		&discountType,
		&v.DiscountValue,
		&v.MinOrderCents,
		&v.MaxDiscountCents,
		&v.UsageLimit,
		&v.UsageCount,
		&v.ValidFrom,
		&v.ValidUntil,
		&status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if v.DiscountType, err = voucher.ParseDiscountType(discountType); err != nil {
		return nil, err
	}
	if v.Status, err = voucher.ParseStatus(status); err != nil {
		return nil, err
	}

	return &v, nil
}

// GetByCode looks a voucher up by normalized code, or returns nil when the
// code does not exist.
func (r *PostgresVoucherRepository) GetByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	query, args, err := sq.Select(voucherColumns...).
		From("vouchers").
		Where(sq.Eq{"code": voucher.NormalizeCode(code)}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	v, err := scanVoucher(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get voucher: %w", err)
	}

	return v, nil
}

// Insert persists a new voucher (loyalty rewards mint these).
func (r *PostgresVoucherRepository) Insert(ctx context.Context, v voucher.Voucher) (voucher.Voucher, error) {
	query, args, err := sq.Insert("vouchers").
		Columns(voucherColumns[1:]...).
		Values(
			voucher.NormalizeCode(v.Code),
			v.DiscountType.String(),
			v.DiscountValue,
			v.MinOrderCents,
			v.MaxDiscountCents,
			v.UsageLimit,
			v.UsageCount,
			v.ValidFrom,
			v.ValidUntil,
			v.Status.String(),
			v.CreatedAt,
			v.UpdatedAt,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return voucher.Voucher{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&v.ID); err != nil {
		return voucher.Voucher{}, fmt.Errorf("failed to insert voucher: %w", err)
	}

	return v, nil
}

// IncrementUsage bumps usage_count by one as a compare-and-swap on the count
// the caller observed during validation. A lost race affects zero rows.
func (r *PostgresVoucherRepository) IncrementUsage(ctx context.Context, id int64, observedCount int) (bool, error) {
	query, args, err := sq.Update("vouchers").
		Set("usage_count", sq.Expr("usage_count + 1")).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "usage_count": observedCount}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to increment voucher usage: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
