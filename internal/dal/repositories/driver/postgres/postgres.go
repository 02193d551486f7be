package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/driver"
)

type PostgresDriverRepository struct {
	conn postgres.Querier
}

func NewPostgresDriverRepository(conn postgres.Querier) *PostgresDriverRepository {
	return &PostgresDriverRepository{
		conn: conn,
	}
}

// GetByID retrieves one driver, or nil when it does not exist.
func (r *PostgresDriverRepository) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	query, args, err := sq.Select(
		"id",
		"user_id",
		"pickup_zone",
		"status",
		"total_deliveries",
		"total_earnings_cents",
		"created_at",
		"updated_at",
	).
		From("drivers").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var d driver.Driver
	var status string
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&d.ID,
		&d.UserID,
		&d.PickupZone,
		&status,
		&d.TotalDeliveries,
		&d.TotalEarningsCents,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	if d.Status, err = driver.ParseStatus(status); err != nil {
		return nil, err
	}

	return &d, nil
}

// AddDelivery increments the delivery and earnings totals in one statement,
// so concurrent confirmations can never lose an increment.
func (r *PostgresDriverRepository) AddDelivery(ctx context.Context, id int64, earningsCents int64) error {
	query, args, err := sq.Update("drivers").
		Set("total_deliveries", sq.Expr("total_deliveries + 1")).
		Set("total_earnings_cents", sq.Expr("total_earnings_cents + ?", earningsCents)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add driver delivery: %w", err)
	}

	return nil
}
