package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/loyalty"
)

type PostgresLoyaltyRepository struct {
	conn postgres.Querier
}

func NewPostgresLoyaltyRepository(conn postgres.Querier) *PostgresLoyaltyRepository {
	return &PostgresLoyaltyRepository{
		conn: conn,
	}
}

// GetBalance returns the customer's current point balance, zero when the
// customer has no balance row yet.
func (r *PostgresLoyaltyRepository) GetBalance(ctx context.Context, customerID int64) (int64, error) {
	query, args, err := sq.Select("points").
		From("loyalty_points").
		Where(sq.Eq{"customer_id": customerID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build select query: %w", err)
	}

	var points int64
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to get loyalty balance: %w", err)
	}

	return points, nil
}

// AddPoints credits points, creating the balance row on first award.
func (r *PostgresLoyaltyRepository) AddPoints(ctx context.Context, customerID, points int64) error {
	query, args, err := sq.Insert("loyalty_points").
		Columns("customer_id", "points", "updated_at").
		Values(customerID, points, time.Now()).
		Suffix("ON CONFLICT (customer_id) DO UPDATE SET points = loyalty_points.points + EXCLUDED.points, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add loyalty points: %w", err)
	}

	return nil
}

// SpendPoints debits points with a balance guard so two concurrent
// redemptions cannot overdraw. A false result means insufficient points.
func (r *PostgresLoyaltyRepository) SpendPoints(ctx context.Context, customerID, points int64) (bool, error) {
	query, args, err := sq.Update("loyalty_points").
		Set("points", sq.Expr("points - ?", points)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"customer_id": customerID}).
		Where(sq.Expr("points >= ?", points)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to spend loyalty points: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// InsertTransaction appends a ledger entry. The partial unique index on
// order_id makes a second earn for the same order a no-op, reported as
// false.
func (r *PostgresLoyaltyRepository) InsertTransaction(ctx context.Context, t loyalty.Transaction) (bool, error) {
	query, args, err := sq.Insert("loyalty_transactions").
		Columns("customer_id", "order_id", "points", "type", "created_at").
		Values(t.CustomerID, t.OrderID, t.Points, string(t.Type), t.CreatedAt).
		Suffix("ON CONFLICT (order_id) WHERE order_id IS NOT NULL DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert loyalty transaction: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
