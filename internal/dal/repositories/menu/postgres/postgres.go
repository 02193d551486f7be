package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/menuitem"
)

type PostgresMenuRepository struct {
	conn postgres.Querier
}

func NewPostgresMenuRepository(conn postgres.Querier) *PostgresMenuRepository {
	return &PostgresMenuRepository{
		conn: conn,
	}
}

// GetByIDs retrieves the requested menu items. Missing ids are simply absent
// from the result; the caller decides whether that is an error.
func (r *PostgresMenuRepository) GetByIDs(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
	if len(ids) == 0 {
		return []menuitem.MenuItem{}, nil
	}

	query, args, err := sq.Select(
		"id",
		"restaurant_id",
		"name",
		"price_cents",
		"available",
		"created_at",
		"updated_at",
	).
		From("menu_items").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var result []menuitem.MenuItem
	for rows.Next() {
		var item menuitem.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.Name,
			&item.PriceCents,
			&item.Available,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
