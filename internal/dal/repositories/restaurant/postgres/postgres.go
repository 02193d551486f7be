package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/restaurant"
)

type PostgresRestaurantRepository struct {
	conn postgres.Querier
}

func NewPostgresRestaurantRepository(conn postgres.Querier) *PostgresRestaurantRepository {
	return &PostgresRestaurantRepository{
		conn: conn,
	}
}

// GetByID retrieves one restaurant, or nil when it does not exist.
func (r *PostgresRestaurantRepository) GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
	query, args, err := sq.Select(
		"id",
		"owner_id",
		"name",
		"region",
		"city",
		"lat",
		"lng",
		"created_at",
	).
		From("restaurants").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var rest restaurant.Restaurant
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&rest.ID,
		&rest.OwnerID,
		&rest.Name,
		&rest.Region,
		&rest.City,
		&rest.Lat,
		&rest.Lng,
		&rest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return &rest, nil
}
