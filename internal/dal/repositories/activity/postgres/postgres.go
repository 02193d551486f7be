package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/activitylog"
)

type PostgresActivityRepository struct {
	conn postgres.Querier
}

func NewPostgresActivityRepository(conn postgres.Querier) *PostgresActivityRepository {
	return &PostgresActivityRepository{
		conn: conn,
	}
}

// Insert appends an audit record.
func (r *PostgresActivityRepository) Insert(ctx context.Context, entry activitylog.Entry) error {
	query, args, err := sq.Insert("activity_log").
		Columns(
			"actor_id",
			"actor_role",
			"entity_type",
			"entity_id",
			"action",
			"details",
			"created_at",
		).
		Values(
			entry.ActorID,
			entry.ActorRole,
			entry.EntityType,
			entry.EntityID,
			entry.Action,
			entry.Details,
			entry.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}

	return nil
}
