package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/notification"
)

// PostgresNotificationRepository implements the notification outbox for
// PostgreSQL.
type PostgresNotificationRepository struct {
	conn postgres.Querier
}

func NewPostgresNotificationRepository(conn postgres.Querier) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{
		conn: conn,
	}
}

// Insert adds a new notification record to the outbox.
func (r *PostgresNotificationRepository) Insert(ctx context.Context, msg notification.Message) error {
	query, args, err := sq.Insert("notification_outbox").
		Columns(
			"message_id",
			"user_id",
			"type",
			"title",
			"body",
			"payload",
			"retry_count",
			"max_retries",
			"last_error",
			"created_at",
			"updated_at",
			"next_retry_at",
		).
		Values(
			msg.MessageID,
			msg.UserID,
			msg.Type,
			msg.Title,
			msg.Body,
			msg.Payload,
			msg.RetryCount,
			msg.MaxRetries,
			msg.LastError,
			msg.CreatedAt,
			msg.UpdatedAt,
			msg.NextRetryAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// GetPendingMessages retrieves records that are ready for publishing.
func (r *PostgresNotificationRepository) GetPendingMessages(
	ctx context.Context,
	limit int,
) ([]notification.Message, error) {
	query, args, err := sq.Select(
		"id",
		"message_id",
		"user_id",
		"type",
		"title",
		"body",
		"payload",
		"retry_count",
		"max_retries",
		"last_error",
		"created_at",
		"updated_at",
		"next_retry_at",
	).
		From("notification_outbox").
		Where(sq.LtOrEq{"next_retry_at": time.Now()}).
		Where(sq.Expr("retry_count < max_retries")).
		OrderBy("next_retry_at ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var messages []notification.Message
	for rows.Next() {
		var msg notification.Message
		err := rows.Scan(
			&msg.ID,
			&msg.MessageID,
			&msg.UserID,
			&msg.Type,
			&msg.Title,
			&msg.Body,
			&msg.Payload,
			&msg.RetryCount,
			&msg.MaxRetries,
			&msg.LastError,
			&msg.CreatedAt,
			&msg.UpdatedAt,
			&msg.NextRetryAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return messages, nil
}

// Delete removes a record from the outbox after successful delivery.
func (r *PostgresNotificationRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("notification_outbox").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	return nil
}

// UpdateRetry updates retry count and error information.
func (r *PostgresNotificationRepository) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	query, args, err := sq.Update("notification_outbox").
		Set("retry_count", retryCount).
		Set("last_error", lastError).
		Set("next_retry_at", nextRetryAt).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	return nil
}
