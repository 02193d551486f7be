package inotificationrepo

import (
	"context"
	"time"

	"github.com/quickeats/fulfillment/internal/service/models/notification"
)

// INotificationRepository defines the notification outbox operations.
type INotificationRepository interface {
	// Insert adds a new notification record to the outbox
	Insert(ctx context.Context, msg notification.Message) error

	// GetPendingMessages retrieves records that are ready for publishing
	GetPendingMessages(ctx context.Context, limit int) ([]notification.Message, error)

	// Delete removes a record from the outbox after successful delivery
	Delete(ctx context.Context, id int64) error

	// UpdateRetry updates retry count and error information
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
