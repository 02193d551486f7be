package notification

import (
	"time"

	"github.com/google/uuid"
)

// Message is a notification record waiting in the outbox to be published to
// RabbitMQ. MessageID lets the consumer side deduplicate redeliveries.
type Message struct {
	ID          int64
	MessageID   uuid.UUID
	UserID      int64
	Type        string
	Title       string
	Body        string
	Payload     []byte
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
