package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/quickeats/fulfillment/internal/dal/interfaces/inotificationrepo"
	"github.com/quickeats/fulfillment/internal/dal/rabbitmq"
	"github.com/quickeats/fulfillment/internal/service/models/notification"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// Worker drains the notification outbox table into RabbitMQ.
type Worker struct {
	notificationRepo inotificationrepo.INotificationRepository
	rabbitClient     *rabbitmq.Client
	exchangeName     string
	routingKey       string
	pollInterval     time.Duration
	batchSize        int
	stopCh           chan struct{}
}

// envelope is the wire shape published for each notification.
type envelope struct {
	MessageID string          `json:"message_id"`
	UserID    int64           `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewWorker creates a new outbox worker.
func NewWorker(
	notificationRepo inotificationrepo.INotificationRepository,
	rabbitClient *rabbitmq.Client,
) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	routingKey := viper.GetString("rabbitmq.outbox.routing_key")
	if routingKey == "" {
		routingKey = "notifications"
	}

	return &Worker{
		notificationRepo: notificationRepo,
		rabbitClient:     rabbitClient,
		exchangeName:     viper.GetString("rabbitmq.outbox.exchange"),
		routingKey:       routingKey,
		pollInterval:     time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:        batchSize,
		stopCh:           make(chan struct{}),
	}
}

// Start begins draining the outbox. It blocks until ctx is cancelled or Stop
// is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Notification outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Notification outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Notification outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// processMessages retrieves and publishes pending notifications.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.notificationRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending notifications from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Publishing pending notifications", "count", len(messages))

	for _, msg := range messages {
		if err := w.publish(msg); err != nil {
			// Schedule the next attempt with exponential backoff: 60s, 120s,
			// 240s and so on. The repository stops returning the row once
			// retry_count reaches max_retries.
			newRetryCount := msg.RetryCount + 1
			backoffSeconds := math.Pow(2, float64(newRetryCount)) * 30
			nextRetryAt := time.Now().Add(time.Duration(backoffSeconds) * time.Second)

			slog.Warn("Failed to publish notification, will retry",
				"outbox_id", msg.ID,
				"message_id", msg.MessageID,
				"retry_count", newRetryCount,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := w.notificationRepo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			continue
		}

		if err := w.notificationRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete notification after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)

			continue
		}

		slog.Info("Notification published and removed from outbox", "outbox_id", msg.ID, "message_id", msg.MessageID)
	}
}

func (w *Worker) publish(msg notification.Message) error {
	body, err := json.Marshal(envelope{
		MessageID: msg.MessageID.String(),
		UserID:    msg.UserID,
		Type:      msg.Type,
		Title:     msg.Title,
		Body:      msg.Body,
		Payload:   msg.Payload,
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		return err
	}

	return w.rabbitClient.Channel().Publish(
		w.exchangeName,
		w.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   msg.MessageID.String(),
			Body:        body,
		},
	)
}
