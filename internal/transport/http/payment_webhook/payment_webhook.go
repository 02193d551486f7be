package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/quickeats/fulfillment/internal/service/models/payment"
	"github.com/quickeats/fulfillment/internal/transport/http/respond"
	"github.com/spf13/viper"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Payment-Signature"

const maxBodyBytes = 1 << 20

// service is the payment reconciliation interface.
type service interface {
	HandleEvent(ctx context.Context, ev payment.Event) error
}

// webhookEvent mirrors the provider's event envelope. The order reference
// travels in the payment intent's metadata.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string `json:"id"`
			Metadata struct {
				OrderID string `json:"order_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (e *webhookEvent) toModel() payment.Event {
	// A missing or malformed order reference maps to zero; the reconciler
	// logs and drops such events instead of failing the delivery.
	orderID, _ := strconv.ParseInt(e.Data.Object.Metadata.OrderID, 10, 64)

	return payment.Event{
		ID:         e.ID,
		Type:       payment.EventType(e.Type),
		PaymentRef: e.Data.Object.ID,
		OrderID:    orderID,
	}
}

// HandleWebhook verifies the provider signature and reconciles the event.
// Once signature verification and parsing succeed the delivery is always
// acknowledged, even when reconciliation fails: the provider's retries
// cannot fix an internal failure, and the logged event id is the handle for
// manual reconciliation.
func HandleWebhook(w http.ResponseWriter, r *http.Request, service service) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respond.BadRequest(w, "failed to read request body")
		slog.Error("Error reading payment webhook body", "error", err)

		return
	}

	if !verifySignature(body, r.Header.Get(SignatureHeader)) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		slog.Warn("Payment webhook signature verification failed")

		return
	}

	event := webhookEvent{}
	if err := json.Unmarshal(body, &event); err != nil {
		respond.BadRequest(w, "invalid event payload")
		slog.Error("Error decoding payment webhook payload", "error", err)

		return
	}

	if err := service.HandleEvent(r.Context(), event.toModel()); err != nil {
		slog.Error("Error reconciling payment event, acknowledged for manual reconciliation",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err,
		)
	}

	w.WriteHeader(http.StatusOK)
}

func verifySignature(body []byte, signature string) bool {
	secret := viper.GetString("payments.webhook_secret")
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
