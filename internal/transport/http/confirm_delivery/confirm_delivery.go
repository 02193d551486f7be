package confirmdelivery

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/transport/http/respond"
	"github.com/quickeats/fulfillment/pkg/http/middleware/auth"
)

type service interface {
	ConfirmDelivery(ctx context.Context, act actor.Actor, orderID int64, deliveryCode string) (*order.Order, error)
}

type confirmDeliveryRequest struct {
	DeliveryCode string `json:"deliveryCode"`
}

// ConfirmDelivery handles the driver's delivery confirmation with the code
// obtained from the customer.
func ConfirmDelivery(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.BadRequest(w, "invalid order id")

		return
	}

	req := confirmDeliveryRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		slog.Error("Error decoding request body for delivery confirmation", "error", err)

		return
	}

	if req.DeliveryCode == "" {
		respond.BadRequest(w, "deliveryCode is required")

		return
	}

	act, _ := auth.FromContext(r.Context())

	delivered, err := service.ConfirmDelivery(r.Context(), act, orderID, req.DeliveryCode)
	if err != nil {
		respond.Err(w, err)
		slog.Error("Error confirming delivery", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, delivered)
}
