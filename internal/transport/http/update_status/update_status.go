package updatestatus

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
	TransitionStatus(ctx context.Context, act actor.Actor, orderID int64, requested order.Status, deliveryCode string, driverID int64) (*order.Order, error)
}

type updateStatusRequest struct {
	Status       string `json:"status"`
	DeliveryCode string `json:"deliveryCode"`
	// DriverID names the driver an admin assigns; drivers accept as
	// themselves and leave it empty.
	DriverID int64 `json:"driverId"`
}

// UpdateStatus handles a status transition request.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.BadRequest(w, "invalid order id")

		return
	}

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respond.BadRequest(w, "unknown status "+req.Status)

		return
	}

	act, _ := auth.FromContext(r.Context())

	updated, err := service.TransitionStatus(r.Context(), act, orderID, status, req.DeliveryCode, req.DriverID)
	if err != nil {
		respond.Err(w, err)
		slog.Error("Error updating order status", "order_id", orderID, "status", status, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
