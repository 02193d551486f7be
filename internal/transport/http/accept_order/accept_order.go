package acceptorder

import (
	"context"
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
	AcceptOrder(ctx context.Context, act actor.Actor, orderID int64) (*order.Order, error)
}

// AcceptOrder handles a driver claiming a ready order.
func AcceptOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.BadRequest(w, "invalid order id")

		return
	}

	act, _ := auth.FromContext(r.Context())

	accepted, err := service.AcceptOrder(r.Context(), act, orderID)
	if err != nil {
		respond.Err(w, err)
		slog.Error("Error accepting order", "order_id", orderID, "driver_id", act.DriverID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, accepted)
}
