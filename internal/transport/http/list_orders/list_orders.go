package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/transport/http/respond"
	"github.com/quickeats/fulfillment/pkg/http/middleware/auth"
)

type service interface {
	GetOrders(ctx context.Context, model order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids         []int64 `schema:"ids,omitempty"`
	CustomerIds []int64 `schema:"customerIds,omitempty"`
	Limit       int     `schema:"limit,omitempty"`
	Offset      int     `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) toModel() order.QueryOrdersModel {
	return order.QueryOrdersModel{
		Ids:         q.Ids,
		CustomerIds: q.CustomerIds,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}

// ListOrders handles the order listing request. Customers only ever see
// their own orders regardless of the filter they send.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error decoding request", "error", err)

		return
	}

	model := query.toModel()

	act, _ := auth.FromContext(r.Context())
	if act.Role == actor.RoleCustomer {
		model.CustomerIds = []int64{act.ID}
	}

	orders, err := service.GetOrders(r.Context(), model)
	if err != nil {
		respond.Err(w, err)
		slog.Error("Error getting orders", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}
