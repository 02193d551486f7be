package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/services/fulfillmentsvc"
	"github.com/quickeats/fulfillment/internal/transport/http/respond"
	"github.com/quickeats/fulfillment/pkg/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, req fulfillmentsvc.CreateOrderRequest) (*order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	MenuItemID   int64  `json:"menuItemId"   validate:"gt=0"`
	Quantity     int    `json:"quantity"     validate:"gt=0"`
	Instructions string `json:"instructions"`
}

// guestInCreateOrderRequest carries guest contact info for guest checkout.
type guestInCreateOrderRequest struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	Guest            *guestInCreateOrderRequest `json:"guest"            validate:"omitempty"`
	RestaurantID     int64                      `json:"restaurantId"     validate:"gt=0"`
	Items            []itemInCreateOrderRequest `json:"items"            validate:"required,min=1,dive"`
	DeliveryAddress  string                     `json:"deliveryAddress"  validate:"required"`
	DeliveryCity     string                     `json:"deliveryCity"     validate:"required"`
	DeliveryPostcode string                     `json:"deliveryPostcode"`
	DeliveryLat      float64                    `json:"deliveryLat"`
	DeliveryLng      float64                    `json:"deliveryLng"`
	ScheduledAt      time.Time                  `json:"scheduledAt"`
	PaymentMethod    string                     `json:"paymentMethod"    validate:"required"`
	VoucherCode      string                     `json:"voucherCode"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts the request and the resolved identity to the service
// request. Registered callers order under their own id; everyone else must
// provide guest contact details.
func (r *createOrderRequest) toModel(act actor.Actor, authenticated bool) (*fulfillmentsvc.CreateOrderRequest, bool) {
	var customer order.CustomerIdentity
	switch {
	case authenticated && act.Role == actor.RoleCustomer:
		customer = order.Registered(act.ID)
	case r.Guest != nil:
		customer = order.Guest(order.GuestContact{
			Name:  r.Guest.Name,
			Phone: r.Guest.Phone,
			Email: r.Guest.Email,
		})
	default:
		return nil, false
	}

	items := make([]fulfillmentsvc.CreateOrderItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = fulfillmentsvc.CreateOrderItemInput{
			MenuItemID:   item.MenuItemID,
			Quantity:     item.Quantity,
			Instructions: item.Instructions,
		}
	}

	return &fulfillmentsvc.CreateOrderRequest{
		Customer:         customer,
		RestaurantID:     r.RestaurantID,
		Items:            items,
		DeliveryAddress:  r.DeliveryAddress,
		DeliveryCity:     r.DeliveryCity,
		DeliveryPostcode: r.DeliveryPostcode,
		DeliveryLat:      r.DeliveryLat,
		DeliveryLng:      r.DeliveryLng,
		ScheduledAt:      r.ScheduledAt,
		PaymentMethod:    r.PaymentMethod,
		VoucherCode:      r.VoucherCode,
	}, true
}

// createOrderResponse exposes the delivery confirmation code once, at
// creation time. It is never returned from read endpoints.
type createOrderResponse struct {
	order.Order
	DeliveryCode string `json:"deliveryCode"`
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		respond.BadRequest(w, "invalid request body")
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	act, authenticated := auth.FromContext(r.Context())
	model, ok := orderReq.toModel(act, authenticated)
	if !ok {
		respond.BadRequest(w, "either an authenticated customer or guest contact details are required")

		return
	}

	created, err := service.CreateOrder(r.Context(), *model)
	if err != nil {
		respond.Err(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, createOrderResponse{
		Order:        *created,
		DeliveryCode: created.DeliveryCode,
	})
}
