package iorderrepo

import (
	"context"
	"time"

	"github.com/quickeats/fulfillment/internal/service/models/order"
)

// IOrderRepository is the order data-access interface. All status-changing
// writes are conditional on the expected prior state so that concurrent
// requests cannot silently overwrite each other; the bool result reports
// whether the write applied.
type IOrderRepository interface {
	// Insert persists a new order. Returns order.ErrOrderNumberConflict when
	// the generated order number is already taken.
	Insert(ctx context.Context, o order.Order) (order.Order, error)

	GetByID(ctx context.Context, id int64) (*order.Order, error)

	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// Transition moves the order from -> to, guarded by the current status.
	Transition(ctx context.Context, id int64, from, to order.Status) (bool, error)

	// AssignDriver sets the driver on a ready_for_pickup order with no driver
	// yet and moves it to assigned. First writer wins.
	AssignDriver(ctx context.Context, id, driverID int64) (bool, error)

	// MarkDelivered moves an in_transit order to delivered and records the
	// actual delivery time.
	MarkDelivered(ctx context.Context, id int64, deliveredAt time.Time) (bool, error)

	// SetPaymentStatus updates the payment status (and provider reference if
	// non-empty) unless it already has that value.
	SetPaymentStatus(ctx context.Context, id int64, status order.PaymentStatus, paymentRef string) (bool, error)
}
