package iorderitemrepo

import (
	"context"

	"github.com/quickeats/fulfillment/internal/service/models/orderitem"
)

// IOrderItemRepository is the order-item data-access interface. Items are
// written once with their order and never mutated.
type IOrderItemRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	QueryByOrderIDs(ctx context.Context, orderIDs []int64) ([]orderitem.OrderItem, error)
}
