package imenurepo

import (
	"context"

	"github.com/quickeats/fulfillment/internal/service/models/menuitem"
)

// IMenuRepository reads live menu items. This is the single read of live
// menu data during order creation; prices are frozen on the order item
// afterwards.
type IMenuRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error)
}
