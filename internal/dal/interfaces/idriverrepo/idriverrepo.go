package idriverrepo

import (
	"context"

	"github.com/quickeats/fulfillment/internal/service/models/driver"
)

// IDriverRepository is the driver data-access interface.
type IDriverRepository interface {
	GetByID(ctx context.Context, id int64) (*driver.Driver, error)

	// AddDelivery increments the driver's delivery and earnings totals in a
	// single atomic statement.
	AddDelivery(ctx context.Context, id int64, earningsCents int64) error
}
