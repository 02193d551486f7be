package irestaurantrepo

import (
	"context"

	"github.com/quickeats/fulfillment/internal/service/models/restaurant"
)

// IRestaurantRepository reads the restaurant records owned by the menu
// management service.
type IRestaurantRepository interface {
	GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error)
}
