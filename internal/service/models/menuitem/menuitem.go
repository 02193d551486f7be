package menuitem

import "time"

// MenuItem is the live menu read model. Orders snapshot Name and PriceCents
// at creation time and never read the menu again.
type MenuItem struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurantId"`
	Name         string    `json:"name"`
	PriceCents   int64     `json:"priceCents"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
