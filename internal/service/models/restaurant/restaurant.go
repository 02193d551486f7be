package restaurant

import "time"

// Restaurant is the read model this service needs: the owner for
// notifications, the region for driver pickup-zone matching, and coordinates
// for the delivery-fee calculator.
type Restaurant struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerId"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	City      string    `json:"city"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedAt time.Time `json:"createdAt"`
}
