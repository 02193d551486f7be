package orderitem

import "time"

// OrderItem is a line-item snapshot. Name and unit price are copied from the
// menu at order time so later menu edits never alter historical orders.
type OrderItem struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"orderId"`
	MenuItemID     int64     `json:"menuItemId"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	SubtotalCents  int64     `json:"subtotalCents"`
	Instructions   string    `json:"instructions,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
