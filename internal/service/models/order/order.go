package order

import (
	"errors"
	"time"

	"github.com/quickeats/fulfillment/internal/service/models/orderitem"
)

// ErrOrderNumberConflict is returned by the repository when an insert hits
// the unique constraint on order_number. The caller regenerates the number
// and retries once.
var ErrOrderNumberConflict = errors.New("order number already exists")

// Order represents one customer transaction with one restaurant.
type Order struct {
	ID               int64                 `json:"id"`
	OrderNumber      string                `json:"orderNumber"`
	Status           Status                `json:"status"`
	Customer         CustomerIdentity      `json:"customer"`
	RestaurantID     int64                 `json:"restaurantId"`
	DriverID         *int64                `json:"driverId,omitempty"`
	DeliveryAddress  string                `json:"deliveryAddress"`
	DeliveryCity     string                `json:"deliveryCity"`
	DeliveryPostcode string                `json:"deliveryPostcode"`
	DeliveryLat      float64               `json:"deliveryLat"`
	DeliveryLng      float64               `json:"deliveryLng"`
	ScheduledAt      time.Time             `json:"scheduledAt"`
	DeliveredAt      *time.Time            `json:"deliveredAt,omitempty"`
	SubtotalCents    int64                 `json:"subtotalCents"`
	DeliveryFeeCents int64                 `json:"deliveryFeeCents"`
	DiscountCents    int64                 `json:"discountCents"`
	TaxCents         int64                 `json:"taxCents"`
	TotalCents       int64                 `json:"totalCents"`
	PaymentStatus    PaymentStatus         `json:"paymentStatus"`
	PaymentMethod    string                `json:"paymentMethod,omitempty"`
	PaymentRef       string                `json:"paymentRef,omitempty"`
	VoucherCode      string                `json:"voucherCode,omitempty"`
	DeliveryCode     string                `json:"-"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	OrderItems       []orderitem.OrderItem `json:"orderItems"`
}
