package order

import (
	"database/sql/driver"
	"errors"
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusNew            Status = "new"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusAssigned       Status = "assigned"
	StatusInTransit      Status = "in_transit"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusNew, StatusConfirmed, StatusPreparing, StatusReadyForPickup,
		StatusAssigned, StatusInTransit, StatusDelivered, StatusCancelled:
		return Status(v), nil
	default:
		return "", ErrInvalidStatus
	}
}

// PaymentStatus is the state of the order's payment, reconciled from
// payment-provider events.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParsePaymentStatus(v string) (PaymentStatus, error) {
	switch PaymentStatus(v) {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return PaymentStatus(v), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}
