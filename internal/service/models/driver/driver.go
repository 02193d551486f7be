package driver

import (
	"database/sql/driver"
	"errors"
	"time"
)

// Status is the account state of a driver. Only active drivers may accept
// orders.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

var ErrInvalidDriverStatus = errors.New("invalid driver status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusPending, StatusActive, StatusInactive, StatusSuspended:
		return Status(v), nil
	default:
		return "", ErrInvalidDriverStatus
	}
}

// Driver is a delivery driver. TotalDeliveries and TotalEarningsCents are
// incremented exactly once per order reaching the delivered state.
type Driver struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"userId"`
	PickupZone         string    `json:"pickupZone"`
	Status             Status    `json:"status"`
	TotalDeliveries    int64     `json:"totalDeliveries"`
	TotalEarningsCents int64     `json:"totalEarningsCents"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
