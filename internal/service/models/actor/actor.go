package actor

import "errors"

// Role identifies the kind of actor making a request.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleDriver     Role = "driver"
	RoleAdmin      Role = "admin"

	// RoleGuest and RoleSystem attribute audit records for actions with no
	// gateway-resolved identity: guest checkout and provider-driven payment
	// reconciliation. ParseRole never produces them.
	RoleGuest  Role = "guest"
	RoleSystem Role = "system"
)

var ErrInvalidRole = errors.New("invalid role")

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	switch s {
	case RoleCustomer.String():
		return RoleCustomer, nil
	case RoleRestaurant.String():
		return RoleRestaurant, nil
	case RoleDriver.String():
		return RoleDriver, nil
	case RoleAdmin.String():
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// Actor is the identity resolved by the upstream gateway. RestaurantID and
// DriverID are zero unless the role carries them.
type Actor struct {
	ID           int64
	Role         Role
	RestaurantID int64
	DriverID     int64
}
