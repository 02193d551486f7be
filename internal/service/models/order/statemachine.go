package order

import "github.com/quickeats/fulfillment/internal/service/models/actor"

// transitions is the authoritative status graph. delivered and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusNew:            {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusAssigned, StatusCancelled},
	StatusAssigned:       {StatusInTransit, StatusCancelled},
	StatusInTransit:      {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// CanTransition reports whether from -> to is a legal status transition.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// roleRequests lists the target statuses each role may request. Admins may
// request anything. Ownership (the restaurant owns the order, the driver is
// assigned to it) is checked by the caller; this predicate is role-level only.
var roleRequests = map[actor.Role][]Status{
	actor.RoleRestaurant: {StatusConfirmed, StatusPreparing, StatusReadyForPickup, StatusCancelled},
	actor.RoleDriver:     {StatusAssigned, StatusInTransit, StatusDelivered},
}

// RoleMayRequest reports whether the given role may request the transition
// from -> to at all. It does not consult the transition table.
func RoleMayRequest(role actor.Role, from, to Status) bool {
	if role == actor.RoleAdmin {
		return true
	}
	for _, s := range roleRequests[role] {
		if s == to {
			return true
		}
	}

	return false
}
