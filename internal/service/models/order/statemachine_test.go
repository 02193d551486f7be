package order

import (
	"testing"

	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "new_to_confirmed", from: StatusNew, to: StatusConfirmed, want: true},
		{name: "confirmed_to_preparing", from: StatusConfirmed, to: StatusPreparing, want: true},
		{name: "preparing_to_ready", from: StatusPreparing, to: StatusReadyForPickup, want: true},
		{name: "ready_to_assigned", from: StatusReadyForPickup, to: StatusAssigned, want: true},
		{name: "assigned_to_in_transit", from: StatusAssigned, to: StatusInTransit, want: true},
		{name: "in_transit_to_delivered", from: StatusInTransit, to: StatusDelivered, want: true},
		{name: "every_active_status_can_cancel", from: StatusInTransit, to: StatusCancelled, want: true},
		{name: "no_skipping_ahead", from: StatusNew, to: StatusPreparing, want: false},
		{name: "no_going_back", from: StatusPreparing, to: StatusConfirmed, want: false},
		{name: "delivered_is_terminal", from: StatusDelivered, to: StatusCancelled, want: false},
		{name: "cancelled_is_terminal", from: StatusCancelled, to: StatusNew, want: false},
		{name: "no_self_transition", from: StatusPreparing, to: StatusPreparing, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDelivered))
	assert.True(t, IsTerminal(StatusCancelled))

	for _, s := range []Status{StatusNew, StatusConfirmed, StatusPreparing, StatusReadyForPickup, StatusAssigned, StatusInTransit} {
		assert.False(t, IsTerminal(s), "status %s must not be terminal", s)
	}
}

func TestRoleMayRequest(t *testing.T) {
	tests := []struct {
		name string
		role actor.Role
		to   Status
		want bool
	}{
		{name: "restaurant_confirms", role: actor.RoleRestaurant, to: StatusConfirmed, want: true},
		{name: "restaurant_prepares", role: actor.RoleRestaurant, to: StatusPreparing, want: true},
		{name: "restaurant_marks_ready", role: actor.RoleRestaurant, to: StatusReadyForPickup, want: true},
		{name: "restaurant_cancels", role: actor.RoleRestaurant, to: StatusCancelled, want: true},
		{name: "restaurant_cannot_deliver", role: actor.RoleRestaurant, to: StatusDelivered, want: false},
		{name: "driver_starts_transit", role: actor.RoleDriver, to: StatusInTransit, want: true},
		{name: "driver_delivers", role: actor.RoleDriver, to: StatusDelivered, want: true},
		{name: "driver_cannot_cancel", role: actor.RoleDriver, to: StatusCancelled, want: false},
		{name: "driver_cannot_confirm", role: actor.RoleDriver, to: StatusConfirmed, want: false},
		{name: "customer_cannot_confirm", role: actor.RoleCustomer, to: StatusConfirmed, want: false},
		{name: "customer_cannot_cancel_via_transition", role: actor.RoleCustomer, to: StatusCancelled, want: false},
		{name: "admin_may_request_anything", role: actor.RoleAdmin, to: StatusDelivered, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleMayRequest(tt.role, StatusNew, tt.to))
		})
	}
}
