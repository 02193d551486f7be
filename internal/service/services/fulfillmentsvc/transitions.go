package fulfillmentsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/driver"
	"github.com/quickeats/fulfillment/internal/service/models/order"
)

// statusNotices maps each new status to the customer-facing notification.
var statusNotices = map[order.Status]notifyRecipient{
	order.StatusConfirmed:      {typ: "order_confirmed", title: "Order confirmed", body: "The restaurant has confirmed your order"},
	order.StatusPreparing:      {typ: "order_preparing", title: "Order in preparation", body: "Your order is being prepared"},
	order.StatusReadyForPickup: {typ: "order_ready", title: "Order ready", body: "Your order is ready and waiting for a driver"},
	order.StatusAssigned:       {typ: "order_assigned", title: "Driver assigned", body: "A driver has been assigned to your order"},
	order.StatusInTransit:      {typ: "order_in_transit", title: "Order on the way", body: "Your order is on its way"},
	order.StatusDelivered:      {typ: "order_delivered", title: "Order delivered", body: "Your order has been delivered"},
	order.StatusCancelled:      {typ: "order_cancelled", title: "Order cancelled", body: "Your order has been cancelled"},
}

// restaurantNotices lists the statuses the restaurant owner is notified
// about.
var restaurantNotices = map[order.Status]bool{
	order.StatusAssigned:  true,
	order.StatusDelivered: true,
	order.StatusCancelled: true,
}

// TransitionStatus applies a requested status transition on behalf of an
// actor. Driver accept and delivery confirmation are routed to their
// dedicated operations because they carry extra preconditions.
func (s *FulfillmentService) TransitionStatus(ctx context.Context, act actor.Actor, orderID int64, requested order.Status, deliveryCode string, driverID int64) (*order.Order, error) {
	switch requested {
	case order.StatusAssigned:
		if act.Role == actor.RoleAdmin {
			if driverID == 0 {
				return nil, apperr.New(apperr.KindValidation, "driverId is required to assign a driver")
			}

			return s.assignDriver(ctx, act, orderID, driverID)
		}

		return s.AcceptOrder(ctx, act, orderID)
	case order.StatusDelivered:
		return s.ConfirmDelivery(ctx, act, orderID, deliveryCode)
	}

	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to load order", err)
	}
	if o == nil {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}

	if err := authorizeTransition(act, o, requested); err != nil {
		return nil, err
	}

	if !order.CanTransition(o.Status, requested) {
		return nil, apperr.Newf(apperr.KindInvalidStatus, "cannot move order from %s to %s", o.Status, requested)
	}

	applied, err := work.OrderRepository().Transition(ctx, o.ID, o.Status, requested)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to transition order", err)
	}
	if !applied {
		// A concurrent request changed the status after we read it.
		return nil, apperr.Newf(apperr.KindInvalidStatus, "order is no longer in status %s", o.Status)
	}

	o.Status = requested
	s.afterTransition(act, work, o)

	return o, nil
}

// authorizeTransition enforces the role predicate plus ownership: a
// restaurant may only drive its own orders, a driver only orders assigned to
// them.
func authorizeTransition(act actor.Actor, o *order.Order, requested order.Status) error {
	if !order.RoleMayRequest(act.Role, o.Status, requested) {
		return apperr.New(apperr.KindUnauthorized, "actor may not request this transition")
	}

	switch act.Role {
	case actor.RoleAdmin:
		return nil
	case actor.RoleRestaurant:
		if act.RestaurantID != o.RestaurantID {
			return apperr.New(apperr.KindUnauthorized, "order belongs to another restaurant")
		}
	case actor.RoleDriver:
		if o.DriverID == nil || *o.DriverID != act.DriverID {
			return apperr.New(apperr.KindUnauthorized, "order is not assigned to this driver")
		}
	default:
		return apperr.New(apperr.KindUnauthorized, "actor may not request this transition")
	}

	return nil
}

// AcceptOrder is the driver "accept" action: ready_for_pickup -> assigned.
// This is the only transition an actor may request without already being
// attached to the order.
func (s *FulfillmentService) AcceptOrder(ctx context.Context, act actor.Actor, orderID int64) (*order.Order, error) {
	if act.Role != actor.RoleDriver || act.DriverID == 0 {
		return nil, apperr.New(apperr.KindUnauthorized, "only drivers may accept orders")
	}

	return s.assignDriver(ctx, act, orderID, act.DriverID)
}

// assignDriver attaches driverID to a ready_for_pickup order. The driver
// must be active and zoned to the restaurant regardless of who requests the
// assignment; the conditional write keeps the first acceptance.
func (s *FulfillmentService) assignDriver(ctx context.Context, act actor.Actor, orderID, driverID int64) (*order.Order, error) {
	work := s.newUOW()

	d, err := work.DriverRepository().GetByID(ctx, driverID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to load driver", err)
	}
	if d == nil {
		return nil, apperr.New(apperr.KindNotFound, "driver not found")
	}
	if d.Status != driver.StatusActive {
		return nil, apperr.New(apperr.KindDriverInactive, "driver account is not active")
	}

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to load order", err)
	}
	if o == nil {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	if o.Status != order.StatusReadyForPickup {
		return nil, apperr.Newf(apperr.KindInvalidStatus, "order is %s, not ready for pickup", o.Status)
	}
	if o.DriverID != nil {
		return nil, apperr.New(apperr.KindAlreadyAssigned, "order already has a driver")
	}

	rest, err := work.RestaurantRepository().GetByID(ctx, o.RestaurantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to load restaurant", err)
	}
	if rest == nil {
		return nil, apperr.New(apperr.KindNotFound, "restaurant not found")
	}
	if rest.Region != d.PickupZone {
		return nil, apperr.Newf(apperr.KindZoneMismatch, "restaurant region %s does not match driver zone %s", rest.Region, d.PickupZone)
	}

	applied, err := work.OrderRepository().AssignDriver(ctx, o.ID, d.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to assign driver", err)
	}
	if !applied {
		// Another driver accepted between our read and the write.
		return nil, apperr.New(apperr.KindAlreadyAssigned, "order already has a driver")
	}

	o.Status = order.StatusAssigned
	o.DriverID = &d.ID
	s.afterTransition(act, work, o)

	return o, nil
}

// ConfirmDelivery completes an in_transit order. The caller must present the
// delivery code generated at order creation; without it no mutation happens,
// regardless of role. The delivered write and the driver totals increment
// share one transaction, so the totals move exactly once per delivered
// order.
func (s *FulfillmentService) ConfirmDelivery(ctx context.Context, act actor.Actor, orderID int64, deliveryCode string) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to load order", err)
	}
	if o == nil {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}

	switch act.Role {
	case actor.RoleAdmin:
	case actor.RoleDriver:
		if o.DriverID == nil || *o.DriverID != act.DriverID {
			return nil, apperr.New(apperr.KindUnauthorized, "order is not assigned to this driver")
		}
	default:
		return nil, apperr.New(apperr.KindUnauthorized, "actor may not confirm delivery")
	}

	if o.Status != order.StatusInTransit {
		return nil, apperr.Newf(apperr.KindInvalidStatus, "order is %s, not in transit", o.Status)
	}
	if deliveryCode != o.DeliveryCode {
		return nil, apperr.New(apperr.KindInvalidDeliveryCode, "delivery code does not match")
	}

	now := time.Now()

	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to begin transaction", err)
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	applied, err := work.OrderRepository().MarkDelivered(ctx, o.ID, now)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to mark order delivered", err)
	}
	if !applied {
		return nil, apperr.New(apperr.KindInvalidStatus, "order is no longer in transit")
	}

	if o.DriverID != nil {
		if err := work.DriverRepository().AddDelivery(ctx, *o.DriverID, o.DeliveryFeeCents); err != nil {
			return nil, apperr.Wrap(apperr.KindDatabase, "failed to update driver totals", err)
		}
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to commit delivery", err)
	}

	o.Status = order.StatusDelivered
	o.DeliveredAt = &now
	s.afterTransition(act, s.newUOW(), o)

	return o, nil
}

// TransitionForPayment applies a transition on behalf of the payment
// provider rather than a gateway actor. The write is guarded by the status
// the caller observed; a successful move owes the same notifications and
// audit record as an actor-requested one, attributed to the system.
func (s *FulfillmentService) TransitionForPayment(ctx context.Context, o *order.Order, to order.Status) (bool, error) {
	if !order.CanTransition(o.Status, to) {
		return false, apperr.Newf(apperr.KindInvalidStatus, "cannot move order from %s to %s", o.Status, to)
	}

	work := s.newUOW()

	applied, err := work.OrderRepository().Transition(ctx, o.ID, o.Status, to)
	if err != nil {
		return false, apperr.Wrap(apperr.KindDatabase, "failed to transition order", err)
	}
	if !applied {
		return false, nil
	}

	o.Status = to
	s.afterTransition(actor.Actor{Role: actor.RoleSystem}, work, o)

	return true, nil
}

// afterTransition enqueues the notifications a successful transition owes
// and appends the audit record. All failures here are logged and swallowed.
func (s *FulfillmentService) afterTransition(act actor.Actor, work unitOfWork, o *order.Order) {
	lookupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recipients := make([]notifyRecipient, 0, 3)

	if notice, ok := statusNotices[o.Status]; ok && o.Customer.IsRegistered() {
		notice.userID = o.Customer.CustomerID
		recipients = append(recipients, notice)
	}

	if restaurantNotices[o.Status] {
		rest, err := work.RestaurantRepository().GetByID(lookupCtx, o.RestaurantID)
		if err != nil || rest == nil {
			slog.Error("Failed to resolve restaurant owner for notification", "order_id", o.ID, "error", err)
		} else {
			recipients = append(recipients, notifyRecipient{
				userID: rest.OwnerID,
				typ:    "order_" + o.Status.String(),
				title:  "Order " + o.OrderNumber,
				body:   "Order " + o.OrderNumber + " is now " + o.Status.String(),
			})
		}
	}

	if o.Status == order.StatusReadyForPickup && o.DriverID != nil {
		d, err := work.DriverRepository().GetByID(lookupCtx, *o.DriverID)
		if err != nil || d == nil {
			slog.Error("Failed to resolve driver for notification", "order_id", o.ID, "error", err)
		} else {
			recipients = append(recipients, notifyRecipient{
				userID: d.UserID,
				typ:    "order_ready",
				title:  "Order ready for pickup",
				body:   "Order " + o.OrderNumber + " is ready for pickup",
			})
		}
	}

	s.enqueueNotifications(work.NotificationRepository(), o, recipients)

	s.logActivity(work.ActivityRepository(), act, "order", o.ID, "status_"+o.Status.String(), map[string]any{
		"order_number": o.OrderNumber,
		"status":       o.Status,
	})
}
