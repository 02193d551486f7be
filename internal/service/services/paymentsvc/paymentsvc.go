package paymentsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quickeats/fulfillment/internal/dal/interfaces/iorderrepo"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	orderrepo "github.com/quickeats/fulfillment/internal/dal/repositories/order/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/models/payment"
)

// orderTransitions applies system-initiated status transitions with the full
// set of notification and audit side effects.
type orderTransitions interface {
	TransitionForPayment(ctx context.Context, o *order.Order, to order.Status) (bool, error)
}

// Reconciler applies payment-provider webhook events to order payment and
// status fields. Delivery is at-least-once and unordered, so every handler
// derives its effect from the currently stored state: re-applying an event
// is a no-op after the first application. Status moves go through the
// fulfillment transition primitive so payment-driven transitions notify and
// audit exactly like actor-requested ones.
type Reconciler struct {
	pgClient    *postgres.Client
	orderRepo   iorderrepo.IOrderRepository
	transitions orderTransitions
}

// option is a function that configures the Reconciler.
type option func(*Reconciler)

// MustNewReconciler creates a new Reconciler.
func MustNewReconciler(opts ...option) *Reconciler {
	r := &Reconciler{}
	for _, opt := range opts {
		opt(r)
	}
	if r.orderRepo == nil && r.pgClient != nil {
		r.orderRepo = orderrepo.NewPostgresOrderRepository(r.pgClient.Pool())
	}

	return r
}

// WithPostgresClient sets the Postgres client for the Reconciler.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(r *Reconciler) {
		r.pgClient = pgClient
	}
}

// WithOrderRepository overrides the order repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(r *Reconciler) {
		r.orderRepo = repo
	}
}

// WithOrderTransitions sets the transition primitive for status moves.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderTransitions(transitions orderTransitions) option {
	return func(r *Reconciler) {
		r.transitions = transitions
	}
}

// HandleEvent reconciles one provider event. An event whose metadata carries
// no order reference is logged and dropped: retrying cannot ever resolve it,
// and the boundary will still acknowledge it to stop the provider's retries.
func (r *Reconciler) HandleEvent(ctx context.Context, ev payment.Event) error {
	if ev.OrderID == 0 {
		slog.Warn("Payment event carries no order reference, dropping",
			"event_id", ev.ID,
			"event_type", ev.Type,
			"payment_ref", ev.PaymentRef,
		)

		return nil
	}

	o, err := r.orderRepo.GetByID(ctx, ev.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %w", ev.OrderID, err)
	}
	if o == nil {
		slog.Warn("Payment event references unknown order, dropping",
			"event_id", ev.ID,
			"order_id", ev.OrderID,
		)

		return nil
	}

	switch ev.Type {
	case payment.EventSucceeded:
		return r.applySucceeded(ctx, ev, o)
	case payment.EventFailed:
		return r.applyFailed(ctx, ev, o)
	case payment.EventCanceled:
		return r.applyCanceled(ctx, ev, o)
	default:
		slog.Warn("Unknown payment event type, dropping", "event_id", ev.ID, "event_type", ev.Type)

		return nil
	}
}

func (r *Reconciler) applySucceeded(ctx context.Context, ev payment.Event, o *order.Order) error {
	if o.PaymentStatus != order.PaymentCompleted {
		if _, err := r.orderRepo.SetPaymentStatus(ctx, o.ID, order.PaymentCompleted, ev.PaymentRef); err != nil {
			return fmt.Errorf("failed to complete payment for order %d: %w", o.ID, err)
		}
	}

	// Advance new -> confirmed on the provider's behalf. The status guard in
	// the write keeps a duplicate event from advancing twice.
	if o.Status == order.StatusNew {
		applied, err := r.transitions.TransitionForPayment(ctx, o, order.StatusConfirmed)
		if err != nil {
			return fmt.Errorf("failed to confirm order %d: %w", o.ID, err)
		}
		if applied {
			slog.Info("Order confirmed by payment", "order_id", o.ID, "event_id", ev.ID)
		}
	}

	return nil
}

func (r *Reconciler) applyFailed(ctx context.Context, ev payment.Event, o *order.Order) error {
	// Order status stays; the customer may retry payment.
	if o.PaymentStatus == order.PaymentFailed {
		return nil
	}
	if _, err := r.orderRepo.SetPaymentStatus(ctx, o.ID, order.PaymentFailed, ev.PaymentRef); err != nil {
		return fmt.Errorf("failed to record payment failure for order %d: %w", o.ID, err)
	}

	return nil
}

func (r *Reconciler) applyCanceled(ctx context.Context, ev payment.Event, o *order.Order) error {
	if o.PaymentStatus != order.PaymentFailed {
		if _, err := r.orderRepo.SetPaymentStatus(ctx, o.ID, order.PaymentFailed, ev.PaymentRef); err != nil {
			return fmt.Errorf("failed to record payment cancellation for order %d: %w", o.ID, err)
		}
	}

	if !order.IsTerminal(o.Status) {
		applied, err := r.transitions.TransitionForPayment(ctx, o, order.StatusCancelled)
		if err != nil {
			return fmt.Errorf("failed to cancel order %d: %w", o.ID, err)
		}
		if !applied {
			slog.Warn("Order moved while cancelling for payment cancellation",
				"order_id", o.ID,
				"event_id", ev.ID,
			)
		}
	}

	return nil
}
