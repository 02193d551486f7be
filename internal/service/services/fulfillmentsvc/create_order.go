package fulfillmentsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quickeats/fulfillment/internal/dal/feecalc"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/loyalty"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/models/orderitem"
	"github.com/quickeats/fulfillment/internal/service/models/pricing"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/spf13/viper"
)

// CreateOrderItemInput is one requested line item.
type CreateOrderItemInput struct {
	MenuItemID   int64
	Quantity     int
	Instructions string
}

// CreateOrderRequest carries everything needed to place an order.
type CreateOrderRequest struct {
	Customer         order.CustomerIdentity
	RestaurantID     int64
	Items            []CreateOrderItemInput
	DeliveryAddress  string
	DeliveryCity     string
	DeliveryPostcode string
	DeliveryLat      float64
	DeliveryLng      float64
	ScheduledAt      time.Time
	PaymentMethod    string
	VoucherCode      string
}

// CreateOrder places an order: snapshots menu prices, obtains the delivery
// fee, redeems the voucher (if any), prices the order and persists order,
// items and voucher usage in one transaction. A voucher failure aborts the
// whole creation.
func (s *FulfillmentService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, apperr.Newf(apperr.KindValidation, "item %d quantity must be at least 1", item.MenuItemID)
		}
	}

	work := s.newUOW()

	rest, err := work.RestaurantRepository().GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to load restaurant", err)
	}
	if rest == nil {
		return nil, apperr.New(apperr.KindNotFound, "restaurant not found")
	}

	items, subtotal, err := s.snapshotItems(ctx, work, req)
	if err != nil {
		return nil, err
	}

	fee, err := s.feeCalc.Fee(ctx, rest.Lat, rest.Lng, req.DeliveryLat, req.DeliveryLng)
	if err != nil {
		if errors.Is(err, feecalc.ErrOutOfRange) {
			return nil, apperr.Wrap(apperr.KindValidation, "delivery address is out of range", err)
		}

		return nil, apperr.Wrap(apperr.KindInternal, "failed to compute delivery fee", err)
	}

	now := time.Now()

	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to begin transaction", err)
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	var discount int64
	voucherCode := ""
	if req.VoucherCode != "" {
		var redeemed *voucher.Voucher
		discount, redeemed, err = s.ledger.Redeem(ctx, work.VoucherRepository(), req.VoucherCode, subtotal, now)
		if err != nil {
			return nil, err
		}
		voucherCode = redeemed.Code
	}

	quote, err := pricing.Compute(subtotal, fee, discount, viper.GetFloat64("pricing.tax_rate"))
	if err != nil {
		return nil, err
	}

	inserted, err := s.insertOrder(ctx, work, req, rest.ID, quote, voucherCode, now)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].OrderID = inserted.ID
	}
	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to insert order items", err)
	}
	inserted.OrderItems = items

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to commit order", err)
	}

	// Post-commit side effects run against the pool, not the closed tx.
	side := s.newUOW()

	if req.Customer.IsRegistered() {
		s.awardLoyaltyPoints(ctx, inserted)
	}

	s.enqueueNotifications(side.NotificationRepository(), &inserted, []notifyRecipient{
		{
			userID: rest.OwnerID,
			typ:    "order_created",
			title:  "New order",
			body:   "Order " + inserted.OrderNumber + " has been placed",
		},
	})

	act := actor.Actor{Role: actor.RoleGuest}
	if inserted.Customer.IsRegistered() {
		act = actor.Actor{ID: inserted.Customer.CustomerID, Role: actor.RoleCustomer}
	}
	s.logActivity(side.ActivityRepository(), act, "order", inserted.ID, "order_created", map[string]any{
		"order_number": inserted.OrderNumber,
		"total_cents":  inserted.TotalCents,
	})

	return &inserted, nil
}

// snapshotItems resolves the requested menu items and freezes their names
// and prices onto order items. This is the only read of live menu data.
func (s *FulfillmentService) snapshotItems(ctx context.Context, work unitOfWork, req CreateOrderRequest) ([]orderitem.OrderItem, int64, error) {
	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.MenuItemID)
	}

	menuItems, err := work.MenuRepository().GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindDatabase, "failed to load menu items", err)
	}
	byID := make(map[int64]int, len(menuItems))
	for i, mi := range menuItems {
		byID[mi.ID] = i
	}

	now := time.Now()
	items := make([]orderitem.OrderItem, 0, len(req.Items))
	var subtotal int64
	for _, in := range req.Items {
		i, ok := byID[in.MenuItemID]
		if !ok {
			return nil, 0, apperr.Newf(apperr.KindNotFound, "menu item %d not found", in.MenuItemID)
		}
		mi := menuItems[i]
		if mi.RestaurantID != req.RestaurantID {
			return nil, 0, apperr.Newf(apperr.KindValidation, "menu item %d does not belong to the restaurant", mi.ID)
		}
		if !mi.Available {
			return nil, 0, apperr.Newf(apperr.KindValidation, "menu item %q is not available", mi.Name)
		}

		lineSubtotal := mi.PriceCents * int64(in.Quantity)
		items = append(items, orderitem.OrderItem{
			MenuItemID:     mi.ID,
			Name:           mi.Name,
			UnitPriceCents: mi.PriceCents,
			Quantity:       in.Quantity,
			SubtotalCents:  lineSubtotal,
			Instructions:   in.Instructions,
			CreatedAt:      now,
		})
		subtotal += lineSubtotal
	}

	return items, subtotal, nil
}

// insertOrder persists the order, regenerating the order number once if the
// random suffix collides.
func (s *FulfillmentService) insertOrder(ctx context.Context, work unitOfWork, req CreateOrderRequest, restaurantID int64, quote pricing.Quote, voucherCode string, now time.Time) (order.Order, error) {
	prefix := viper.GetString("orders.number_prefix")
	if prefix == "" {
		prefix = "ORD"
	}

	o := order.Order{
		OrderNumber:      order.NewOrderNumber(prefix, now),
		Status:           order.StatusNew,
		Customer:         req.Customer,
		RestaurantID:     restaurantID,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryCity:     req.DeliveryCity,
		DeliveryPostcode: req.DeliveryPostcode,
		DeliveryLat:      req.DeliveryLat,
		DeliveryLng:      req.DeliveryLng,
		ScheduledAt:      req.ScheduledAt,
		SubtotalCents:    quote.SubtotalCents,
		DeliveryFeeCents: quote.DeliveryFeeCents,
		DiscountCents:    quote.DiscountCents,
		TaxCents:         quote.TaxCents,
		TotalCents:       quote.TotalCents,
		PaymentStatus:    order.PaymentPending,
		PaymentMethod:    req.PaymentMethod,
		VoucherCode:      voucherCode,
		DeliveryCode:     order.NewDeliveryCode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if errors.Is(err, order.ErrOrderNumberConflict) {
		o.OrderNumber = order.NewOrderNumber(prefix, now)
		inserted, err = work.OrderRepository().Insert(ctx, o)
	}
	if err != nil {
		return order.Order{}, apperr.Wrap(apperr.KindDatabase, "failed to insert order", err)
	}

	return inserted, nil
}

// awardLoyaltyPoints credits floor(total) points to a registered customer.
// The ledger entry is unique per order, so a retried award is a no-op. The
// award is deliberately outside the order transaction: a missed award is
// recoverable, a failed award must not undo the order.
func (s *FulfillmentService) awardLoyaltyPoints(ctx context.Context, o order.Order) {
	points := o.TotalCents / 100
	if points <= 0 {
		return
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		slog.Error("Failed to begin loyalty award transaction", "order_id", o.ID, "error", err)

		return
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	orderID := o.ID
	inserted, err := work.LoyaltyRepository().InsertTransaction(ctx, loyalty.Transaction{
		CustomerID: o.Customer.CustomerID,
		OrderID:    &orderID,
		Points:     points,
		Type:       loyalty.TransactionEarn,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		slog.Error("Failed to append loyalty earn entry", "order_id", o.ID, "error", err)

		return
	}
	if !inserted {
		// Already awarded for this order.
		return
	}

	if err := work.LoyaltyRepository().AddPoints(ctx, o.Customer.CustomerID, points); err != nil {
		slog.Error("Failed to credit loyalty points", "order_id", o.ID, "error", err)

		return
	}

	if err := work.Commit(ctx); err != nil {
		slog.Error("Failed to commit loyalty award", "order_id", o.ID, "error", err)
	}
}
