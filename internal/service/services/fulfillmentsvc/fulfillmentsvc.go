package fulfillmentsvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/iactivityrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/idriverrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/iloyaltyrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/imenurepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/inotificationrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/iorderitemrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/iorderrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/irestaurantrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/ivoucherrepo"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/dal/uow"
	"github.com/quickeats/fulfillment/internal/service/models/activitylog"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/notification"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"golang.org/x/sync/errgroup"
)

// FulfillmentService orchestrates the order lifecycle: creation, status
// transitions, driver assignment, delivery confirmation and loyalty
// redemption.
type FulfillmentService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
	ledger   voucherLedger
	feeCalc  feeCalculator
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	VoucherRepository() ivoucherrepo.IVoucherRepository
	DriverRepository() idriverrepo.IDriverRepository
	RestaurantRepository() irestaurantrepo.IRestaurantRepository
	MenuRepository() imenurepo.IMenuRepository
	LoyaltyRepository() iloyaltyrepo.ILoyaltyRepository
	NotificationRepository() inotificationrepo.INotificationRepository
	ActivityRepository() iactivityrepo.IActivityRepository
}

type voucherLedger interface {
	Redeem(ctx context.Context, repo ivoucherrepo.IVoucherRepository, code string, subtotalCents int64, now time.Time) (int64, *voucher.Voucher, error)
}

type feeCalculator interface {
	Fee(ctx context.Context, pickupLat, pickupLng, dropoffLat, dropoffLng float64) (int64, error)
}

// option is a function that configures the FulfillmentService.
type option func(*FulfillmentService)

// MustNewFulfillmentService creates a new FulfillmentService.
func MustNewFulfillmentService(opts ...option) *FulfillmentService {
	s := &FulfillmentService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil && s.pgClient != nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the FulfillmentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *FulfillmentService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work constructor.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *FulfillmentService) {
		s.newUOW = factory
	}
}

// WithVoucherLedger sets the voucher ledger.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithVoucherLedger(ledger voucherLedger) option {
	return func(s *FulfillmentService) {
		s.ledger = ledger
	}
}

// WithFeeCalculator sets the delivery-fee calculator collaborator.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithFeeCalculator(feeCalc feeCalculator) option {
	return func(s *FulfillmentService) {
		s.feeCalc = feeCalc
	}
}

// GetOrders retrieves orders with their items based on filter.
func (s *FulfillmentService) GetOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	items, err := work.OrderItemRepository().QueryByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// notifyRecipient describes one notification to enqueue after a successful
// operation.
type notifyRecipient struct {
	userID int64
	typ    string
	title  string
	body   string
}

// enqueueNotifications writes notification records through the outbox.
// Failures are logged and swallowed: notification delivery must never fail
// or roll back the operation that triggered it.
func (s *FulfillmentService) enqueueNotifications(repo inotificationrepo.INotificationRepository, o *order.Order, recipients []notifyRecipient) {
	notifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(notifyCtx)
	g.SetLimit(3)

	now := time.Now()
	for _, rec := range recipients {
		if rec.userID == 0 {
			// Guest orders have no notifiable user.
			continue
		}

		payload, err := json.Marshal(map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"status":       o.Status,
		})
		if err != nil {
			slog.Error("Failed to marshal notification payload", "order_id", o.ID, "error", err)

			continue
		}

		msg := notification.Message{
			MessageID:   uuid.New(),
			UserID:      rec.userID,
			Type:        rec.typ,
			Title:       rec.title,
			Body:        rec.body,
			Payload:     payload,
			MaxRetries:  5,
			CreatedAt:   now,
			UpdatedAt:   now,
			NextRetryAt: now,
		}

		g.Go(func() error {
			if err := repo.Insert(gctx, msg); err != nil {
				slog.Error("Failed to enqueue notification",
					"order_id", o.ID,
					"user_id", msg.UserID,
					"type", msg.Type,
					"error", err,
				)
			}

			return nil
		})
	}

	_ = g.Wait()
}

// logActivity appends an audit record. Failures are logged and swallowed.
func (s *FulfillmentService) logActivity(repo iactivityrepo.IActivityRepository, act actor.Actor, entityType string, entityID int64, action string, details map[string]any) {
	logCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		slog.Error("Failed to marshal activity details", "action", action, "error", err)

		return
	}

	entry := activitylog.Entry{
		ActorID:    act.ID,
		ActorRole:  act.Role.String(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    detailsJSON,
		CreatedAt:  time.Now(),
	}

	if err := repo.Insert(logCtx, entry); err != nil {
		slog.Error("Failed to append activity entry",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
	}
}
