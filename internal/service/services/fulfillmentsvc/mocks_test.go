package fulfillmentsvc

import (
	"context"
	"time"

	"github.com/quickeats/fulfillment/internal/dal/interfaces/iactivityrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/idriverrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/iloyaltyrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/imenurepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/inotificationrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/iorderitemrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/iorderrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/irestaurantrepo"
	"github.com/quickeats/fulfillment/internal/dal/interfaces/ivoucherrepo"
	"github.com/quickeats/fulfillment/internal/service/models/activitylog"
	"github.com/quickeats/fulfillment/internal/service/models/driver"
	"github.com/quickeats/fulfillment/internal/service/models/loyalty"
	"github.com/quickeats/fulfillment/internal/service/models/menuitem"
	"github.com/quickeats/fulfillment/internal/service/models/notification"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/models/orderitem"
	"github.com/quickeats/fulfillment/internal/service/models/restaurant"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/quickeats/fulfillment/internal/service/services/voucherledger"
)

// Function-field mocks: a nil field means the call is benign and returns the
// zero value, so side-effect paths never need explicit stubbing.

type mockOrderRepo struct {
	insertFunc           func(ctx context.Context, o order.Order) (order.Order, error)
	getByIDFunc          func(ctx context.Context, id int64) (*order.Order, error)
	queryFunc            func(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	transitionFunc       func(ctx context.Context, id int64, from, to order.Status) (bool, error)
	assignDriverFunc     func(ctx context.Context, id, driverID int64) (bool, error)
	markDeliveredFunc    func(ctx context.Context, id int64, deliveredAt time.Time) (bool, error)
	setPaymentStatusFunc func(ctx context.Context, id int64, status order.PaymentStatus, paymentRef string) (bool, error)
}

func (m *mockOrderRepo) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	if m.insertFunc == nil {
		o.ID = 1

		return o, nil
	}

	return m.insertFunc(ctx, o)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	if m.getByIDFunc == nil {
		return nil, nil
	}

	return m.getByIDFunc(ctx, id)
}

func (m *mockOrderRepo) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	if m.queryFunc == nil {
		return nil, nil
	}

	return m.queryFunc(ctx, filter)
}

func (m *mockOrderRepo) Transition(ctx context.Context, id int64, from, to order.Status) (bool, error) {
	if m.transitionFunc == nil {
		return true, nil
	}

	return m.transitionFunc(ctx, id, from, to)
}

func (m *mockOrderRepo) AssignDriver(ctx context.Context, id, driverID int64) (bool, error) {
	if m.assignDriverFunc == nil {
		return true, nil
	}

	return m.assignDriverFunc(ctx, id, driverID)
}

func (m *mockOrderRepo) MarkDelivered(ctx context.Context, id int64, deliveredAt time.Time) (bool, error) {
	if m.markDeliveredFunc == nil {
		return true, nil
	}

	return m.markDeliveredFunc(ctx, id, deliveredAt)
}

func (m *mockOrderRepo) SetPaymentStatus(ctx context.Context, id int64, status order.PaymentStatus, paymentRef string) (bool, error) {
	if m.setPaymentStatusFunc == nil {
		return true, nil
	}

	return m.setPaymentStatusFunc(ctx, id, status, paymentRef)
}

type mockOrderItemRepo struct {
	bulkInsertFunc      func(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	queryByOrderIDsFunc func(ctx context.Context, orderIDs []int64) ([]orderitem.OrderItem, error)
}

func (m *mockOrderItemRepo) BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	if m.bulkInsertFunc == nil {
		return items, nil
	}

	return m.bulkInsertFunc(ctx, items)
}

func (m *mockOrderItemRepo) QueryByOrderIDs(ctx context.Context, orderIDs []int64) ([]orderitem.OrderItem, error) {
	if m.queryByOrderIDsFunc == nil {
		return nil, nil
	}

	return m.queryByOrderIDsFunc(ctx, orderIDs)
}

type mockVoucherRepo struct {
	getByCodeFunc      func(ctx context.Context, code string) (*voucher.Voucher, error)
	insertFunc         func(ctx context.Context, v voucher.Voucher) (voucher.Voucher, error)
	incrementUsageFunc func(ctx context.Context, id int64, observedCount int) (bool, error)
}

func (m *mockVoucherRepo) GetByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	if m.getByCodeFunc == nil {
		return nil, nil
	}

	return m.getByCodeFunc(ctx, code)
}

func (m *mockVoucherRepo) Insert(ctx context.Context, v voucher.Voucher) (voucher.Voucher, error) {
	if m.insertFunc == nil {
		v.ID = 1

		return v, nil
	}

	return m.insertFunc(ctx, v)
}

func (m *mockVoucherRepo) IncrementUsage(ctx context.Context, id int64, observedCount int) (bool, error) {
	if m.incrementUsageFunc == nil {
		return true, nil
	}

	return m.incrementUsageFunc(ctx, id, observedCount)
}

type mockDriverRepo struct {
	getByIDFunc     func(ctx context.Context, id int64) (*driver.Driver, error)
	addDeliveryFunc func(ctx context.Context, id int64, earningsCents int64) error
}

func (m *mockDriverRepo) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	if m.getByIDFunc == nil {
		return nil, nil
	}

	return m.getByIDFunc(ctx, id)
}

func (m *mockDriverRepo) AddDelivery(ctx context.Context, id int64, earningsCents int64) error {
	if m.addDeliveryFunc == nil {
		return nil
	}

	return m.addDeliveryFunc(ctx, id, earningsCents)
}

type mockRestaurantRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*restaurant.Restaurant, error)
}

func (m *mockRestaurantRepo) GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
	if m.getByIDFunc == nil {
		return nil, nil
	}

	return m.getByIDFunc(ctx, id)
}

type mockMenuRepo struct {
	getByIDsFunc func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error)
}

func (m *mockMenuRepo) GetByIDs(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
	if m.getByIDsFunc == nil {
		return nil, nil
	}

	return m.getByIDsFunc(ctx, ids)
}

type mockLoyaltyRepo struct {
	getBalanceFunc        func(ctx context.Context, customerID int64) (int64, error)
	addPointsFunc         func(ctx context.Context, customerID, points int64) error
	spendPointsFunc       func(ctx context.Context, customerID, points int64) (bool, error)
	insertTransactionFunc func(ctx context.Context, t loyalty.Transaction) (bool, error)
}

func (m *mockLoyaltyRepo) GetBalance(ctx context.Context, customerID int64) (int64, error) {
	if m.getBalanceFunc == nil {
		return 0, nil
	}

	return m.getBalanceFunc(ctx, customerID)
}

func (m *mockLoyaltyRepo) AddPoints(ctx context.Context, customerID, points int64) error {
	if m.addPointsFunc == nil {
		return nil
	}

	return m.addPointsFunc(ctx, customerID, points)
}

func (m *mockLoyaltyRepo) SpendPoints(ctx context.Context, customerID, points int64) (bool, error) {
	if m.spendPointsFunc == nil {
		return true, nil
	}

	return m.spendPointsFunc(ctx, customerID, points)
}

func (m *mockLoyaltyRepo) InsertTransaction(ctx context.Context, t loyalty.Transaction) (bool, error) {
	if m.insertTransactionFunc == nil {
		return true, nil
	}

	return m.insertTransactionFunc(ctx, t)
}

type mockNotificationRepo struct {
	insertFunc func(ctx context.Context, msg notification.Message) error
}

func (m *mockNotificationRepo) Insert(ctx context.Context, msg notification.Message) error {
	if m.insertFunc == nil {
		return nil
	}

	return m.insertFunc(ctx, msg)
}

func (m *mockNotificationRepo) GetPendingMessages(ctx context.Context, limit int) ([]notification.Message, error) {
	return nil, nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func (m *mockNotificationRepo) UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	return nil
}

type mockActivityRepo struct {
	insertFunc func(ctx context.Context, entry activitylog.Entry) error
}

func (m *mockActivityRepo) Insert(ctx context.Context, entry activitylog.Entry) error {
	if m.insertFunc == nil {
		return nil
	}

	return m.insertFunc(ctx, entry)
}

// mockUOW is an in-memory unit of work. Begin/Commit/Rollback only count
// calls; the repo mocks decide outcomes.
type mockUOW struct {
	orderRepo        *mockOrderRepo
	orderItemRepo    *mockOrderItemRepo
	voucherRepo      *mockVoucherRepo
	driverRepo       *mockDriverRepo
	restaurantRepo   *mockRestaurantRepo
	menuRepo         *mockMenuRepo
	loyaltyRepo      *mockLoyaltyRepo
	notificationRepo *mockNotificationRepo
	activityRepo     *mockActivityRepo

	begins    int
	commits   int
	rollbacks int

	beginErr  error
	commitErr error
}

func newMockUOW() *mockUOW {
	return &mockUOW{
		orderRepo:        &mockOrderRepo{},
		orderItemRepo:    &mockOrderItemRepo{},
		voucherRepo:      &mockVoucherRepo{},
		driverRepo:       &mockDriverRepo{},
		restaurantRepo:   &mockRestaurantRepo{},
		menuRepo:         &mockMenuRepo{},
		loyaltyRepo:      &mockLoyaltyRepo{},
		notificationRepo: &mockNotificationRepo{},
		activityRepo:     &mockActivityRepo{},
	}
}

func (m *mockUOW) Begin(ctx context.Context) error {
	m.begins++

	return m.beginErr
}

func (m *mockUOW) Commit(ctx context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits++

	return nil
}

func (m *mockUOW) Rollback(ctx context.Context) error {
	m.rollbacks++

	return nil
}

func (m *mockUOW) OrderRepository() iorderrepo.IOrderRepository                   { return m.orderRepo }
func (m *mockUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository       { return m.orderItemRepo }
func (m *mockUOW) VoucherRepository() ivoucherrepo.IVoucherRepository             { return m.voucherRepo }
func (m *mockUOW) DriverRepository() idriverrepo.IDriverRepository                { return m.driverRepo }
func (m *mockUOW) RestaurantRepository() irestaurantrepo.IRestaurantRepository    { return m.restaurantRepo }
func (m *mockUOW) MenuRepository() imenurepo.IMenuRepository                      { return m.menuRepo }
func (m *mockUOW) LoyaltyRepository() iloyaltyrepo.ILoyaltyRepository             { return m.loyaltyRepo }
func (m *mockUOW) NotificationRepository() inotificationrepo.INotificationRepository {
	return m.notificationRepo
}
func (m *mockUOW) ActivityRepository() iactivityrepo.IActivityRepository { return m.activityRepo }

// mockFeeCalc returns a fixed fee.
type mockFeeCalc struct {
	feeFunc func(ctx context.Context, pickupLat, pickupLng, dropoffLat, dropoffLng float64) (int64, error)
}

func (m *mockFeeCalc) Fee(ctx context.Context, pickupLat, pickupLng, dropoffLat, dropoffLng float64) (int64, error) {
	if m.feeFunc == nil {
		return 400, nil
	}

	return m.feeFunc(ctx, pickupLat, pickupLng, dropoffLat, dropoffLng)
}

// newTestService wires a FulfillmentService whose unit-of-work factory
// always returns the same mockUOW. The voucher ledger is the real one; it
// runs against whatever voucher repository the unit of work exposes.
func newTestService(work *mockUOW) *FulfillmentService {
	return MustNewFulfillmentService(
		WithUnitOfWorkFactory(func() unitOfWork { return work }),
		WithVoucherLedger(voucherledger.MustNewLedger()),
		WithFeeCalculator(&mockFeeCalc{}),
	)
}
