package uow

import (
	"context"

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
	activityrepo "github.com/quickeats/fulfillment/internal/dal/repositories/activity/postgres"
	driverrepo "github.com/quickeats/fulfillment/internal/dal/repositories/driver/postgres"
	loyaltyrepo "github.com/quickeats/fulfillment/internal/dal/repositories/loyalty/postgres"
	menurepo "github.com/quickeats/fulfillment/internal/dal/repositories/menu/postgres"
	notificationrepo "github.com/quickeats/fulfillment/internal/dal/repositories/notification/postgres"
	orderrepo "github.com/quickeats/fulfillment/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/quickeats/fulfillment/internal/dal/repositories/orderitem/postgres"
	restaurantrepo "github.com/quickeats/fulfillment/internal/dal/repositories/restaurant/postgres"
	voucherrepo "github.com/quickeats/fulfillment/internal/dal/repositories/voucher/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork binds the repositories to one connection source. Before Begin
// they run against the pool; after Begin they all share one transaction, so
// a single Commit either persists every write or none of them.
type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	orderRepo        iorderrepo.IOrderRepository
	orderItemRepo    iorderitemrepo.IOrderItemRepository
	voucherRepo      ivoucherrepo.IVoucherRepository
	driverRepo       idriverrepo.IDriverRepository
	restaurantRepo   irestaurantrepo.IRestaurantRepository
	menuRepo         imenurepo.IMenuRepository
	loyaltyRepo      iloyaltyrepo.ILoyaltyRepository
	notificationRepo inotificationrepo.INotificationRepository
	activityRepo     iactivityrepo.IActivityRepository
}

func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{pool: client.Pool()}
	u.bind(client.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.Querier) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.voucherRepo = voucherrepo.NewPostgresVoucherRepository(conn)
	u.driverRepo = driverrepo.NewPostgresDriverRepository(conn)
	u.restaurantRepo = restaurantrepo.NewPostgresRestaurantRepository(conn)
	u.menuRepo = menurepo.NewPostgresMenuRepository(conn)
	u.loyaltyRepo = loyaltyrepo.NewPostgresLoyaltyRepository(conn)
	u.notificationRepo = notificationrepo.NewPostgresNotificationRepository(conn)
	u.activityRepo = activityrepo.NewPostgresActivityRepository(conn)
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *UnitOfWork) VoucherRepository() ivoucherrepo.IVoucherRepository {
	return u.voucherRepo
}

func (u *UnitOfWork) DriverRepository() idriverrepo.IDriverRepository {
	return u.driverRepo
}

func (u *UnitOfWork) RestaurantRepository() irestaurantrepo.IRestaurantRepository {
	return u.restaurantRepo
}

func (u *UnitOfWork) MenuRepository() imenurepo.IMenuRepository {
	return u.menuRepo
}

func (u *UnitOfWork) LoyaltyRepository() iloyaltyrepo.ILoyaltyRepository {
	return u.loyaltyRepo
}

func (u *UnitOfWork) NotificationRepository() inotificationrepo.INotificationRepository {
	return u.notificationRepo
}

func (u *UnitOfWork) ActivityRepository() iactivityrepo.IActivityRepository {
	return u.activityRepo
}
