package fulfillmentsvc

import (
	"context"
	"testing"
	"time"

	"github.com/quickeats/fulfillment/internal/service/models/activitylog"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/menuitem"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/models/restaurant"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testMenu() []menuitem.MenuItem {
	return []menuitem.MenuItem{
		{ID: 10, RestaurantID: 5, Name: "Margherita", PriceCents: 1200, Available: true},
		{ID: 11, RestaurantID: 5, Name: "Tiramisu", PriceCents: 650, Available: true},
	}
}

func testRestaurant() *restaurant.Restaurant {
	return &restaurant.Restaurant{ID: 5, OwnerID: 42, Name: "Da Mario", Region: "north", Lat: 52.5, Lng: 13.4}
}

func baseRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Customer:        order.Registered(77),
		RestaurantID:    5,
		Items:           []CreateOrderItemInput{{MenuItemID: 10, Quantity: 2}, {MenuItemID: 11, Quantity: 1}},
		DeliveryAddress: "Unter den Linden 1",
		DeliveryCity:    "Berlin",
		PaymentMethod:   "card",
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("snapshots_prices_and_prices_the_order", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		var inserted order.Order
		work.orderRepo.insertFunc = func(ctx context.Context, o order.Order) (order.Order, error) {
			o.ID = 1
			inserted = o

			return o, nil
		}

		svc := newTestService(work)

		created, err := svc.CreateOrder(context.Background(), baseRequest())
		require.NoError(t, err)

		// 2 x 12.00 + 1 x 6.50 = 30.50, fee 4.00 from the mock calculator.
		assert.Equal(t, int64(3050), created.SubtotalCents)
		assert.Equal(t, int64(400), created.DeliveryFeeCents)
		assert.Equal(t, int64(0), created.DiscountCents)
		assert.Equal(t, int64(3450), created.TotalCents)
		assert.Equal(t, order.StatusNew, created.Status)
		assert.Equal(t, order.PaymentPending, created.PaymentStatus)
		assert.Len(t, created.OrderItems, 2)
		assert.Equal(t, int64(2400), created.OrderItems[0].SubtotalCents)
		assert.NotEmpty(t, inserted.OrderNumber)
		assert.Len(t, inserted.DeliveryCode, 8)
		assert.Equal(t, 1, work.commits)
	})

	t.Run("voucher_redeemed_inside_the_transaction", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		work.voucherRepo.getByCodeFunc = func(ctx context.Context, code string) (*voucher.Voucher, error) {
			return &voucher.Voucher{
				ID:            3,
				Code:          "WELCOME10",
				DiscountType:  voucher.DiscountPercentage,
				DiscountValue: 10,
				MinOrderCents: ptr[int64](1500),
				Status:        voucher.StatusActive,
			}, nil
		}
		incremented := false
		work.voucherRepo.incrementUsageFunc = func(ctx context.Context, id int64, observedCount int) (bool, error) {
			incremented = true

			return true, nil
		}

		svc := newTestService(work)

		req := baseRequest()
		req.VoucherCode = "WELCOME10"

		created, err := svc.CreateOrder(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, incremented)
		assert.Equal(t, int64(305), created.DiscountCents)
		assert.Equal(t, "WELCOME10", created.VoucherCode)
		assert.Equal(t, int64(3145), created.TotalCents)
	})

	t.Run("voucher_failure_aborts_the_order", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		work.voucherRepo.getByCodeFunc = func(ctx context.Context, code string) (*voucher.Voucher, error) {
			return &voucher.Voucher{
				ID:            3,
				Code:          "WELCOME10",
				DiscountType:  voucher.DiscountPercentage,
				DiscountValue: 10,
				MinOrderCents: ptr[int64](500000),
				Status:        voucher.StatusActive,
			}, nil
		}
		work.orderRepo.insertFunc = func(ctx context.Context, o order.Order) (order.Order, error) {
			t.Fatal("order must not be inserted when the voucher is rejected")

			return o, nil
		}

		svc := newTestService(work)

		req := baseRequest()
		req.VoucherCode = "WELCOME10"

		_, err := svc.CreateOrder(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindVoucherMinOrder, apperr.KindOf(err))
		assert.Equal(t, 0, work.commits)
		assert.GreaterOrEqual(t, work.rollbacks, 1)
	})

	t.Run("order_number_collision_retried_once", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		attempts := 0
		numbers := make([]string, 0, 2)
		work.orderRepo.insertFunc = func(ctx context.Context, o order.Order) (order.Order, error) {
			attempts++
			numbers = append(numbers, o.OrderNumber)
			if attempts == 1 {
				return order.Order{}, order.ErrOrderNumberConflict
			}
			o.ID = 1

			return o, nil
		}

		svc := newTestService(work)

		_, err := svc.CreateOrder(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.NotEqual(t, numbers[0], numbers[1])
	})

	t.Run("rejects_empty_and_invalid_items", func(t *testing.T) {
		svc := newTestService(newMockUOW())

		req := baseRequest()
		req.Items = nil
		_, err := svc.CreateOrder(context.Background(), req)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		req = baseRequest()
		req.Items[0].Quantity = 0
		_, err = svc.CreateOrder(context.Background(), req)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects_unavailable_menu_item", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			menu := testMenu()
			menu[0].Available = false

			return menu, nil
		}

		svc := newTestService(work)

		_, err := svc.CreateOrder(context.Background(), baseRequest())
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects_item_from_another_restaurant", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			menu := testMenu()
			menu[1].RestaurantID = 99

			return menu, nil
		}

		svc := newTestService(work)

		_, err := svc.CreateOrder(context.Background(), baseRequest())
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("awards_loyalty_points_to_registered_customer", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		var credited int64
		work.loyaltyRepo.addPointsFunc = func(ctx context.Context, customerID, points int64) error {
			credited = points

			return nil
		}

		svc := newTestService(work)

		created, err := svc.CreateOrder(context.Background(), baseRequest())
		require.NoError(t, err)
		// Total 34.50 -> 34 points.
		assert.Equal(t, created.TotalCents/100, credited)
		assert.Equal(t, int64(34), credited)
	})

	t.Run("guest_order_earns_no_points", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		work.loyaltyRepo.addPointsFunc = func(ctx context.Context, customerID, points int64) error {
			t.Fatal("guest orders must not earn loyalty points")

			return nil
		}

		svc := newTestService(work)

		req := baseRequest()
		req.Customer = order.Guest(order.GuestContact{Name: "Ada", Phone: "+49123"})

		_, err := svc.CreateOrder(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("guest_order_is_audited_as_guest", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		var logged []activitylog.Entry
		work.activityRepo.insertFunc = func(ctx context.Context, entry activitylog.Entry) error {
			logged = append(logged, entry)

			return nil
		}

		svc := newTestService(work)

		req := baseRequest()
		req.Customer = order.Guest(order.GuestContact{Name: "Ada", Phone: "+49123"})

		_, err := svc.CreateOrder(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, logged, 1)
		assert.Equal(t, actor.RoleGuest.String(), logged[0].ActorRole)
		assert.Zero(t, logged[0].ActorID)
	})

	t.Run("registered_order_is_audited_as_the_customer", func(t *testing.T) {
		work := newMockUOW()
		work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
			return testRestaurant(), nil
		}
		work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
			return testMenu(), nil
		}
		var logged []activitylog.Entry
		work.activityRepo.insertFunc = func(ctx context.Context, entry activitylog.Entry) error {
			logged = append(logged, entry)

			return nil
		}

		svc := newTestService(work)

		_, err := svc.CreateOrder(context.Background(), baseRequest())
		require.NoError(t, err)
		require.Len(t, logged, 1)
		assert.Equal(t, actor.RoleCustomer.String(), logged[0].ActorRole)
		assert.Equal(t, int64(77), logged[0].ActorID)
	})

	t.Run("unknown_restaurant", func(t *testing.T) {
		svc := newTestService(newMockUOW())

		_, err := svc.CreateOrder(context.Background(), baseRequest())
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestCreateOrderSchedule(t *testing.T) {
	// ScheduledAt passes through untouched.
	work := newMockUOW()
	work.restaurantRepo.getByIDFunc = func(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
		return testRestaurant(), nil
	}
	work.menuRepo.getByIDsFunc = func(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
		return testMenu(), nil
	}

	svc := newTestService(work)

	req := baseRequest()
	req.ScheduledAt = time.Date(2025, 7, 1, 19, 30, 0, 0, time.UTC)

	created, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.ScheduledAt, created.ScheduledAt)
}
