package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/models/orderitem"
)

const pgUniqueViolation = "23505"

var orderColumns = []string{
	"id",
	"order_number",
	"status",
	"customer_kind",
	"customer_id",
	"guest_name",
	"guest_phone",
	"guest_email",
	"restaurant_id",
	"driver_id",
	"delivery_address",
	"delivery_city",
	"delivery_postcode",
	"delivery_lat",
	"delivery_lng",
	"scheduled_at",
	"delivered_at",
	"subtotal_cents",
	"delivery_fee_cents",
	"discount_cents",
	"tax_cents",
	"total_cents",
	"payment_status",
	"payment_method",
	"payment_ref",
	"voucher_code",
	"delivery_code",
	"created_at",
	"updated_at",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id               int64
	OrderNumber      string
	Status           string
	CustomerKind     string
	CustomerId       *int64
	GuestName        string
	GuestPhone       string
	GuestEmail       string
	RestaurantId     int64
	DriverId         *int64
	DeliveryAddress  string
	DeliveryCity     string
	DeliveryPostcode string
	DeliveryLat      float64
	DeliveryLng      float64
	ScheduledAt      time.Time
	DeliveredAt      *time.Time
	SubtotalCents    int64
	DeliveryFeeCents int64
	DiscountCents    int64
	TaxCents         int64
	TotalCents       int64
	PaymentStatus    string
	PaymentMethod    string
	PaymentRef       string
	VoucherCode      string
	DeliveryCode     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (d *OrderDal) scanFrom(row pgx.Row) error {
	return row.Scan(
		&d.Id,
		&d.OrderNumber,
		&d.Status,
		&d.CustomerKind,
		&d.CustomerId,
		&d.GuestName,
		&d.GuestPhone,
		&d.GuestEmail,
		&d.RestaurantId,
		&d.DriverId,
		&d.DeliveryAddress,
		&d.DeliveryCity,
		&d.DeliveryPostcode,
		&d.DeliveryLat,
		&d.DeliveryLng,
		&d.ScheduledAt,
		&d.DeliveredAt,
		&d.SubtotalCents,
		&d.DeliveryFeeCents,
		&d.DiscountCents,
		&d.TaxCents,
		&d.TotalCents,
		&d.PaymentStatus,
		&d.PaymentMethod,
		&d.PaymentRef,
		&d.VoucherCode,
		&d.DeliveryCode,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

// ToModel converts OrderDal to the service layer Order model.
func (d *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(d.Status)
	if err != nil {
		return nil, err
	}
	payStatus, err := order.ParsePaymentStatus(d.PaymentStatus)
	if err != nil {
		return nil, err
	}

	customer := order.Guest(order.GuestContact{
		Name:  d.GuestName,
		Phone: d.GuestPhone,
		Email: d.GuestEmail,
	})
	if d.CustomerKind == string(order.CustomerRegistered) && d.CustomerId != nil {
		customer = order.Registered(*d.CustomerId)
	}

	return &order.Order{
		ID:               d.Id,
		OrderNumber:      d.OrderNumber,
		Status:           status,
		Customer:         customer,
		RestaurantID:     d.RestaurantId,
		DriverID:         d.DriverId,
		DeliveryAddress:  d.DeliveryAddress,
		DeliveryCity:     d.DeliveryCity,
		DeliveryPostcode: d.DeliveryPostcode,
		DeliveryLat:      d.DeliveryLat,
		DeliveryLng:      d.DeliveryLng,
		ScheduledAt:      d.ScheduledAt,
		DeliveredAt:      d.DeliveredAt,
		SubtotalCents:    d.SubtotalCents,
		DeliveryFeeCents: d.DeliveryFeeCents,
		DiscountCents:    d.DiscountCents,
		TaxCents:         d.TaxCents,
		TotalCents:       d.TotalCents,
		PaymentStatus:    payStatus,
		PaymentMethod:    d.PaymentMethod,
		PaymentRef:       d.PaymentRef,
		VoucherCode:      d.VoucherCode,
		DeliveryCode:     d.DeliveryCode,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		OrderItems:       []orderitem.OrderItem{}, // Populated separately
	}, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert persists a new order and returns it with generated fields set.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	var customerID *int64
	if o.Customer.IsRegistered() {
		id := o.Customer.CustomerID
		customerID = &id
	}

	query, args, err := sq.Insert("orders").
		Columns(orderColumns[1:]...).
		Values(
			o.OrderNumber,
			o.Status.String(),
			string(o.Customer.Kind),
			customerID,
			o.Customer.Guest.Name,
			o.Customer.Guest.Phone,
			o.Customer.Guest.Email,
			o.RestaurantID,
			o.DriverID,
			o.DeliveryAddress,
			o.DeliveryCity,
			o.DeliveryPostcode,
			o.DeliveryLat,
			o.DeliveryLng,
			o.ScheduledAt,
			o.DeliveredAt,
			o.SubtotalCents,
			o.DeliveryFeeCents,
			o.DiscountCents,
			o.TaxCents,
			o.TotalCents,
			o.PaymentStatus.String(),
			o.PaymentMethod,
			o.PaymentRef,
			o.VoucherCode,
			o.DeliveryCode,
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&o.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "orders_order_number_key" {
			return order.Order{}, order.ErrOrderNumberConflict
		}

		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByID retrieves one order, or nil when it does not exist.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := dal.scanFrom(r.conn.QueryRow(ctx, query, args...)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return dal.ToModel()
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("id").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.CustomerIds) > 0 {
		builder = builder.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		if err := dal.scanFrom(rows); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Transition moves the order between statuses, conditioned on the expected
// prior status.
func (r *PostgresOrderRepository) Transition(ctx context.Context, id int64, from, to order.Status) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", to.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": from.String()}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to transition order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// AssignDriver attaches a driver to a ready order. The driver_id IS NULL
// guard makes the first accepting driver win.
func (r *PostgresOrderRepository) AssignDriver(ctx context.Context, id, driverID int64) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("driver_id", driverID).
		Set("status", order.StatusAssigned.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": order.StatusReadyForPickup.String()}).
		Where(sq.Expr("driver_id IS NULL")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to assign driver: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkDelivered completes an in_transit order and records the delivery time.
func (r *PostgresOrderRepository) MarkDelivered(ctx context.Context, id int64, deliveredAt time.Time) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", order.StatusDelivered.String()).
		Set("delivered_at", deliveredAt).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": order.StatusInTransit.String()}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to mark order delivered: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetPaymentStatus applies a reconciled payment status. The guard on the
// current value makes reapplying the same provider event a no-op.
func (r *PostgresOrderRepository) SetPaymentStatus(ctx context.Context, id int64, status order.PaymentStatus, paymentRef string) (bool, error) {
	builder := sq.Update("orders").
		Set("payment_status", status.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Where(sq.NotEq{"payment_status": status.String()}).
		PlaceholderFormat(sq.Dollar)

	if paymentRef != "" {
		builder = builder.Set("payment_ref", paymentRef)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to set payment status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
