package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/order"
	"github.com/quickeats/fulfillment/internal/service/models/payment"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/quickeats/fulfillment/internal/service/services/fulfillmentsvc"
	acceptorder "github.com/quickeats/fulfillment/internal/transport/http/accept_order"
	confirmdelivery "github.com/quickeats/fulfillment/internal/transport/http/confirm_delivery"
	createorder "github.com/quickeats/fulfillment/internal/transport/http/create_order"
	listorders "github.com/quickeats/fulfillment/internal/transport/http/list_orders"
	paymentwebhook "github.com/quickeats/fulfillment/internal/transport/http/payment_webhook"
	redeempoints "github.com/quickeats/fulfillment/internal/transport/http/redeem_points"
	updatestatus "github.com/quickeats/fulfillment/internal/transport/http/update_status"
	validatevoucher "github.com/quickeats/fulfillment/internal/transport/http/validate_voucher"
	"github.com/quickeats/fulfillment/pkg/http/middleware/auth"
	"github.com/quickeats/fulfillment/pkg/http/middleware/trace"
	"github.com/quickeats/fulfillment/pkg/logger"
	"github.com/spf13/viper"
)

// service is the order fulfillment interface consumed by the transport.
type service interface {
	CreateOrder(ctx context.Context, req fulfillmentsvc.CreateOrderRequest) (*order.Order, error)
	GetOrders(ctx context.Context, model order.QueryOrdersModel) ([]order.Order, error)
	TransitionStatus(ctx context.Context, act actor.Actor, orderID int64, requested order.Status, deliveryCode string, driverID int64) (*order.Order, error)
	AcceptOrder(ctx context.Context, act actor.Actor, orderID int64) (*order.Order, error)
	ConfirmDelivery(ctx context.Context, act actor.Actor, orderID int64, deliveryCode string) (*order.Order, error)
	RedeemLoyaltyPoints(ctx context.Context, customerID, pointsRequested int64, rewardType string) (*voucher.Voucher, error)
}

// voucherService previews voucher discounts without consuming a usage.
type voucherService interface {
	Validate(ctx context.Context, code string, subtotalCents int64, now time.Time) (int64, error)
}

// paymentService reconciles payment-provider webhook events.
type paymentService interface {
	HandleEvent(ctx context.Context, ev payment.Event) error
}

type HTTPTransport struct {
	server         *http.Server
	router         *chi.Mux
	service        service
	voucherService voucherService
	paymentService paymentService
}

func NewHTTPTransport(service service, voucherService voucherService, paymentService paymentService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:         server,
		router:         router,
		service:        service,
		voucherService: voucherService,
		paymentService: paymentService,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.NewOptionalAuthMiddleware)
			r.Post("/orders", h.createOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.NewAuthMiddleware)
			r.Get("/orders", h.listOrders)
			r.Post("/orders/{id}/status", h.updateStatus)
			r.Post("/orders/{id}/accept", h.acceptOrder)
			r.Post("/orders/{id}/delivery", h.confirmDelivery)
			r.Post("/vouchers/validate", h.validateVoucher)
			r.Post("/loyalty/redeem", h.redeemPoints)
		})

		r.Post("/webhooks/payment", h.paymentWebhook)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.service)
}

func (h *HTTPTransport) acceptOrder(w http.ResponseWriter, r *http.Request) {
	acceptorder.AcceptOrder(w, r, h.service)
}

func (h *HTTPTransport) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	confirmdelivery.ConfirmDelivery(w, r, h.service)
}

func (h *HTTPTransport) validateVoucher(w http.ResponseWriter, r *http.Request) {
	validatevoucher.ValidateVoucher(w, r, h.voucherService)
}

func (h *HTTPTransport) redeemPoints(w http.ResponseWriter, r *http.Request) {
	redeempoints.RedeemPoints(w, r, h.service)
}

func (h *HTTPTransport) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	paymentwebhook.HandleWebhook(w, r, h.paymentService)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
