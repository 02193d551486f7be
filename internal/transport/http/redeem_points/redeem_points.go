package redeempoints

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/quickeats/fulfillment/internal/transport/http/respond"
	"github.com/quickeats/fulfillment/pkg/http/middleware/auth"
)

type service interface {
	RedeemLoyaltyPoints(ctx context.Context, customerID, pointsRequested int64, rewardType string) (*voucher.Voucher, error)
}

type redeemPointsRequest struct {
	Points     int64  `json:"points"     validate:"gt=0"`
	RewardType string `json:"rewardType" validate:"required"`
	CustomerID int64  `json:"customerId"`
}

func (r *redeemPointsRequest) Validate() error {
	return validator.New().Struct(r)
}

// RedeemPoints exchanges loyalty points for a single-use discount voucher.
// Customers redeem their own balance; admins may redeem on a customer's
// behalf by passing customerId.
func RedeemPoints(w http.ResponseWriter, r *http.Request, service service) {
	req := redeemPointsRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		slog.Error("Error decoding request body for points redemption", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.BadRequest(w, err.Error())

		return
	}

	act, _ := auth.FromContext(r.Context())

	customerID := act.ID
	switch act.Role {
	case actor.RoleCustomer:
	case actor.RoleAdmin:
		if req.CustomerID != 0 {
			customerID = req.CustomerID
		}
	default:
		respond.Err(w, apperr.New(apperr.KindUnauthorized, "only customers can redeem loyalty points"))

		return
	}

	minted, err := service.RedeemLoyaltyPoints(r.Context(), customerID, req.Points, req.RewardType)
	if err != nil {
		respond.Err(w, err)
		slog.Error("Error redeeming loyalty points", "customer_id", customerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, minted)
}
