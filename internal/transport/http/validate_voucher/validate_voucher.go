package validatevoucher

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/quickeats/fulfillment/internal/transport/http/respond"
)

// service is the voucher preview interface.
type service interface {
	Validate(ctx context.Context, code string, subtotalCents int64, now time.Time) (int64, error)
}

type validateVoucherRequest struct {
	Code          string `json:"code"          validate:"required"`
	SubtotalCents int64  `json:"subtotalCents" validate:"gt=0"`
}

func (r *validateVoucherRequest) Validate() error {
	return validator.New().Struct(r)
}

type validateVoucherResponse struct {
	Code          string `json:"code"`
	DiscountCents int64  `json:"discountCents"`
}

// ValidateVoucher previews the discount a voucher would grant for a given
// subtotal. It never consumes a usage.
func ValidateVoucher(w http.ResponseWriter, r *http.Request, service service) {
	req := validateVoucherRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		slog.Error("Error decoding request body for voucher validation", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.BadRequest(w, err.Error())

		return
	}

	discount, err := service.Validate(r.Context(), req.Code, req.SubtotalCents, time.Now())
	if err != nil {
		respond.Err(w, err)
		slog.Error("Error validating voucher", "code", req.Code, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, validateVoucherResponse{
		Code:          req.Code,
		DiscountCents: discount,
	})
}
