package pricing

import (
	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/money"
)

// Quote is the priced breakdown of a candidate order. All amounts are cents.
type Quote struct {
	SubtotalCents    int64
	DeliveryFeeCents int64
	DiscountCents    int64
	TaxCents         int64
	TotalCents       int64
}

// Compute prices a candidate order:
//
//	total = subtotal + deliveryFee + tax - discount
//
// The discount never applies to fees or tax, so it is clamped to the
// subtotal. Tax is computed on the subtotal at the given rate, rounded
// half-up. The caller must have rejected empty orders already; a
// non-positive subtotal is a validation error.
func Compute(subtotalCents, deliveryFeeCents, discountCents int64, taxRate float64) (Quote, error) {
	if subtotalCents <= 0 {
		return Quote{}, apperr.New(apperr.KindValidation, "order subtotal must be positive")
	}
	if deliveryFeeCents < 0 {
		return Quote{}, apperr.New(apperr.KindValidation, "delivery fee cannot be negative")
	}
	if discountCents < 0 {
		return Quote{}, apperr.New(apperr.KindValidation, "discount cannot be negative")
	}

	if discountCents > subtotalCents {
		discountCents = subtotalCents
	}

	taxCents := money.Percent(subtotalCents, taxRate)

	total := subtotalCents + deliveryFeeCents + taxCents - discountCents
	if total < 0 {
		total = 0
	}

	return Quote{
		SubtotalCents:    subtotalCents,
		DeliveryFeeCents: deliveryFeeCents,
		DiscountCents:    discountCents,
		TaxCents:         taxCents,
		TotalCents:       total,
	}, nil
}
