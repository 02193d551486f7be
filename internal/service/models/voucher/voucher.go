package voucher

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/money"
)

// DiscountType determines how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

var ErrInvalidDiscountType = errors.New("invalid discount type")

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) Value() (driver.Value, error) {
	return t.String(), nil
}

func ParseDiscountType(v string) (DiscountType, error) {
	switch DiscountType(v) {
	case DiscountPercentage, DiscountFixedAmount:
		return DiscountType(v), nil
	default:
		return "", ErrInvalidDiscountType
	}
}

// Status is the administrative state of a voucher.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
)

var ErrInvalidVoucherStatus = errors.New("invalid voucher status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusActive, StatusInactive, StatusExpired:
		return Status(v), nil
	default:
		return "", ErrInvalidVoucherStatus
	}
}

// Voucher is a discount code. DiscountValue is a percentage for percentage
// vouchers and an amount in currency units for fixed_amount vouchers.
// UsageCount only ever increases, and never past UsageLimit when one is set.
type Voucher struct {
	ID               int64        `json:"id"`
	Code             string       `json:"code"`
	DiscountType     DiscountType `json:"discountType"`
	DiscountValue    float64      `json:"discountValue"`
	MinOrderCents    *int64       `json:"minOrderCents,omitempty"`
	MaxDiscountCents *int64       `json:"maxDiscountCents,omitempty"`
	UsageLimit       *int         `json:"usageLimit,omitempty"`
	UsageCount       int          `json:"usageCount"`
	ValidFrom        *time.Time   `json:"validFrom,omitempty"`
	ValidUntil       *time.Time   `json:"validUntil,omitempty"`
	Status           Status       `json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// NormalizeCode uppercases a voucher code; lookups are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate checks the voucher against an order subtotal at the given moment
// and returns the discount in cents. Every rejection carries its own
// apperr kind.
func Evaluate(v *Voucher, subtotalCents int64, now time.Time) (int64, error) {
	if v.Status != StatusActive {
		return 0, apperr.New(apperr.KindVoucherInactive, "voucher is not active")
	}
	if v.UsageLimit != nil && v.UsageCount >= *v.UsageLimit {
		return 0, apperr.New(apperr.KindVoucherExhausted, "voucher usage limit reached")
	}
	if v.ValidFrom != nil && now.Before(*v.ValidFrom) {
		return 0, apperr.New(apperr.KindVoucherNotYetValid, "voucher is not valid yet")
	}
	if v.ValidUntil != nil && now.After(*v.ValidUntil) {
		return 0, apperr.New(apperr.KindVoucherExpired, "voucher has expired")
	}
	if v.MinOrderCents != nil && subtotalCents < *v.MinOrderCents {
		return 0, apperr.Newf(apperr.KindVoucherMinOrder,
			"order subtotal %.2f is below the voucher minimum %.2f",
			money.ToUnits(subtotalCents), money.ToUnits(*v.MinOrderCents))
	}

	var discount int64
	switch v.DiscountType {
	case DiscountPercentage:
		discount = money.Percent(subtotalCents, v.DiscountValue)
	case DiscountFixedAmount:
		discount = money.FromUnits(v.DiscountValue)
	default:
		return 0, apperr.New(apperr.KindInternal, "unknown voucher discount type")
	}

	if v.MaxDiscountCents != nil && discount > *v.MaxDiscountCents {
		discount = *v.MaxDiscountCents
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}

	return discount, nil
}
