package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for the transport boundary.
type Kind string

const (
	KindValidation          Kind = "VALIDATION_ERROR"
	KindUnauthorized        Kind = "AUTH_UNAUTHORIZED"
	KindNotFound            Kind = "RESOURCE_NOT_FOUND"
	KindInvalidStatus       Kind = "ORDER_INVALID_STATUS"
	KindAlreadyAssigned     Kind = "ORDER_ALREADY_ASSIGNED"
	KindDriverInactive      Kind = "DRIVER_INACTIVE"
	KindZoneMismatch        Kind = "PICKUP_ZONE_MISMATCH"
	KindInvalidDeliveryCode Kind = "INVALID_DELIVERY_CODE"
	KindVoucherNotFound     Kind = "VOUCHER_NOT_FOUND"
	KindVoucherInactive     Kind = "VOUCHER_INACTIVE"
	KindVoucherExhausted    Kind = "VOUCHER_EXHAUSTED"
	KindVoucherNotYetValid  Kind = "VOUCHER_NOT_YET_VALID"
	KindVoucherExpired      Kind = "VOUCHER_EXPIRED"
	KindVoucherMinOrder     Kind = "VOUCHER_MIN_ORDER_NOT_MET"
	KindVoucherContention   Kind = "VOUCHER_CONTENTION"
	KindInsufficientPoints  Kind = "INSUFFICIENT_POINTS"
	KindDatabase            Kind = "DATABASE_ERROR"
	KindInternal            Kind = "INTERNAL_ERROR"
)

// Error carries a Kind alongside a human-readable message and an optional
// wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}

	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the given kind and message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a new Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
