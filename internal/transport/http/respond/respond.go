package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quickeats/fulfillment/internal/service/models/apperr"
)

// errorBody is the JSON error envelope returned by every endpoint.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:          http.StatusBadRequest,
	apperr.KindUnauthorized:        http.StatusForbidden,
	apperr.KindNotFound:            http.StatusNotFound,
	apperr.KindInvalidStatus:       http.StatusConflict,
	apperr.KindAlreadyAssigned:     http.StatusConflict,
	apperr.KindVoucherContention:   http.StatusConflict,
	apperr.KindDriverInactive:      http.StatusUnprocessableEntity,
	apperr.KindZoneMismatch:        http.StatusUnprocessableEntity,
	apperr.KindInvalidDeliveryCode: http.StatusUnprocessableEntity,
	apperr.KindVoucherNotFound:     http.StatusUnprocessableEntity,
	apperr.KindVoucherInactive:     http.StatusUnprocessableEntity,
	apperr.KindVoucherExhausted:    http.StatusUnprocessableEntity,
	apperr.KindVoucherNotYetValid:  http.StatusUnprocessableEntity,
	apperr.KindVoucherExpired:      http.StatusUnprocessableEntity,
	apperr.KindVoucherMinOrder:     http.StatusUnprocessableEntity,
	apperr.KindInsufficientPoints:  http.StatusUnprocessableEntity,
	apperr.KindDatabase:            http.StatusInternalServerError,
	apperr.KindInternal:            http.StatusInternalServerError,
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// Err maps a service error to its HTTP status and writes the error envelope.
// Internal details of 5xx errors are not leaked to the client.
func Err(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	} else {
		var e *apperr.Error
		if errors.As(err, &e) {
			msg = e.Msg
		}
	}

	JSON(w, status, errorBody{Error: errorDetail{
		Code:    string(kind),
		Message: msg,
	}})
}

// BadRequest writes a validation error envelope for malformed input.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    string(apperr.KindValidation),
		Message: msg,
	}})
}
