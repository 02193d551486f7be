package iactivityrepo

import (
	"context"

	"github.com/quickeats/fulfillment/internal/service/models/activitylog"
)

// IActivityRepository appends audit records for state-changing operations.
type IActivityRepository interface {
	Insert(ctx context.Context, entry activitylog.Entry) error
}
