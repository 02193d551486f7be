package ivoucherrepo

import (
	"context"

	"github.com/quickeats/fulfillment/internal/service/models/voucher"
)

// IVoucherRepository is the voucher data-access interface.
type IVoucherRepository interface {
	// GetByCode looks a voucher up by its normalized code.
	GetByCode(ctx context.Context, code string) (*voucher.Voucher, error)

	Insert(ctx context.Context, v voucher.Voucher) (voucher.Voucher, error)

	// IncrementUsage bumps usage_count by one, guarded by the count observed
	// at validation time. A false result means another redemption got there
	// first and the caller must re-validate.
	IncrementUsage(ctx context.Context, id int64, observedCount int) (bool, error)
}
