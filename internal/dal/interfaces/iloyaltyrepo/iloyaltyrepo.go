package iloyaltyrepo

import (
	"context"

	"github.com/quickeats/fulfillment/internal/service/models/loyalty"
)

// ILoyaltyRepository is the loyalty data-access interface.
type ILoyaltyRepository interface {
	GetBalance(ctx context.Context, customerID int64) (int64, error)

	// AddPoints credits points to the balance, creating it when absent.
	AddPoints(ctx context.Context, customerID, points int64) error

	// SpendPoints debits points only when the balance covers them; a false
	// result means insufficient points.
	SpendPoints(ctx context.Context, customerID, points int64) (bool, error)

	// InsertTransaction appends a ledger entry. For earn entries the order id
	// is unique; a false result means the entry already exists and the award
	// must not be repeated.
	InsertTransaction(ctx context.Context, t loyalty.Transaction) (bool, error)
}
