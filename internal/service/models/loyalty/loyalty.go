package loyalty

import "time"

// TransactionType tags a ledger entry as an earn or a redemption.
type TransactionType string

const (
	TransactionEarn   TransactionType = "earn"
	TransactionRedeem TransactionType = "redeem"
)

// Transaction is an append-only loyalty ledger entry. Points are positive
// for earns and negative for redemptions. OrderID is set for earns only and
// is unique per order, which makes the award idempotent.
type Transaction struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customerId"`
	OrderID    *int64          `json:"orderId,omitempty"`
	Points     int64           `json:"points"`
	Type       TransactionType `json:"type"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Reward is one entry of the redemption catalog: spending PointsCost mints a
// single-use percentage voucher.
type Reward struct {
	Type            string  `json:"type"`
	PointsCost      int64   `json:"pointsCost"`
	DiscountPercent float64 `json:"discountPercent"`
}
