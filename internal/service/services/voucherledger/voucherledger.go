package voucherledger

import (
	"context"
	"time"

	"github.com/quickeats/fulfillment/internal/dal/interfaces/ivoucherrepo"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	voucherrepo "github.com/quickeats/fulfillment/internal/dal/repositories/voucher/postgres"
	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/sethvargo/go-retry"
)

const redeemAttempts = 3

// Ledger validates vouchers and consumes their usages. Redeem runs against a
// caller-supplied repository so it can join the order-creation transaction.
type Ledger struct {
	pgClient *postgres.Client
}

// option is a function that configures the Ledger.
type option func(*Ledger)

// MustNewLedger creates a new Ledger.
func MustNewLedger(opts ...option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithPostgresClient sets the Postgres client for the Ledger.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(l *Ledger) {
		l.pgClient = pgClient
	}
}

// Validate checks a code against an order subtotal without consuming a
// usage. It backs the checkout preview; redemption re-validates.
func (l *Ledger) Validate(ctx context.Context, code string, subtotalCents int64, now time.Time) (int64, error) {
	repo := voucherrepo.NewPostgresVoucherRepository(l.pgClient.Pool())

	discount, _, err := validate(ctx, repo, code, subtotalCents, now)

	return discount, err
}

// Redeem validates the code and consumes one usage through the given
// repository. The usage increment is a compare-and-swap on the count read
// during validation; on a lost race the whole validate+increment sequence is
// retried a bounded number of times, after which the contention is surfaced
// to the caller.
func (l *Ledger) Redeem(ctx context.Context, repo ivoucherrepo.IVoucherRepository, code string, subtotalCents int64, now time.Time) (int64, *voucher.Voucher, error) {
	var discount int64
	var redeemed *voucher.Voucher

	backoff := retry.WithMaxRetries(redeemAttempts-1, retry.NewConstant(20*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		d, v, err := validate(ctx, repo, code, subtotalCents, now)
		if err != nil {
			return err
		}

		applied, err := repo.IncrementUsage(ctx, v.ID, v.UsageCount)
		if err != nil {
			return err
		}
		if !applied {
			// Count moved since we read it; re-validate from scratch.
			return retry.RetryableError(apperr.New(apperr.KindVoucherContention, "voucher usage contention"))
		}

		v.UsageCount++
		discount = d
		redeemed = v

		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	return discount, redeemed, nil
}

func validate(ctx context.Context, repo ivoucherrepo.IVoucherRepository, code string, subtotalCents int64, now time.Time) (int64, *voucher.Voucher, error) {
	v, err := repo.GetByCode(ctx, code)
	if err != nil {
		return 0, nil, apperr.Wrap(apperr.KindDatabase, "failed to look up voucher", err)
	}
	if v == nil {
		return 0, nil, apperr.New(apperr.KindVoucherNotFound, "voucher not found")
	}

	discount, err := voucher.Evaluate(v, subtotalCents, now)
	if err != nil {
		return 0, nil, err
	}

	return discount, v, nil
}
