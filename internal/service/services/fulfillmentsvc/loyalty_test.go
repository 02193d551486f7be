package fulfillmentsvc

import (
	"context"
	"testing"

	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/loyalty"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemLoyaltyPoints(t *testing.T) {
	t.Run("mints_a_single_use_voucher", func(t *testing.T) {
		work := newMockUOW()
		var spent int64
		work.loyaltyRepo.spendPointsFunc = func(ctx context.Context, customerID, points int64) (bool, error) {
			spent = points

			return true, nil
		}
		var ledgerEntry loyalty.Transaction
		work.loyaltyRepo.insertTransactionFunc = func(ctx context.Context, tr loyalty.Transaction) (bool, error) {
			ledgerEntry = tr

			return true, nil
		}
		var minted voucher.Voucher
		work.voucherRepo.insertFunc = func(ctx context.Context, v voucher.Voucher) (voucher.Voucher, error) {
			v.ID = 12
			minted = v

			return v, nil
		}

		svc := newTestService(work)

		got, err := svc.RedeemLoyaltyPoints(context.Background(), 77, 100, "discount_10")
		require.NoError(t, err)

		assert.Equal(t, int64(100), spent)
		assert.Equal(t, voucher.DiscountPercentage, got.DiscountType)
		assert.Equal(t, float64(10), got.DiscountValue)
		require.NotNil(t, got.UsageLimit)
		assert.Equal(t, 1, *got.UsageLimit)
		assert.NotNil(t, got.ValidUntil)
		assert.Contains(t, minted.Code, "RWD-")

		assert.Equal(t, int64(-100), ledgerEntry.Points)
		assert.Equal(t, loyalty.TransactionRedeem, ledgerEntry.Type)
		assert.Equal(t, 1, work.commits)
	})

	t.Run("insufficient_points_reports_the_balance", func(t *testing.T) {
		work := newMockUOW()
		work.loyaltyRepo.spendPointsFunc = func(ctx context.Context, customerID, points int64) (bool, error) {
			return false, nil
		}
		work.loyaltyRepo.getBalanceFunc = func(ctx context.Context, customerID int64) (int64, error) {
			return 80, nil
		}
		work.voucherRepo.insertFunc = func(ctx context.Context, v voucher.Voucher) (voucher.Voucher, error) {
			t.Fatal("no voucher may be minted without points")

			return v, nil
		}

		svc := newTestService(work)

		_, err := svc.RedeemLoyaltyPoints(context.Background(), 77, 100, "discount_10")
		require.Error(t, err)
		assert.Equal(t, apperr.KindInsufficientPoints, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "balance 80")
		assert.Contains(t, err.Error(), "required 100")
		assert.Equal(t, 0, work.commits)
	})

	t.Run("unknown_reward_type", func(t *testing.T) {
		svc := newTestService(newMockUOW())

		_, err := svc.RedeemLoyaltyPoints(context.Background(), 77, 100, "free_lunch")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("points_must_match_the_reward_cost", func(t *testing.T) {
		svc := newTestService(newMockUOW())

		_, err := svc.RedeemLoyaltyPoints(context.Background(), 77, 60, "discount_10")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
