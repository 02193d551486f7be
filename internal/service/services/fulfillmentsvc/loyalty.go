package fulfillmentsvc

import (
	"context"
	"time"

	"github.com/quickeats/fulfillment/internal/service/models/actor"
	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/quickeats/fulfillment/internal/service/models/loyalty"
	"github.com/quickeats/fulfillment/internal/service/models/voucher"
	"github.com/spf13/viper"
)

const rewardValidity = 30 * 24 * time.Hour

// defaultRewards is the built-in catalog, used when config.yaml does not
// override it.
var defaultRewards = []loyalty.Reward{
	{Type: "discount_5", PointsCost: 50, DiscountPercent: 5},
	{Type: "discount_10", PointsCost: 100, DiscountPercent: 10},
	{Type: "discount_20", PointsCost: 180, DiscountPercent: 20},
}

func rewardCatalog() []loyalty.Reward {
	var rewards []loyalty.Reward
	if err := viper.UnmarshalKey("loyalty.rewards", &rewards); err != nil || len(rewards) == 0 {
		return defaultRewards
	}

	return rewards
}

// RedeemLoyaltyPoints exchanges points for a single-use percentage voucher.
// Points debit, voucher mint and ledger entry are one transaction: the
// customer never loses points without a voucher nor gets one for free.
func (s *FulfillmentService) RedeemLoyaltyPoints(ctx context.Context, customerID, pointsRequested int64, rewardType string) (*voucher.Voucher, error) {
	var reward *loyalty.Reward
	for _, r := range rewardCatalog() {
		if r.Type == rewardType {
			reward = &r

			break
		}
	}
	if reward == nil {
		return nil, apperr.Newf(apperr.KindValidation, "unknown reward type %q", rewardType)
	}
	if pointsRequested != reward.PointsCost {
		return nil, apperr.Newf(apperr.KindValidation, "reward %q costs %d points, not %d", rewardType, reward.PointsCost, pointsRequested)
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to begin transaction", err)
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	spent, err := work.LoyaltyRepository().SpendPoints(ctx, customerID, reward.PointsCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to spend loyalty points", err)
	}
	if !spent {
		balance, err := work.LoyaltyRepository().GetBalance(ctx, customerID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindDatabase, "failed to load loyalty balance", err)
		}

		return nil, apperr.Newf(apperr.KindInsufficientPoints, "insufficient points: balance %d, required %d", balance, reward.PointsCost)
	}

	now := time.Now()
	validUntil := now.Add(rewardValidity)
	usageLimit := 1
	minted := voucher.Voucher{
		Code:          voucher.NewRewardCode(),
		DiscountType:  voucher.DiscountPercentage,
		DiscountValue: reward.DiscountPercent,
		UsageLimit:    &usageLimit,
		ValidFrom:     &now,
		ValidUntil:    &validUntil,
		Status:        voucher.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	minted, err = work.VoucherRepository().Insert(ctx, minted)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to mint reward voucher", err)
	}

	if _, err := work.LoyaltyRepository().InsertTransaction(ctx, loyalty.Transaction{
		CustomerID: customerID,
		Points:     -reward.PointsCost,
		Type:       loyalty.TransactionRedeem,
		CreatedAt:  now,
	}); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to append loyalty redemption", err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "failed to commit loyalty redemption", err)
	}

	act := actor.Actor{ID: customerID, Role: actor.RoleCustomer}
	s.logActivity(s.newUOW().ActivityRepository(), act, "voucher", minted.ID, "loyalty_redeemed", map[string]any{
		"reward_type": rewardType,
		"points":      reward.PointsCost,
		"code":        minted.Code,
	})

	return &minted, nil
}
