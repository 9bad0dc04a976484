package event

import (
	"context"
	"testing"
	"time"

	"github.com/shariqazeem/umanity-social-sub000/internal/chain"
	"github.com/shariqazeem/umanity-social-sub000/internal/config"
	"github.com/shariqazeem/umanity-social-sub000/internal/database/dbtest"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func address(seed byte) string {
	var key [chain.PublicKeyLength]byte
	for i := range key {
		key[i] = seed
	}
	return chain.EncodeAddress(key)
}

func TestRewardPoints(t *testing.T) {
	assert.Equal(t, int64(3500), RewardPoints(decimal.RequireFromString("3.5"), 1000))
	assert.Equal(t, int64(1), RewardPoints(decimal.RequireFromString("0.0019"), 1000))
	assert.Equal(t, int64(0), RewardPoints(decimal.RequireFromString("0.0009"), 1000))
	assert.Equal(t, int64(0), RewardPoints(decimal.NewFromInt(-1), 1000))
}

func TestDonationProcessor(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	cfg := config.DefaultGovernance()

	campaigns := logic.NewCampaignLogic(db, logic.SystemClock{})
	proposals := logic.NewProposalLogic(db, notify.NopNotifier{}, logic.SystemClock{}, cfg)
	users := logic.NewUserLogic(db)

	campaign, err := campaigns.CreateCampaign(ctx, logic.CreateCampaignRequest{
		PoolId:       "mercy-corps",
		Recipient:    address(9),
		TargetAmount: decimal.NewFromInt(10),
		Deadline:     time.Now().Add(30 * 24 * time.Hour),
		Milestones: []logic.MilestoneInput{
			{Description: "Phase one", Percentage: decimal.NewFromInt(30)},
			{Description: "Phase two", Percentage: decimal.NewFromInt(70)},
		},
	})
	require.NoError(t, err)

	processor, err := NewDonationProcessor(db, logic.NewThresholdLogic(db, proposals), cfg.PointsPerSol, 4)
	require.NoError(t, err)
	t.Cleanup(processor.Release)

	donor := address(1)
	result, err := processor.Process(ctx, DonationEvent{
		PoolId:    "mercy-corps",
		Donor:     donor,
		Amount:    decimal.RequireFromString("3.5"),
		Signature: "sig-1",
	})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, int64(3500), result.RewardPoints)
	processor.Wait()

	user, err := users.GetUser(ctx, donor)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), user.RewardPoints)

	stored, err := campaigns.GetCampaign(ctx, campaign.Id)
	require.NoError(t, err)
	assert.True(t, stored.TotalRaised.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, model.MilestoneStatusProposing, stored.Milestones[0].Status)
	assert.Equal(t, model.MilestoneStatusPending, stored.Milestones[1].Status)

	t.Run("duplicate signature", func(t *testing.T) {
		result, err := processor.Process(ctx, DonationEvent{
			PoolId:    "mercy-corps",
			Donor:     donor,
			Amount:    decimal.RequireFromString("3.5"),
			Signature: "sig-1",
		})
		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		processor.Wait()

		stored, err := campaigns.GetCampaign(ctx, campaign.Id)
		require.NoError(t, err)
		assert.True(t, stored.TotalRaised.Equal(decimal.RequireFromString("3.5")))
	})

	t.Run("unknown pool still succeeds", func(t *testing.T) {
		result, err := processor.Process(ctx, DonationEvent{
			PoolId:    "no-such-pool",
			Donor:     donor,
			Amount:    decimal.NewFromInt(1),
			Signature: "sig-2",
		})
		require.NoError(t, err)
		assert.NotNil(t, result.Record)
		processor.Wait()
	})

	t.Run("validation", func(t *testing.T) {
		tests := []DonationEvent{
			{Donor: donor, Amount: decimal.NewFromInt(1), Signature: "s"},
			{PoolId: "p", Donor: "bad", Amount: decimal.NewFromInt(1), Signature: "s"},
			{PoolId: "p", Donor: donor, Amount: decimal.Zero, Signature: "s"},
			{PoolId: "p", Donor: donor, Amount: decimal.NewFromInt(1)},
		}
		for _, donation := range tests {
			_, err := processor.Process(ctx, donation)
			assert.ErrorIs(t, err, logic.ErrValidation)
			assert.True(t, logic.IsValidation(err))
		}
	})
}

func TestDonationProcessorRecordsRaisedTotalBeforeMilestoneCheck(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	cfg := config.DefaultGovernance()

	campaigns := logic.NewCampaignLogic(db, logic.SystemClock{})
	proposals := logic.NewProposalLogic(db, notify.NopNotifier{}, logic.SystemClock{}, cfg)

	campaign, err := campaigns.CreateCampaign(ctx, logic.CreateCampaignRequest{
		PoolId:       "water-aid",
		Recipient:    address(9),
		TargetAmount: decimal.NewFromInt(10),
		Deadline:     time.Now().Add(30 * 24 * time.Hour),
		Milestones: []logic.MilestoneInput{
			{Description: "Wells", Percentage: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	processor, err := NewDonationProcessor(db, logic.NewThresholdLogic(db, proposals), cfg.PointsPerSol, 1)
	require.NoError(t, err)
	// 协程池关闭后里程碑检测无法提交
	processor.pool.Release()
	t.Cleanup(processor.Release)

	result, err := processor.Process(ctx, DonationEvent{
		PoolId:    "water-aid",
		Donor:     address(1),
		Amount:    decimal.NewFromInt(12),
		Signature: "sig-closed-pool",
	})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	processor.Wait()

	stored, err := campaigns.GetCampaign(ctx, campaign.Id)
	require.NoError(t, err)
	assert.True(t, stored.TotalRaised.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, model.MilestoneStatusPending, stored.Milestones[0].Status)

	result, err = processor.Process(ctx, DonationEvent{
		PoolId:    "water-aid",
		Donor:     address(1),
		Amount:    decimal.NewFromInt(12),
		Signature: "sig-closed-pool",
	})
	require.NoError(t, err)
	assert.True(t, result.Duplicate)

	stored, err = campaigns.GetCampaign(ctx, campaign.Id)
	require.NoError(t, err)
	assert.True(t, stored.TotalRaised.Equal(decimal.NewFromInt(12)))
}
