package logic

import (
	"context"
	"testing"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCampaign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	campaign := env.seedCampaign(t, "mercy-corps")
	assert.True(t, campaign.IsActive)
	assert.True(t, campaign.TotalRaised.IsZero())
	require.Len(t, campaign.Milestones, 3)

	stored, err := env.campaigns.GetCampaign(ctx, campaign.Id)
	require.NoError(t, err)
	for i, m := range stored.Milestones {
		assert.Equal(t, i, m.Index)
		assert.Equal(t, model.MilestoneStatusPending, m.Status)
		assert.Nil(t, m.GovernanceProposalId)
	}

	byPool, err := env.campaigns.GetCampaignByPoolId(ctx, "mercy-corps")
	require.NoError(t, err)
	assert.Equal(t, campaign.Id, byPool.Id)

	list, err := env.campaigns.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.campaigns.GetCampaign(ctx, 999)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
	_, err = env.campaigns.GetCampaignByPoolId(ctx, "missing")
	assert.ErrorIs(t, err, ErrCampaignNotFound)
	_, err = env.campaigns.GetMilestones(ctx, 999)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestCreateCampaignValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := CreateCampaignRequest{
		PoolId:       "water-project",
		Recipient:    testAddress(9),
		TargetAmount: decimal.NewFromInt(50),
		Deadline:     testStart.AddDate(0, 1, 0),
		Milestones: []MilestoneInput{
			{Description: "Drill", Percentage: decimal.NewFromInt(60)},
			{Description: "Pump", Percentage: decimal.NewFromInt(40)},
		},
	}

	tests := []struct {
		name   string
		modify func(*CreateCampaignRequest)
	}{
		{"missing pool", func(r *CreateCampaignRequest) { r.PoolId = " " }},
		{"bad recipient", func(r *CreateCampaignRequest) { r.Recipient = "not-an-address" }},
		{"zero target", func(r *CreateCampaignRequest) { r.TargetAmount = decimal.Zero }},
		{"no milestones", func(r *CreateCampaignRequest) { r.Milestones = nil }},
		{"zero percentage", func(r *CreateCampaignRequest) {
			r.Milestones = []MilestoneInput{{Description: "x", Percentage: decimal.Zero}}
		}},
		{"over one hundred", func(r *CreateCampaignRequest) {
			r.Milestones = []MilestoneInput{
				{Description: "x", Percentage: decimal.NewFromInt(70)},
				{Description: "y", Percentage: decimal.NewFromInt(40)},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			_, err := env.campaigns.CreateCampaign(ctx, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	inactive := false
	valid.IsActive = &inactive
	campaign, err := env.campaigns.CreateCampaign(ctx, valid)
	require.NoError(t, err)
	assert.False(t, campaign.IsActive)
}

func TestUserLogic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	address := testAddress(4)

	user, err := env.users.RegisterUser(ctx, address, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Zero(t, user.RewardPoints)

	require.NoError(t, env.users.AddRewardPoints(ctx, address, 40))
	require.NoError(t, env.users.AddRewardPoints(ctx, address, 70))

	again, err := env.users.RegisterUser(ctx, address, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, user.Id, again.Id)
	assert.Equal(t, "alice", again.Username)
	assert.Equal(t, int64(110), again.RewardPoints)

	_, err = env.users.RegisterUser(ctx, "bogus", "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, env.users.AddRewardPoints(ctx, address, -1), ErrValidation)
	assert.ErrorIs(t, env.users.AddRewardPoints(ctx, testAddress(5), 1), ErrUserNotFound)
	_, err = env.users.GetUser(ctx, testAddress(5))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(invalid("bad")))
	assert.Equal(t, KindNotFound, KindOf(ErrProposalNotFound))
	assert.Equal(t, KindStateConflict, KindOf(ErrDuplicateVote))
	assert.True(t, IsStateConflict(ErrAlreadyExecuted))
	assert.Equal(t, ErrorKind(""), KindOf(assert.AnError))
}
