package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisNotifier(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	notifier := NewRedisNotifier(rdb, "umanity.governance")
	ctx := context.Background()

	campaignId := int64(3)
	index := 1
	approved := true
	proposal := &model.GovernanceProposalModel{
		Id:             9,
		Title:          "Release funds",
		CreatorAddress: "authority",
		Options:        []string{"Yes, release funds", "No, hold funds"},
		ClosesAt:       time.Now().Add(72 * time.Hour),
		ProposalType:   model.ProposalTypeFundRelease,
		CampaignId:     &campaignId,
		MilestoneIndex: &index,
	}

	require.NoError(t, notifier.ProposalCreated(ctx, proposal))

	proposal.Approved = &approved
	proposal.YesWeight = 600
	proposal.NoWeight = 200
	proposal.MilestoneAction = model.MilestoneActionApproved
	require.NoError(t, notifier.ProposalExecuted(ctx, proposal))

	entries, err := rdb.XRange(ctx, "umanity.governance", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	created := entries[0].Values
	assert.Equal(t, EventProposalCreated, created["type"])
	assert.Equal(t, "9", created["proposal_id"])
	assert.Equal(t, "3", created["campaign_id"])
	assert.Equal(t, "1", created["milestone_index"])
	assert.NotEmpty(t, created["event_id"])

	executed := entries[1].Values
	assert.Equal(t, EventProposalExecuted, executed["type"])
	assert.Equal(t, "true", executed["approved"])
	assert.Equal(t, "600", executed["yes_weight"])
	assert.Equal(t, "approved", executed["milestone_action"])
}

func TestRedisNotifierUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	notifier := NewRedisNotifier(rdb, "umanity.governance")
	err := notifier.ProposalCreated(context.Background(), &model.GovernanceProposalModel{Id: 1})
	assert.Error(t, err)
}
