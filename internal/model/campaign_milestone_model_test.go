package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMilestoneStatusTransitions(t *testing.T) {
	assert.True(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusProposing))
	assert.True(t, MilestoneStatusProposing.CanTransitionTo(MilestoneStatusApproved))
	assert.True(t, MilestoneStatusProposing.CanTransitionTo(MilestoneStatusPending))
	assert.True(t, MilestoneStatusApproved.CanTransitionTo(MilestoneStatusReleased))

	assert.False(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusApproved))
	assert.False(t, MilestoneStatusApproved.CanTransitionTo(MilestoneStatusPending))
	assert.False(t, MilestoneStatusReleased.CanTransitionTo(MilestoneStatusApproved))

	assert.True(t, MilestoneStatusReleased.IsTerminal())
	assert.True(t, MilestoneStatusRejected.IsTerminal())
	assert.False(t, MilestoneStatusPending.IsTerminal())
}

func TestProposalStatusTransitions(t *testing.T) {
	assert.True(t, ProposalStatusActive.CanTransitionTo(ProposalStatusExecuted))
	assert.False(t, ProposalStatusExecuted.CanTransitionTo(ProposalStatusExecuted))
	assert.False(t, ProposalStatusExecuted.CanTransitionTo(ProposalStatusActive))
}

func TestCampaignProgress(t *testing.T) {
	c := CampaignModel{
		TargetAmount: decimal.NewFromInt(10),
		TotalRaised:  decimal.RequireFromString("3.5"),
	}
	assert.True(t, c.Progress().Equal(decimal.NewFromInt(35)))

	empty := CampaignModel{}
	assert.True(t, empty.Progress().IsZero())
}

func TestIsFundRelease(t *testing.T) {
	campaignId := int64(1)
	index := 0

	p := GovernanceProposalModel{ProposalType: ProposalTypeFundRelease}
	assert.False(t, p.IsFundRelease())

	p.CampaignId = &campaignId
	p.MilestoneIndex = &index
	assert.True(t, p.IsFundRelease())

	p.ProposalType = ProposalTypeGeneral
	assert.False(t, p.IsFundRelease())
}
