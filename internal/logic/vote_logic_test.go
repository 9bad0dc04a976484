package logic

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedFundReleaseProposal(t *testing.T) *model.GovernanceProposalModel {
	t.Helper()
	e.seedCampaign(t, "mercy-corps")
	created := e.threshold.Process(context.Background(), "mercy-corps", testAddress(1), decimal.RequireFromString("3.5"))
	require.Len(t, created, 1)
	return created[0]
}

func TestCastVote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proposal := env.seedFundReleaseProposal(t)
	voter := env.seedUser(t, 2, 600)

	result, err := env.votes.CastVote(ctx, proposal.Id, voter, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(600), result.Weight)

	stored, err := env.proposals.GetProposal(ctx, proposal.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.TotalVotes)

	t.Run("duplicate vote leaves tallies unchanged", func(t *testing.T) {
		_, err := env.votes.CastVote(ctx, proposal.Id, voter, 1)
		assert.ErrorIs(t, err, ErrDuplicateVote)

		results, err := env.tally.GetResults(ctx, proposal.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), results.TotalVoters)
		assert.Equal(t, int64(600), results.Results[0].TotalWeight)
		assert.Equal(t, int64(0), results.Results[1].TotalWeight)
	})

	t.Run("weight is a snapshot", func(t *testing.T) {
		require.NoError(t, env.users.SetRewardPoints(ctx, voter, 5))

		votes, err := env.proposals.ListVotes(ctx, proposal.Id)
		require.NoError(t, err)
		require.Len(t, votes, 1)
		assert.Equal(t, int64(600), votes[0].VoteWeight)
	})

	t.Run("zero points still votes", func(t *testing.T) {
		broke := env.seedUser(t, 3, 0)
		result, err := env.votes.CastVote(ctx, proposal.Id, broke, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Weight)
	})
}

func TestCastVoteErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proposal := env.seedFundReleaseProposal(t)
	voter := env.seedUser(t, 2, 100)

	tests := []struct {
		name       string
		proposalId int64
		voter      string
		option     int
		expected   error
	}{
		{"negative option", proposal.Id, voter, -1, ErrValidation},
		{"empty voter", proposal.Id, "", 0, ErrValidation},
		{"unregistered voter", proposal.Id, testAddress(5), 0, ErrNotRegistered},
		{"unknown proposal", proposal.Id + 100, voter, 0, ErrProposalNotFound},
		{"option out of range", proposal.Id, voter, 2, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.votes.CastVote(ctx, tt.proposalId, tt.voter, tt.option)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	t.Run("expired", func(t *testing.T) {
		env.clock.Advance(72 * time.Hour)
		_, err := env.votes.CastVote(ctx, proposal.Id, voter, 0)
		assert.ErrorIs(t, err, ErrProposalExpired)
	})

	t.Run("executed", func(t *testing.T) {
		_, err := env.execution.Execute(ctx, proposal.Id)
		require.NoError(t, err)

		_, err = env.votes.CastVote(ctx, proposal.Id, voter, 0)
		assert.ErrorIs(t, err, ErrProposalNotActive)
	})

	stored, err := env.proposals.GetProposal(ctx, proposal.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.TotalVotes)
}

func TestCastVoteConcurrentSameVoter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proposal := env.seedFundReleaseProposal(t)
	voter := env.seedUser(t, 2, 300)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		accepted   int
		duplicates int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(option int) {
			defer wg.Done()
			_, err := env.votes.CastVote(ctx, proposal.Id, voter, option)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case assert.ErrorIs(t, err, ErrDuplicateVote):
				duplicates++
			}
		}(i % 2)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 7, duplicates)

	stored, err := env.proposals.GetProposal(ctx, proposal.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.TotalVotes)
}
