package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"gorm.io/gorm"
)

// VoteLogic 投票业务逻辑
type VoteLogic struct {
	db        *gorm.DB
	proposals *repository.ProposalRepository
	votes     *repository.VoteRepository
	users     *repository.UserRepository
	clock     Clock
}

// NewVoteLogic 创建投票业务逻辑
func NewVoteLogic(db *gorm.DB, clock Clock) *VoteLogic {
	return &VoteLogic{
		db:        db,
		proposals: repository.NewProposalRepository(db),
		votes:     repository.NewVoteRepository(db),
		users:     repository.NewUserRepository(db),
		clock:     clock,
	}
}

// CastVoteResult 投票结果
type CastVoteResult struct {
	Weight int64 `json:"weight"`
}

// CastVote 投票，权重为投票时用户积分的快照
//
// 同一地址对同一提案只能投一次，由存储层唯一索引保证。
func (v *VoteLogic) CastVote(ctx context.Context, proposalId int64, voterAddress string, option int) (*CastVoteResult, error) {
	if strings.TrimSpace(voterAddress) == "" {
		return nil, invalid("voter_address is required")
	}
	if option < 0 {
		return nil, invalid("vote_option must not be negative")
	}

	user, err := v.users.GetByAddress(ctx, voterAddress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("get voter: %w", err)
	}

	proposal, err := v.proposals.GetById(ctx, proposalId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}

	voted, err := v.votes.Exists(ctx, proposalId, voterAddress)
	if err != nil {
		return nil, fmt.Errorf("check vote: %w", err)
	}
	if voted {
		return nil, ErrDuplicateVote
	}

	if proposal.Status != model.ProposalStatusActive {
		return nil, ErrProposalNotActive
	}
	if !v.clock.Now().Before(proposal.ClosesAt) {
		return nil, ErrProposalExpired
	}
	if option >= len(proposal.Options) {
		return nil, invalid(fmt.Sprintf("vote_option must be between 0 and %d", len(proposal.Options)-1))
	}

	vote := &model.GovernanceVoteModel{
		CreatedAt:    v.clock.Now(),
		ProposalId:   proposalId,
		VoterAddress: voterAddress,
		VoteOption:   option,
		VoteWeight:   user.RewardPoints,
	}

	err = v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := v.votes.WithTx(tx).Insert(ctx, vote)
		if err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
		if !inserted {
			return ErrDuplicateVote
		}

		ok, err := v.proposals.WithTx(tx).IncrementVotes(ctx, proposalId)
		if err != nil {
			return fmt.Errorf("increment votes: %w", err)
		}
		if !ok {
			return ErrProposalNotActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Vote cast on proposal %d by %s: option %d, weight %d",
		proposalId, voterAddress, option, vote.VoteWeight)
	return &CastVoteResult{Weight: vote.VoteWeight}, nil
}
