package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"gorm.io/gorm"
)

// OptionResult 单个选项的计票结果
type OptionResult struct {
	Option      string  `json:"option"`
	Index       int     `json:"index"`
	VoteCount   int64   `json:"vote_count"`
	TotalWeight int64   `json:"total_weight"`
	Percentage  float64 `json:"percentage"`
}

// TallyResult 提案计票结果
type TallyResult struct {
	Results     []OptionResult `json:"results"`
	TotalVoters int64          `json:"total_voters"`
	TotalWeight int64          `json:"total_weight"`
}

// TallyLogic 实时计票，不缓存结果
type TallyLogic struct {
	proposals *repository.ProposalRepository
	votes     *repository.VoteRepository
}

// NewTallyLogic 创建计票业务逻辑
func NewTallyLogic(db *gorm.DB) *TallyLogic {
	return &TallyLogic{
		proposals: repository.NewProposalRepository(db),
		votes:     repository.NewVoteRepository(db),
	}
}

// GetResults 计算提案当前的计票结果，投票进行中也可调用
func (t *TallyLogic) GetResults(ctx context.Context, proposalId int64) (*TallyResult, error) {
	proposal, err := t.proposals.GetById(ctx, proposalId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}

	votes, err := t.votes.ListByProposal(ctx, proposalId)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	result := Tally(proposal.Options, votes)
	return &result, nil
}

// Tally 按选项汇总票数与权重，超出选项范围的投票不计入
func Tally(options []string, votes []model.GovernanceVoteModel) TallyResult {
	results := make([]OptionResult, len(options))
	for i, option := range options {
		results[i] = OptionResult{Option: option, Index: i}
	}

	var totalWeight int64
	var totalVoters int64
	for _, v := range votes {
		totalVoters++
		if v.VoteOption < 0 || v.VoteOption >= len(results) {
			continue
		}
		results[v.VoteOption].VoteCount++
		results[v.VoteOption].TotalWeight += v.VoteWeight
		totalWeight += v.VoteWeight
	}

	if totalWeight > 0 {
		for i := range results {
			results[i].Percentage = float64(results[i].TotalWeight) / float64(totalWeight) * 100
		}
	}

	return TallyResult{
		Results:     results,
		TotalVoters: totalVoters,
		TotalWeight: totalWeight,
	}
}
