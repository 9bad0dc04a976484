package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/notify"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"gorm.io/gorm"
)

// ExecutionLogic 投票截止后执行提案
type ExecutionLogic struct {
	db         *gorm.DB
	proposals  *repository.ProposalRepository
	milestones *repository.MilestoneRepository
	votes      *repository.VoteRepository
	notifier   notify.Notifier
	clock      Clock
}

// NewExecutionLogic 创建提案执行业务逻辑
func NewExecutionLogic(db *gorm.DB, notifier notify.Notifier, clock Clock) *ExecutionLogic {
	return &ExecutionLogic{
		db:         db,
		proposals:  repository.NewProposalRepository(db),
		milestones: repository.NewMilestoneRepository(db),
		votes:      repository.NewVoteRepository(db),
		notifier:   notifier,
		clock:      clock,
	}
}

// ExecutionResult 提案执行结果
type ExecutionResult struct {
	ProposalId      int64  `json:"proposal_id"`
	Approved        bool   `json:"approved"`
	YesWeight       int64  `json:"yes_weight"`
	NoWeight        int64  `json:"no_weight"`
	TotalVoters     int64  `json:"total_voters"`
	WinningOption   *int   `json:"winning_option,omitempty"`
	MilestoneAction string `json:"milestone_action,omitempty"`
}

// Execute 执行提案，每个提案只能成功执行一次
//
// 资金释放提案在同一事务中推进里程碑：通过则 approved，否决则回到 pending。
func (e *ExecutionLogic) Execute(ctx context.Context, proposalId int64) (*ExecutionResult, error) {
	proposal, err := e.proposals.GetById(ctx, proposalId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}

	now := e.clock.Now()
	if now.Before(proposal.ClosesAt) {
		return nil, ErrVotingStillOpen
	}
	if proposal.Status == model.ProposalStatusExecuted {
		return nil, ErrAlreadyExecuted
	}

	votes, err := e.votes.ListByProposal(ctx, proposalId)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	result := decide(proposal, Tally(proposal.Options, votes))

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposals := e.proposals.WithTx(tx)

		won, err := proposals.MarkExecuted(ctx, proposalId, repository.ExecutionOutcome{
			ExecutedAt:    now,
			Approved:      result.Approved,
			WinningOption: result.WinningOption,
			YesWeight:     result.YesWeight,
			NoWeight:      result.NoWeight,
			TotalVoters:   result.TotalVoters,
		})
		if err != nil {
			return fmt.Errorf("mark executed: %w", err)
		}
		if !won {
			return ErrAlreadyExecuted
		}

		if !proposal.IsFundRelease() {
			return nil
		}

		action, err := e.advanceMilestone(ctx, e.milestones.WithTx(tx), proposal, result.Approved)
		if err != nil {
			return err
		}
		result.MilestoneAction = action
		if action == "" {
			return nil
		}
		return proposals.SetMilestoneAction(ctx, proposalId, action)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Proposal %d executed: approved=%t winner=%s yes=%d no=%d voters=%d milestone=%q",
		proposalId, result.Approved, optionLabel(proposal.Options, result.WinningOption),
		result.YesWeight, result.NoWeight, result.TotalVoters, result.MilestoneAction)

	if executed, err := e.proposals.GetById(ctx, proposalId); err == nil {
		if err := e.notifier.ProposalExecuted(ctx, executed); err != nil {
			logger.Error("Proposal %d executed notification failed (non-blocking): %v", proposalId, err)
		}
	}
	return result, nil
}

// advanceMilestone 根据投票结果推进里程碑状态，返回写入提案的 milestone_action
func (e *ExecutionLogic) advanceMilestone(ctx context.Context, milestones *repository.MilestoneRepository, proposal *model.GovernanceProposalModel, approved bool) (string, error) {
	campaignId := *proposal.CampaignId
	index := *proposal.MilestoneIndex

	if approved {
		ok, err := milestones.Approve(ctx, campaignId, index, proposal.Id)
		if err != nil {
			return "", fmt.Errorf("approve milestone: %w", err)
		}
		if !ok {
			logger.Warn("Proposal %d approved but campaign %d milestone %d is not proposing for it, leaving milestone unchanged",
				proposal.Id, campaignId, index)
			return "", nil
		}
		return model.MilestoneActionApproved, nil
	}

	ok, err := milestones.Reopen(ctx, campaignId, index, proposal.Id)
	if err != nil {
		return "", fmt.Errorf("reopen milestone: %w", err)
	}
	if !ok {
		logger.Warn("Proposal %d rejected but campaign %d milestone %d is not proposing for it, leaving milestone unchanged",
			proposal.Id, campaignId, index)
		return "", nil
	}
	return model.MilestoneActionRejected, nil
}

// decide 根据计票结果判定提案是否通过
//
// 资金释放提案以及含 yes/no 选项的普通提案比较 yes 与 no 的权重，yes 严格大于 no 才通过。
// 其余普通提案取权重最高的选项，并列或总权重为 0 时不通过且没有胜出选项。
func decide(proposal *model.GovernanceProposalModel, tally TallyResult) *ExecutionResult {
	result := &ExecutionResult{
		ProposalId:  proposal.Id,
		TotalVoters: tally.TotalVoters,
	}

	yes, no := findYesNo(proposal.Options)
	if proposal.ProposalType == model.ProposalTypeFundRelease {
		if yes < 0 || no < 0 {
			yes, no = 0, 1
		}
		decideYesNo(result, tally, yes, no)
		return result
	}
	// 含 yes/no 选项的普通提案同样按二元规则判定
	if yes >= 0 && no >= 0 {
		decideYesNo(result, tally, yes, no)
		return result
	}

	best := -1
	tied := false
	for i, r := range tally.Results {
		if r.TotalWeight <= 0 {
			continue
		}
		switch {
		case best < 0 || r.TotalWeight > tally.Results[best].TotalWeight:
			best = i
			tied = false
		case r.TotalWeight == tally.Results[best].TotalWeight:
			tied = true
		}
	}

	if best >= 0 && !tied {
		result.Approved = true
		result.WinningOption = &best
	}
	return result
}

// decideYesNo yes 权重严格大于 no 权重才通过，平票不通过
func decideYesNo(result *ExecutionResult, tally TallyResult, yes, no int) {
	if yes < len(tally.Results) {
		result.YesWeight = tally.Results[yes].TotalWeight
	}
	if no < len(tally.Results) {
		result.NoWeight = tally.Results[no].TotalWeight
	}
	result.Approved = result.YesWeight > result.NoWeight
	if result.Approved {
		result.WinningOption = &yes
	} else if result.NoWeight > result.YesWeight {
		result.WinningOption = &no
	}
}

// optionLabel 仅用于日志
func optionLabel(options []string, index *int) string {
	if index == nil || *index < 0 || *index >= len(options) {
		return "none"
	}
	return strings.TrimSpace(options[*index])
}
