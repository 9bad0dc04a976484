package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shariqazeem/umanity-social-sub000/internal/config"
	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/notify"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"gorm.io/gorm"
)

const (
	MinOptions = 2
	MaxOptions = 4

	FundReleaseYesOption = "Yes, release funds"
	FundReleaseNoOption  = "No, hold funds"
)

// ProposalLogic 提案创建与查询
type ProposalLogic struct {
	db         *gorm.DB
	proposals  *repository.ProposalRepository
	milestones *repository.MilestoneRepository
	campaigns  *repository.CampaignRepository
	users      *repository.UserRepository
	votes      *repository.VoteRepository
	notifier   notify.Notifier
	clock      Clock
	cfg        config.GovernanceConfig
}

// NewProposalLogic 创建提案业务逻辑
func NewProposalLogic(db *gorm.DB, notifier notify.Notifier, clock Clock, cfg config.GovernanceConfig) *ProposalLogic {
	return &ProposalLogic{
		db:         db,
		proposals:  repository.NewProposalRepository(db),
		milestones: repository.NewMilestoneRepository(db),
		campaigns:  repository.NewCampaignRepository(db),
		users:      repository.NewUserRepository(db),
		votes:      repository.NewVoteRepository(db),
		notifier:   notifier,
		clock:      clock,
		cfg:        cfg,
	}
}

// CreateProposalRequest 创建提案请求
type CreateProposalRequest struct {
	CreatorAddress string             `json:"creator_address"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Options        []string           `json:"options"`
	DurationHours  int                `json:"duration_hours"`
	ProposalType   model.ProposalType `json:"proposal_type"`
	CampaignId     *int64             `json:"campaign_id"`
	MilestoneIndex *int               `json:"milestone_index"`
}

// CreateProposal 用户手动创建提案，需要足够积分
func (p *ProposalLogic) CreateProposal(ctx context.Context, req CreateProposalRequest) (*model.GovernanceProposalModel, error) {
	if err := p.validateProposal(&req); err != nil {
		return nil, err
	}

	creator, err := p.users.GetByAddress(ctx, req.CreatorAddress)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get creator: %w", err)
	}
	if creator == nil || creator.RewardPoints < p.cfg.MinProposalPoints {
		return nil, ErrInsufficientPoints
	}

	now := p.clock.Now()
	proposal := &model.GovernanceProposalModel{
		CreatedAt:      now,
		CreatorAddress: req.CreatorAddress,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Options:        req.Options,
		Status:         model.ProposalStatusActive,
		ClosesAt:       now.Add(time.Duration(req.DurationHours) * time.Hour),
		ProposalType:   req.ProposalType,
		CampaignId:     req.CampaignId,
		MilestoneIndex: req.MilestoneIndex,
	}

	if req.ProposalType == model.ProposalTypeFundRelease {
		campaign, err := p.campaigns.GetById(ctx, *req.CampaignId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCampaignNotFound
			}
			return nil, fmt.Errorf("get campaign: %w", err)
		}
		if !campaign.IsActive {
			return nil, ErrCampaignInactive
		}
		if err := p.createForMilestone(ctx, proposal); err != nil {
			return nil, err
		}
	} else if err := p.proposals.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	logger.Info("Proposal %d created by %s (%s)", proposal.Id, proposal.CreatorAddress, proposal.ProposalType)
	p.notifyCreated(ctx, proposal)
	return proposal, nil
}

// CreateMilestoneProposal 为刚达成的里程碑创建资金释放提案
//
// 里程碑必须能从 pending 抢占为 proposing，否则返回 ErrMilestoneNotPending。
func (p *ProposalLogic) CreateMilestoneProposal(ctx context.Context, campaign *model.CampaignModel, milestone *model.CampaignMilestoneModel, creator string) (*model.GovernanceProposalModel, error) {
	if p.cfg.AuthorityAddress != "" {
		creator = p.cfg.AuthorityAddress
	}

	now := p.clock.Now()
	campaignId := campaign.Id
	index := milestone.Index
	title, description := fundReleaseText(campaign, milestone)

	proposal := &model.GovernanceProposalModel{
		CreatedAt:      now,
		CreatorAddress: creator,
		Title:          title,
		Description:    description,
		Options:        []string{FundReleaseYesOption, FundReleaseNoOption},
		Status:         model.ProposalStatusActive,
		ClosesAt:       now.Add(time.Duration(p.cfg.FundReleaseDurationHours) * time.Hour),
		ProposalType:   model.ProposalTypeFundRelease,
		CampaignId:     &campaignId,
		MilestoneIndex: &index,
	}

	if err := p.createForMilestone(ctx, proposal); err != nil {
		return nil, err
	}

	logger.Info("Fund release proposal %d created for campaign %d milestone %d",
		proposal.Id, campaignId, index)
	p.notifyCreated(ctx, proposal)
	return proposal, nil
}

// createForMilestone 在同一事务中抢占里程碑、创建提案并关联
func (p *ProposalLogic) createForMilestone(ctx context.Context, proposal *model.GovernanceProposalModel) error {
	campaignId := *proposal.CampaignId
	index := *proposal.MilestoneIndex

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		milestones := p.milestones.WithTx(tx)

		if _, err := milestones.Get(ctx, campaignId, index); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMilestoneNotFound
			}
			return fmt.Errorf("get milestone: %w", err)
		}

		claimed, err := milestones.Claim(ctx, campaignId, index)
		if err != nil {
			return fmt.Errorf("claim milestone: %w", err)
		}
		if !claimed {
			return ErrMilestoneNotPending
		}

		if err := p.proposals.WithTx(tx).Create(ctx, proposal); err != nil {
			return fmt.Errorf("create proposal: %w", err)
		}

		if _, err := milestones.LinkProposal(ctx, campaignId, index, proposal.Id); err != nil {
			return fmt.Errorf("link proposal: %w", err)
		}
		return nil
	})
}

// GetProposal 获取提案
func (p *ProposalLogic) GetProposal(ctx context.Context, id int64) (*model.GovernanceProposalModel, error) {
	proposal, err := p.proposals.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return proposal, nil
}

// ListProposals 获取提案列表
func (p *ProposalLogic) ListProposals(ctx context.Context, activeOnly bool) ([]model.GovernanceProposalModel, error) {
	proposals, err := p.proposals.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return proposals, nil
}

// ListExpiredActive 获取投票已截止但尚未执行的提案
func (p *ProposalLogic) ListExpiredActive(ctx context.Context) ([]model.GovernanceProposalModel, error) {
	proposals, err := p.proposals.ListExpiredActive(ctx, p.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list expired proposals: %w", err)
	}
	return proposals, nil
}

// ProposalWithResults 附带实时计票与收款信息的提案
type ProposalWithResults struct {
	model.GovernanceProposalModel
	Tally     TallyResult        `json:"tally"`
	Recipient *ProposalRecipient `json:"recipient,omitempty"`
}

// ProposalRecipient 资金释放提案的收款方
type ProposalRecipient struct {
	PoolId  string `json:"pool_id"`
	Address string `json:"address"`
}

// ListProposalsWithResults 获取提案列表并附带计票结果
func (p *ProposalLogic) ListProposalsWithResults(ctx context.Context, activeOnly bool) ([]ProposalWithResults, error) {
	proposals, err := p.ListProposals(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]ProposalWithResults, len(proposals))
	for i, proposal := range proposals {
		item := ProposalWithResults{GovernanceProposalModel: proposal}

		votes, err := p.votes.ListByProposal(ctx, proposal.Id)
		if err != nil {
			logger.Warn("Failed to load votes for proposal %d: %v", proposal.Id, err)
			item.Tally = Tally(proposal.Options, nil)
		} else {
			item.Tally = Tally(proposal.Options, votes)
		}

		if proposal.CampaignId != nil {
			if campaign, err := p.campaigns.GetById(ctx, *proposal.CampaignId); err == nil {
				item.Recipient = &ProposalRecipient{PoolId: campaign.PoolId, Address: campaign.Recipient}
			}
		}
		result[i] = item
	}
	return result, nil
}

// ListVotes 获取提案的投票记录
func (p *ProposalLogic) ListVotes(ctx context.Context, id int64) ([]model.GovernanceVoteModel, error) {
	if _, err := p.GetProposal(ctx, id); err != nil {
		return nil, err
	}
	votes, err := p.votes.ListByProposal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}

func (p *ProposalLogic) notifyCreated(ctx context.Context, proposal *model.GovernanceProposalModel) {
	if err := p.notifier.ProposalCreated(ctx, proposal); err != nil {
		logger.Error("Proposal %d created notification failed (non-blocking): %v", proposal.Id, err)
	}
}

// validateProposal 验证提案数据并补全默认值
func (p *ProposalLogic) validateProposal(req *CreateProposalRequest) error {
	if strings.TrimSpace(req.CreatorAddress) == "" {
		return invalid("creator_address is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return invalid("title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return invalid("description is required")
	}
	if len(req.Options) < MinOptions || len(req.Options) > MaxOptions {
		return invalid(fmt.Sprintf("proposal needs %d to %d options", MinOptions, MaxOptions))
	}
	for i, option := range req.Options {
		if strings.TrimSpace(option) == "" {
			return invalid(fmt.Sprintf("option %d is empty", i))
		}
	}

	if req.DurationHours == 0 {
		req.DurationHours = p.cfg.DefaultDurationHours
	}
	if req.DurationHours < 0 {
		return invalid("duration_hours must be positive")
	}

	if req.ProposalType == "" {
		req.ProposalType = model.ProposalTypeGeneral
	}
	if !req.ProposalType.Valid() {
		return invalid("unknown proposal_type " + string(req.ProposalType))
	}

	if req.ProposalType == model.ProposalTypeFundRelease {
		if req.CampaignId == nil || req.MilestoneIndex == nil {
			return invalid("fund_release proposals require campaign_id and milestone_index")
		}
		if len(req.Options) != 2 {
			return invalid("fund_release proposals must have exactly 2 options")
		}
		if yes, no := findYesNo(req.Options); yes < 0 || no < 0 {
			return invalid("fund_release proposals need a yes option and a no option")
		}
	}
	return nil
}

// fundReleaseText 生成资金释放提案的标题与描述
func fundReleaseText(campaign *model.CampaignModel, milestone *model.CampaignMilestoneModel) (string, string) {
	amount := milestone.Percentage.Div(hundred).Mul(campaign.TargetAmount)

	title := fmt.Sprintf("Release funds: %s - Milestone %d (%s%%)",
		campaign.PoolId, milestone.Index+1, milestone.Percentage.String())

	description := fmt.Sprintf(
		"This proposal votes on releasing %s%% of the campaign target (~%s SOL) to %s for: %q. "+
			"Campaign progress: %s / %s SOL (%s%%). Approved funds are released on-chain by the authority after the vote.",
		milestone.Percentage.String(),
		amount.StringFixed(2),
		campaign.Recipient,
		milestone.Description,
		campaign.TotalRaised.StringFixed(2),
		campaign.TargetAmount.StringFixed(2),
		campaign.Progress().Round(1).String(),
	)
	return title, description
}

// findYesNo 找到包含 yes 与 no 的选项序号，不存在时为 -1
func findYesNo(options []string) (yes, no int) {
	yes, no = -1, -1
	for i, option := range options {
		if yes < 0 && strings.Contains(strings.ToLower(option), "yes") {
			yes = i
		}
	}
	for i, option := range options {
		if i != yes && no < 0 && strings.Contains(strings.ToLower(option), "no") {
			no = i
		}
	}
	return yes, no
}
