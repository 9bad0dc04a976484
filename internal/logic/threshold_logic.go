package logic

import (
	"context"
	"errors"

	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ThresholdLogic 捐赠确认后累计募资并检测里程碑达成
type ThresholdLogic struct {
	campaigns  *repository.CampaignRepository
	milestones *repository.MilestoneRepository
	proposals  *ProposalLogic
}

// NewThresholdLogic 创建里程碑检测业务逻辑
func NewThresholdLogic(db *gorm.DB, proposals *ProposalLogic) *ThresholdLogic {
	return &ThresholdLogic{
		campaigns:  repository.NewCampaignRepository(db),
		milestones: repository.NewMilestoneRepository(db),
		proposals:  proposals,
	}
}

// RaisedChange 一笔捐赠前后的募资总额
type RaisedChange struct {
	Campaign *model.CampaignModel
	Prev     decimal.Decimal
	Next     decimal.Decimal
}

// Process 累加募资总额并为本次跨越的每个 pending 里程碑创建资金释放提案
//
// 累加后的总额即为准，后续任何失败只记录日志，不影响捐赠本身。
func (t *ThresholdLogic) Process(ctx context.Context, poolId, donor string, amount decimal.Decimal) []*model.GovernanceProposalModel {
	if !amount.IsPositive() {
		logger.Warn("Ignoring non-positive donation %s for pool %s", amount.String(), poolId)
		return nil
	}

	campaign, err := t.campaigns.GetByPoolId(ctx, poolId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("No campaign for pool %s, skipping milestone check", poolId)
		} else {
			logger.Error("Failed to load campaign for pool %s: %v", poolId, err)
		}
		return nil
	}

	prev, next, err := t.campaigns.AddRaised(ctx, campaign.Id, amount)
	if err != nil {
		logger.Error("Failed to update raised total for campaign %d: %v", campaign.Id, err)
		return nil
	}
	campaign.TotalRaised = next

	return t.CheckMilestones(ctx, &RaisedChange{Campaign: campaign, Prev: prev, Next: next}, donor)
}

// CheckMilestones 为募资总额从 Prev 增加到 Next 时跨越的 pending 里程碑创建提案
func (t *ThresholdLogic) CheckMilestones(ctx context.Context, change *RaisedChange, donor string) []*model.GovernanceProposalModel {
	campaign := change.Campaign
	milestones, err := t.milestones.ListByCampaign(ctx, campaign.Id)
	if err != nil {
		logger.Error("Failed to load milestones for campaign %d: %v", campaign.Id, err)
		return nil
	}

	var created []*model.GovernanceProposalModel
	for _, m := range CrossedMilestones(campaign.TargetAmount, milestones, change.Prev, change.Next) {
		milestone := m
		proposal, err := t.proposals.CreateMilestoneProposal(ctx, campaign, &milestone, donor)
		if err != nil {
			if errors.Is(err, ErrMilestoneNotPending) {
				logger.Info("Campaign %d milestone %d already claimed, skipping", campaign.Id, milestone.Index)
			} else {
				logger.Error("Failed to create proposal for campaign %d milestone %d: %v", campaign.Id, milestone.Index, err)
			}
			continue
		}
		created = append(created, proposal)
	}

	logger.Info("Campaign %d raised %s -> %s, %d milestone proposal(s) created",
		campaign.Id, change.Prev.String(), change.Next.String(), len(created))
	return created
}

// CrossedMilestones 返回本次从 prev 增加到 next 时刚好跨越的 pending 里程碑
//
// 里程碑按序号累加百分比，阈值为 累计百分比/100*目标金额，
// 满足 prev < 阈值 <= next 视为跨越。
func CrossedMilestones(target decimal.Decimal, milestones []model.CampaignMilestoneModel, prev, next decimal.Decimal) []model.CampaignMilestoneModel {
	var crossed []model.CampaignMilestoneModel
	cumulative := decimal.Zero
	for _, m := range milestones {
		cumulative = cumulative.Add(m.Percentage)
		threshold := cumulative.Div(hundred).Mul(target)
		if prev.LessThan(threshold) && threshold.LessThanOrEqual(next) && m.Status == model.MilestoneStatusPending {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
