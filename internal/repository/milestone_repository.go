package repository

import (
	"context"
	"time"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"gorm.io/gorm"
)

// MilestoneRepository 里程碑数据访问
//
// 所有状态迁移都是单条带条件的 UPDATE，返回值表示调用方是否赢得迁移。
type MilestoneRepository struct {
	db *gorm.DB
}

// NewMilestoneRepository 创建里程碑数据访问
func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// WithTx 绑定到事务
func (r *MilestoneRepository) WithTx(tx *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: tx}
}

// CreateBatch 批量创建里程碑
func (r *MilestoneRepository) CreateBatch(ctx context.Context, milestones []model.CampaignMilestoneModel) error {
	if len(milestones) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&milestones).Error
}

// ListByCampaign 按序号升序获取活动里程碑
func (r *MilestoneRepository) ListByCampaign(ctx context.Context, campaignId int64) ([]model.CampaignMilestoneModel, error) {
	var milestones []model.CampaignMilestoneModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignId).
		Order("milestone_index ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

// Get 查询单个里程碑
func (r *MilestoneRepository) Get(ctx context.Context, campaignId int64, index int) (*model.CampaignMilestoneModel, error) {
	var milestone model.CampaignMilestoneModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND milestone_index = ?", campaignId, index).
		First(&milestone).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

// Claim pending -> proposing，只有一个调用方能成功
func (r *MilestoneRepository) Claim(ctx context.Context, campaignId int64, index int) (bool, error) {
	return r.transition(ctx, campaignId, index, model.MilestoneStatusPending, nil, map[string]interface{}{
		"status": model.MilestoneStatusProposing,
	})
}

// LinkProposal 记录里程碑对应的提案
func (r *MilestoneRepository) LinkProposal(ctx context.Context, campaignId int64, index int, proposalId int64) (bool, error) {
	return r.transition(ctx, campaignId, index, model.MilestoneStatusProposing, nil, map[string]interface{}{
		"governance_proposal_id": proposalId,
	})
}

// Approve proposing -> approved，要求里程碑仍关联该提案
func (r *MilestoneRepository) Approve(ctx context.Context, campaignId int64, index int, proposalId int64) (bool, error) {
	return r.transition(ctx, campaignId, index, model.MilestoneStatusProposing, &proposalId, map[string]interface{}{
		"status":                 model.MilestoneStatusApproved,
		"governance_proposal_id": proposalId,
	})
}

// Reopen proposing -> pending，提案被否决后可重新提案
func (r *MilestoneRepository) Reopen(ctx context.Context, campaignId int64, index int, proposalId int64) (bool, error) {
	return r.transition(ctx, campaignId, index, model.MilestoneStatusProposing, &proposalId, map[string]interface{}{
		"status":                 model.MilestoneStatusPending,
		"governance_proposal_id": gorm.Expr("NULL"),
	})
}

// MarkReleased approved -> released，由链上转账完成后调用
func (r *MilestoneRepository) MarkReleased(ctx context.Context, campaignId int64, index int, signature string, at time.Time) (bool, error) {
	return r.transition(ctx, campaignId, index, model.MilestoneStatusApproved, nil, map[string]interface{}{
		"status":               model.MilestoneStatusReleased,
		"release_tx_signature": signature,
		"released_at":          at,
	})
}

// transition 条件更新，RowsAffected 为 1 表示迁移成功
func (r *MilestoneRepository) transition(ctx context.Context, campaignId int64, index int, from model.MilestoneStatus, proposalId *int64, updates map[string]interface{}) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.CampaignMilestoneModel{}).
		Where("campaign_id = ? AND milestone_index = ? AND status = ?", campaignId, index, from)
	if proposalId != nil {
		query = query.Where("governance_proposal_id = ?", *proposalId)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
