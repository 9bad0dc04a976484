package repository

import (
	"context"
	"time"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"gorm.io/gorm"
)

// ProposalRepository 治理提案数据访问
type ProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository 创建提案数据访问
func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// WithTx 绑定到事务
func (r *ProposalRepository) WithTx(tx *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: tx}
}

// Create 创建提案
func (r *ProposalRepository) Create(ctx context.Context, proposal *model.GovernanceProposalModel) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetById 按ID查询提案
func (r *ProposalRepository) GetById(ctx context.Context, id int64) (*model.GovernanceProposalModel, error) {
	var proposal model.GovernanceProposalModel
	if err := r.db.WithContext(ctx).First(&proposal, id).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

// List 获取提案列表，新建的在前
func (r *ProposalRepository) List(ctx context.Context, activeOnly bool) ([]model.GovernanceProposalModel, error) {
	var proposals []model.GovernanceProposalModel

	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("status = ?", model.ProposalStatusActive)
	}

	if err := query.Order("created_at DESC").Order("id DESC").Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// ListExpiredActive 获取投票已截止但尚未执行的提案
func (r *ProposalRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]model.GovernanceProposalModel, error) {
	var proposals []model.GovernanceProposalModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND closes_at <= ?", model.ProposalStatusActive, now).
		Order("closes_at ASC").
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// IncrementVotes 投票数加一，仅对投票中的提案生效
func (r *ProposalRepository) IncrementVotes(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GovernanceProposalModel{}).
		Where("id = ? AND status = ?", id, model.ProposalStatusActive).
		Update("total_votes", gorm.Expr("total_votes + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ExecutionOutcome 执行结果
type ExecutionOutcome struct {
	ExecutedAt    time.Time
	Approved      bool
	WinningOption *int
	YesWeight     int64
	NoWeight      int64
	TotalVoters   int64
}

// MarkExecuted active -> executed，只有一个调用方能成功
func (r *ProposalRepository) MarkExecuted(ctx context.Context, id int64, outcome ExecutionOutcome) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GovernanceProposalModel{}).
		Where("id = ? AND status = ?", id, model.ProposalStatusActive).
		Updates(map[string]interface{}{
			"status":         model.ProposalStatusExecuted,
			"executed_at":    outcome.ExecutedAt,
			"approved":       outcome.Approved,
			"winning_option": outcome.WinningOption,
			"yes_weight":     outcome.YesWeight,
			"no_weight":      outcome.NoWeight,
			"total_voters":   outcome.TotalVoters,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetMilestoneAction 记录执行对里程碑的影响
func (r *ProposalRepository) SetMilestoneAction(ctx context.Context, id int64, action string) error {
	return r.db.WithContext(ctx).Model(&model.GovernanceProposalModel{}).
		Where("id = ?", id).
		Update("milestone_action", action).Error
}
