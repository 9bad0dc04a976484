package repository

import (
	"context"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository 投票数据访问
type VoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository 创建投票数据访问
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// WithTx 绑定到事务
func (r *VoteRepository) WithTx(tx *gorm.DB) *VoteRepository {
	return &VoteRepository{db: tx}
}

// Insert 写入投票，唯一索引冲突时返回 false
func (r *VoteRepository) Insert(ctx context.Context, vote *model.GovernanceVoteModel) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "proposal_id"}, {Name: "voter_address"}},
			DoNothing: true,
		}).
		Create(vote)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Exists 是否已投票
func (r *VoteRepository) Exists(ctx context.Context, proposalId int64, voterAddress string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.GovernanceVoteModel{}).
		Where("proposal_id = ? AND voter_address = ?", proposalId, voterAddress).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByProposal 获取提案的全部投票
func (r *VoteRepository) ListByProposal(ctx context.Context, proposalId int64) ([]model.GovernanceVoteModel, error) {
	var votes []model.GovernanceVoteModel
	if err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalId).
		Order("id ASC").
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}
