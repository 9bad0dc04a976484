package repository

import (
	"context"
	"fmt"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignRepository 活动数据访问
type CampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建活动数据访问
func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// WithTx 绑定到事务
func (r *CampaignRepository) WithTx(tx *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: tx}
}

// Create 创建活动
func (r *CampaignRepository) Create(ctx context.Context, campaign *model.CampaignModel) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// GetById 按ID查询活动
func (r *CampaignRepository) GetById(ctx context.Context, id int64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := r.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetByPoolId 按捐赠池查询活动
func (r *CampaignRepository) GetByPoolId(ctx context.Context, poolId string) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := r.db.WithContext(ctx).Where("pool_id = ?", poolId).First(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// List 获取全部活动，新建的在前
func (r *CampaignRepository) List(ctx context.Context) ([]model.CampaignModel, error) {
	var campaigns []model.CampaignModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// AddRaised 累加已募集金额，返回累加前后的金额
func (r *CampaignRepository) AddRaised(ctx context.Context, id int64, amount decimal.Decimal) (prev, next decimal.Decimal, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign model.CampaignModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&campaign, id).Error; err != nil {
			return err
		}

		prev = campaign.TotalRaised
		next = prev.Add(amount)

		if err := tx.Model(&model.CampaignModel{}).
			Where("id = ?", id).
			Update("total_raised", next).Error; err != nil {
			return fmt.Errorf("update total_raised: %w", err)
		}
		return nil
	})
	return prev, next, err
}
