package repository

import (
	"context"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DonationRepository 捐赠记录数据访问
type DonationRepository struct {
	db *gorm.DB
}

// NewDonationRepository 创建捐赠记录数据访问
func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// WithTx 绑定到事务
func (r *DonationRepository) WithTx(tx *gorm.DB) *DonationRepository {
	return &DonationRepository{db: tx}
}

// Insert 写入捐赠记录，交易签名重复时返回 false
func (r *DonationRepository) Insert(ctx context.Context, record *model.DonationRecordModel) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "signature"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByPool 分页获取捐赠池的捐赠记录
func (r *DonationRepository) ListByPool(ctx context.Context, poolId string, page, pageSize int) ([]model.DonationRecordModel, int64, error) {
	var records []model.DonationRecordModel
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.DonationRecordModel{}).
		Where("pool_id = ?", poolId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
