package repository

import (
	"context"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 用户及积分数据访问
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户数据访问
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateIfAbsent 地址不存在时创建用户
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *model.UserModel) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoNothing: true,
		}).
		Create(user)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetByAddress 按地址查询用户
func (r *UserRepository) GetByAddress(ctx context.Context, address string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.WithContext(ctx).Where("address = ?", address).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AddPoints 原子增加积分
func (r *UserRepository) AddPoints(ctx context.Context, address string, points int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("address = ?", address).
		Update("reward_points", gorm.Expr("reward_points + ?", points))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetPoints 直接设置积分
func (r *UserRepository) SetPoints(ctx context.Context, address string, points int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("address = ?", address).
		Update("reward_points", points)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
