package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/shariqazeem/umanity-social-sub000/internal/chain"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"gorm.io/gorm"
)

// UserLogic 用户与积分业务逻辑
type UserLogic struct {
	users *repository.UserRepository
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{users: repository.NewUserRepository(db)}
}

// RegisterUser 注册用户，地址已存在时返回已有用户
func (u *UserLogic) RegisterUser(ctx context.Context, address, username string) (*model.UserModel, error) {
	if err := chain.ValidateAddress(address); err != nil {
		return nil, invalid(err.Error())
	}

	user := &model.UserModel{Address: address, Username: username}
	if _, err := u.users.CreateIfAbsent(ctx, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return u.GetUser(ctx, address)
}

// GetUser 按地址获取用户
func (u *UserLogic) GetUser(ctx context.Context, address string) (*model.UserModel, error) {
	user, err := u.users.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// AddRewardPoints 增加用户积分
func (u *UserLogic) AddRewardPoints(ctx context.Context, address string, points int64) error {
	if points < 0 {
		return invalid("points must not be negative")
	}
	ok, err := u.users.AddPoints(ctx, address, points)
	if err != nil {
		return fmt.Errorf("add reward points: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// SetRewardPoints 设置用户积分
func (u *UserLogic) SetRewardPoints(ctx context.Context, address string, points int64) error {
	if points < 0 {
		return invalid("points must not be negative")
	}
	ok, err := u.users.SetPoints(ctx, address, points)
	if err != nil {
		return fmt.Errorf("set reward points: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
