package model

import (
	"time"
)

// UserModel 平台用户
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Address      string `json:"address" gorm:"type:varchar(64);not null;uniqueIndex"`
	Username     string `json:"username" gorm:"type:varchar(64)"`
	RewardPoints int64  `json:"reward_points" gorm:"not null"`
}

// TableName 自定义表名
func (UserModel) TableName() string {
	return "user_account"
}
