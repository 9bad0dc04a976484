package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationRecordModel 已确认的捐赠记录
type DonationRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	PoolId       string          `json:"pool_id" gorm:"type:varchar(64);not null;index"`
	Donor        string          `json:"donor" gorm:"type:varchar(64);not null;index"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(30,9);not null"`
	Signature    string          `json:"signature" gorm:"type:varchar(128);not null;uniqueIndex"`
	RewardPoints int64           `json:"reward_points" gorm:"not null"`
}

// TableName 自定义表名
func (DonationRecordModel) TableName() string {
	return "donation_record"
}
