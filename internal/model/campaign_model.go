package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignModel 慈善募捐活动
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联的捐赠池
	PoolId    string `json:"pool_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	Recipient string `json:"recipient" gorm:"type:varchar(64);not null"`

	// 募捐信息，单位 SOL
	TargetAmount decimal.Decimal `json:"target_amount" gorm:"type:numeric(30,9);not null"`
	TotalRaised  decimal.Decimal `json:"total_raised" gorm:"type:numeric(30,9);not null"`

	Deadline time.Time `json:"deadline" gorm:"not null"`
	IsActive bool      `json:"is_active" gorm:"not null"`

	// 关联
	Milestones []CampaignMilestoneModel `json:"milestones,omitempty" gorm:"foreignKey:CampaignId"`
}

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}

// Progress 已募集金额占目标的百分比
func (c *CampaignModel) Progress() decimal.Decimal {
	if !c.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return c.TotalRaised.Div(c.TargetAmount).Mul(decimal.NewFromInt(100))
}
