package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignMilestoneModel 活动资金释放里程碑
type CampaignMilestoneModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId  int64           `json:"campaign_id" gorm:"not null;uniqueIndex:idx_campaign_milestone"`
	Index       int             `json:"index" gorm:"column:milestone_index;not null;uniqueIndex:idx_campaign_milestone"`
	Description string          `json:"description" gorm:"type:text"`
	Percentage  decimal.Decimal `json:"percentage" gorm:"type:numeric(6,2);not null"` // 占目标金额的百分比 0-100
	Status      MilestoneStatus `json:"status" gorm:"type:varchar(20);not null;index"`

	GovernanceProposalId *int64     `json:"governance_proposal_id"`
	ReleaseTxSignature   string     `json:"release_tx_signature,omitempty" gorm:"type:varchar(128)"`
	ReleasedAt           *time.Time `json:"released_at,omitempty"`
}

// TableName 自定义表名
func (CampaignMilestoneModel) TableName() string {
	return "campaign_milestone"
}

// MilestoneStatus 里程碑状态
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"   // 待达成或待重新提案
	MilestoneStatusProposing MilestoneStatus = "proposing" // 已创建释放提案，投票中
	MilestoneStatusApproved  MilestoneStatus = "approved"  // 投票通过，等待链上释放
	MilestoneStatusReleased  MilestoneStatus = "released"  // 资金已在链上释放
	MilestoneStatusRejected  MilestoneStatus = "rejected"  // 已否决
)

var milestoneTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestoneStatusPending:   {MilestoneStatusProposing},
	MilestoneStatusProposing: {MilestoneStatusPending, MilestoneStatusApproved, MilestoneStatusRejected},
	MilestoneStatusApproved:  {MilestoneStatusReleased},
}

// CanTransitionTo 判断状态迁移是否合法
func (s MilestoneStatus) CanTransitionTo(next MilestoneStatus) bool {
	for _, allowed := range milestoneTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal 终态不再参与阈值检测
func (s MilestoneStatus) IsTerminal() bool {
	return len(milestoneTransitions[s]) == 0
}
