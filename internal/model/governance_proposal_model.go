package model

import (
	"time"

	"gorm.io/datatypes"
)

// GovernanceProposalModel 治理提案
type GovernanceProposalModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatorAddress string                      `json:"creator_address" gorm:"type:varchar(64);not null"`
	Title          string                      `json:"title" gorm:"not null"`
	Description    string                      `json:"description" gorm:"type:text;not null"`
	Options        datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	Status         ProposalStatus              `json:"status" gorm:"type:varchar(20);not null;index"`
	TotalVotes     int64                       `json:"total_votes" gorm:"not null"`
	ClosesAt       time.Time                   `json:"closes_at" gorm:"not null;index"`
	ProposalType   ProposalType                `json:"proposal_type" gorm:"type:varchar(20);not null"`

	// 资金释放提案关联的里程碑
	CampaignId     *int64 `json:"campaign_id" gorm:"index:idx_proposal_milestone"`
	MilestoneIndex *int   `json:"milestone_index" gorm:"index:idx_proposal_milestone"`

	// 执行结果，写入后不可变
	ExecutedAt      *time.Time `json:"executed_at,omitempty"`
	Approved        *bool      `json:"approved,omitempty"`
	WinningOption   *int       `json:"winning_option,omitempty"`
	YesWeight       int64      `json:"yes_weight"`
	NoWeight        int64      `json:"no_weight"`
	TotalVoters     int64      `json:"total_voters"`
	MilestoneAction string     `json:"milestone_action,omitempty" gorm:"type:varchar(20)"`
}

// TableName 自定义表名
func (GovernanceProposalModel) TableName() string {
	return "governance_proposal"
}

// IsFundRelease 是否为里程碑资金释放提案
func (p *GovernanceProposalModel) IsFundRelease() bool {
	return p.ProposalType == ProposalTypeFundRelease && p.CampaignId != nil && p.MilestoneIndex != nil
}

// ProposalStatus 提案状态
type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"   // 投票中
	ProposalStatusExecuted ProposalStatus = "executed" // 已执行
)

// CanTransitionTo 提案只能从 active 迁移到 executed 一次
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	return s == ProposalStatusActive && next == ProposalStatusExecuted
}

// ProposalType 提案类型
type ProposalType string

const (
	ProposalTypeGeneral     ProposalType = "general"      // 普通提案
	ProposalTypeFundRelease ProposalType = "fund_release" // 里程碑资金释放
)

// Valid 检查提案类型
func (t ProposalType) Valid() bool {
	return t == ProposalTypeGeneral || t == ProposalTypeFundRelease
}

// MilestoneAction 提案执行对里程碑的影响
const (
	MilestoneActionApproved = "approved"
	MilestoneActionRejected = "rejected"
)
