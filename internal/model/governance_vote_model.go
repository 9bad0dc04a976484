package model

import (
	"time"
)

// GovernanceVoteModel 投票记录，(proposal_id, voter_address) 唯一
type GovernanceVoteModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProposalId   int64  `json:"proposal_id" gorm:"not null;uniqueIndex:idx_proposal_voter"`
	VoterAddress string `json:"voter_address" gorm:"type:varchar(64);not null;uniqueIndex:idx_proposal_voter"`
	VoteOption   int    `json:"vote_option" gorm:"not null"`
	VoteWeight   int64  `json:"vote_weight" gorm:"not null"` // 投票时的积分快照
}

// TableName 自定义表名
func (GovernanceVoteModel) TableName() string {
	return "governance_vote"
}
