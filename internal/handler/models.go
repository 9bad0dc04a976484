package handler

import (
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// RegisterUserRequest 注册用户请求
type RegisterUserRequest struct {
	Address  string `json:"address" binding:"required"`
	Username string `json:"username"`
}

// CastVoteRequest 投票请求
type CastVoteRequest struct {
	VoterAddress string `json:"voter_address" binding:"required"`
	VoteOption   *int   `json:"vote_option" binding:"required"`
}

// ReleaseMilestoneRequest 登记里程碑链上释放
type ReleaseMilestoneRequest struct {
	TxSignature string `json:"tx_signature" binding:"required"`
}

// DonationListResponse 捐赠记录分页列表
type DonationListResponse struct {
	Donations  []model.DonationRecordModel `json:"donations"`
	Pagination Pagination                  `json:"pagination"`
}
