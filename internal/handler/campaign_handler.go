package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
)

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

func NewCampaignHandler(campaignLogic *logic.CampaignLogic) *CampaignHandler {
	return &CampaignHandler{campaignLogic: campaignLogic}
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req logic.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.campaignLogic.CreateCampaign(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "campaign created", campaign)
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	campaigns, err := h.campaignLogic.ListCampaigns(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", campaigns)
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", campaign)
}

// GetMilestones 获取活动里程碑
func (h *CampaignHandler) GetMilestones(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}

	milestones, err := h.campaignLogic.GetMilestones(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", milestones)
}

// GetDonations 分页获取活动捐赠记录
func (h *CampaignHandler) GetDonations(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	donations, total, err := h.campaignLogic.ListDonations(c.Request.Context(), id, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", DonationListResponse{
		Donations:  donations,
		Pagination: newPagination(page, pageSize, total),
	})
}

// ReleaseMilestone 登记里程碑资金已在链上释放
func (h *CampaignHandler) ReleaseMilestone(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		ErrorResponse(c, http.StatusBadRequest, "invalid milestone index")
		return
	}

	var req ReleaseMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	milestone, err := h.campaignLogic.MarkMilestoneReleased(c.Request.Context(), id, index, req.TxSignature)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "milestone released", milestone)
}
