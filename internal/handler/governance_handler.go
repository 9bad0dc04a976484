package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
)

// GovernanceHandler 治理提案、投票与执行
type GovernanceHandler struct {
	proposalLogic  *logic.ProposalLogic
	voteLogic      *logic.VoteLogic
	tallyLogic     *logic.TallyLogic
	executionLogic *logic.ExecutionLogic
}

func NewGovernanceHandler(
	proposalLogic *logic.ProposalLogic,
	voteLogic *logic.VoteLogic,
	tallyLogic *logic.TallyLogic,
	executionLogic *logic.ExecutionLogic,
) *GovernanceHandler {
	return &GovernanceHandler{
		proposalLogic:  proposalLogic,
		voteLogic:      voteLogic,
		tallyLogic:     tallyLogic,
		executionLogic: executionLogic,
	}
}

// CreateProposal 创建提案
func (h *GovernanceHandler) CreateProposal(c *gin.Context) {
	var req logic.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	proposal, err := h.proposalLogic.CreateProposal(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "proposal created", proposal)
}

// GetProposals 获取提案列表，active=true 只返回投票中的提案，with_results=true 附带计票
func (h *GovernanceHandler) GetProposals(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	if c.Query("with_results") == "true" {
		proposals, err := h.proposalLogic.ListProposalsWithResults(c.Request.Context(), activeOnly)
		if err != nil {
			HandleError(c, err)
			return
		}
		SuccessResponse(c, http.StatusOK, "ok", proposals)
		return
	}

	proposals, err := h.proposalLogic.ListProposals(c.Request.Context(), activeOnly)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", proposals)
}

// GetProposal 获取提案详情
func (h *GovernanceHandler) GetProposal(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalLogic.GetProposal(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", proposal)
}

// GetResults 获取实时计票结果
func (h *GovernanceHandler) GetResults(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}

	results, err := h.tallyLogic.GetResults(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", results)
}

// GetVotes 获取投票记录
func (h *GovernanceHandler) GetVotes(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}

	votes, err := h.proposalLogic.ListVotes(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", votes)
}

// CastVote 投票
func (h *GovernanceHandler) CastVote(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.voteLogic.CastVote(c.Request.Context(), id, req.VoterAddress, *req.VoteOption)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "vote recorded", result)
}

// ExecuteProposal 执行投票已截止的提案
func (h *GovernanceHandler) ExecuteProposal(c *gin.Context) {
	id, ok := parseId(c, "id")
	if !ok {
		return
	}

	result, err := h.executionLogic.Execute(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "proposal executed", result)
}
