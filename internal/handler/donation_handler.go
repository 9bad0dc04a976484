package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shariqazeem/umanity-social-sub000/internal/event"
)

type DonationHandler struct {
	processor *event.DonationProcessor
}

func NewDonationHandler(processor *event.DonationProcessor) *DonationHandler {
	return &DonationHandler{processor: processor}
}

// ConfirmDonation 上游确认捐赠后调用，里程碑检测异步进行
func (h *DonationHandler) ConfirmDonation(c *gin.Context) {
	var req event.DonationEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.processor.Process(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	if result.Duplicate {
		SuccessResponse(c, http.StatusOK, "donation already recorded", result)
		return
	}
	SuccessResponse(c, http.StatusAccepted, "donation recorded", result)
}
