package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
)

type UserHandler struct {
	userLogic *logic.UserLogic
}

func NewUserHandler(userLogic *logic.UserLogic) *UserHandler {
	return &UserHandler{userLogic: userLogic}
}

// RegisterUser 注册用户
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userLogic.RegisterUser(c.Request.Context(), req.Address, req.Username)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "user registered", user)
}

// GetUser 按地址获取用户
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userLogic.GetUser(c.Request.Context(), c.Param("address"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", user)
}
