package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// HandleError 按错误分类返回对应的 HTTP 状态码
func HandleError(c *gin.Context, err error) {
	switch logic.KindOf(err) {
	case logic.KindValidation:
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case logic.KindNotFound:
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case logic.KindStateConflict:
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		ErrorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}

// parseId 解析路径中的数字ID
func parseId(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
