package handler

import (
	"net/http"

	"Khobor_Live/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse 统一的错误响应，code 供前端做多语言提示
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func sendErrorResponse(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: message, Code: code})
}

// sendServiceError 按错误类型映射状态码；存储错误只在日志里记录细节，对外一律 internal server error
func sendServiceError(c *gin.Context, logCtx *logrus.Entry, err error, msg string) {
	e := apperr.As(err)
	if e.Kind == apperr.KindStorage {
		logCtx.WithError(err).Error(msg)
	} else {
		logCtx.WithError(err).WithField("code", e.Code).Info(msg)
	}
	sendErrorResponse(c, e.Kind.Status(), e.Code, e.Message)
}

// MethodNotAllowed 路由存在但方法不对
func MethodNotAllowed(c *gin.Context) {
	sendErrorResponse(c, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}

func NotFound(c *gin.Context) {
	sendErrorResponse(c, http.StatusNotFound, "route_not_found", "route not found")
}
