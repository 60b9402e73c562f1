package handler

import (
	"net/http"
	"strconv"

	"Khobor_Live/internal/middleware"
	"Khobor_Live/internal/service"
	"Khobor_Live/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ModerationHandler interface {
	DeleteComment(c *gin.Context)
	PinComment(c *gin.Context)
}

type moderationHandler struct {
	ModerationService service.ModerationService
}

func NewModerationHandler(moderationService service.ModerationService) ModerationHandler {
	return &moderationHandler{ModerationService: moderationService}
}

type PinRequest struct {
	Pinned   bool `json:"pinned"`
	PinOrder int  `json:"pinOrder"`
}

func parseCommentID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(c, http.StatusBadRequest, "invalid_comment_id", "invalid comment id")
		return 0, false
	}
	return id, true
}

func (h *moderationHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseCommentID(c)
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)

	logCtx := logger.Log.WithField("admin_id", caller.UserID).WithField("comment_id", commentID)
	if err := h.ModerationService.DeleteComment(c.Request.Context(), caller, commentID); err != nil {
		sendServiceError(c, logCtx, err, "删除评论失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *moderationHandler) PinComment(c *gin.Context) {
	commentID, ok := parseCommentID(c)
	if !ok {
		return
	}
	var req PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("置顶参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	caller := middleware.CallerFrom(c)

	logCtx := logger.Log.WithField("admin_id", caller.UserID).WithField("comment_id", commentID)
	if err := h.ModerationService.PinComment(c.Request.Context(), caller, commentID, req.Pinned, req.PinOrder); err != nil {
		sendServiceError(c, logCtx, err, "更新置顶失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
