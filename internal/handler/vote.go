package handler

import (
	"net/http"

	"Khobor_Live/internal/dto"
	"Khobor_Live/internal/middleware"
	"Khobor_Live/internal/service"
	"Khobor_Live/pkg/logger"

	"github.com/gin-gonic/gin"
)

type VoteHandler interface {
	CastVote(c *gin.Context)
}

type voteHandler struct {
	VoteService service.VoteService
}

func NewVoteHandler(voteService service.VoteService) VoteHandler {
	return &voteHandler{VoteService: voteService}
}

type VoteRequest struct {
	CommentID uint64 `json:"commentId" binding:"required"`
	VoteType  string `json:"voteType"`
}

func (h *voteHandler) CastVote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("投票参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	caller := middleware.CallerFrom(c)

	logCtx := logger.Log.WithField("comment_id", req.CommentID).WithField("voter", caller.VoterKey())
	result, err := h.VoteService.CastVote(c.Request.Context(), caller, req.CommentID, req.VoteType)
	if err != nil {
		sendServiceError(c, logCtx, err, "投票失败")
		return
	}
	c.JSON(http.StatusOK, dto.VoteResponse{
		Success:   true,
		Action:    result.Action,
		Upvotes:   result.Tally.Upvotes,
		Downvotes: result.Tally.Downvotes,
		Score:     result.Tally.Score(),
	})
}
