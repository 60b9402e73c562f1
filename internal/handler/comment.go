package handler

import (
	"net/http"
	"strconv"

	"Khobor_Live/internal/middleware"
	"Khobor_Live/internal/service"
	"Khobor_Live/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	GetComments(c *gin.Context)
	CreateComment(c *gin.Context)
	CreateReply(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	ArticleID uint64 `json:"articleId"`
	Text      string `json:"text"`
	Name      string `json:"name"`
}

type CreateReplyRequest struct {
	ParentCommentID uint64 `json:"parentCommentId"`
	Text            string `json:"text"`
	Name            string `json:"name"`
}

// 评论列表：articleId 必填，page 默认 1，其余参数由 service 兜底
func (h *commentHandler) GetComments(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Query("articleId"), 10, 64)
	if err != nil || articleID == 0 {
		sendServiceError(c, logger.Log.WithField("article_id", c.Query("articleId")), service.ErrInvalidArticleID, "评论列表参数错误")
		return
	}
	logCtx := logger.Log.WithField("article_id", articleID)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 0 // 交给分页校验报 invalid_page
	}
	// perPage 解析失败按默认值
	perPage, _ := strconv.Atoi(c.Query("perPage"))

	result, err := h.CommentService.GetComments(c.Request.Context(), service.ListQuery{
		ArticleID: articleID,
		Page:      page,
		PerPage:   perPage,
		Sort:      c.Query("sort"),
		Lang:      c.Query("lang"),
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "获取评论列表失败")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *commentHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("评论参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	caller := middleware.CallerFrom(c)

	logCtx := logger.Log.WithField("article_id", req.ArticleID).WithField("voter", caller.VoterKey())
	logCtx.Info("开始创建一级评论")
	comment, err := h.CommentService.CreateComment(c.Request.Context(), caller, service.CreateCommentInput{
		ArticleID: req.ArticleID,
		Text:      req.Text,
		Name:      req.Name,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "创建一级评论失败")
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("一级评论创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      comment.ID,
	})
}

// 回复：父评论必须存在且是一级评论，返回新回复的预览
func (h *commentHandler) CreateReply(c *gin.Context) {
	var req CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("回复参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	caller := middleware.CallerFrom(c)

	logCtx := logger.Log.WithField("parent_id", req.ParentCommentID).WithField("voter", caller.VoterKey())
	logCtx.Info("开始创建二级评论")
	reply, err := h.CommentService.CreateReply(c.Request.Context(), caller, service.CreateReplyInput{
		ParentID: req.ParentCommentID,
		Text:     req.Text,
		Name:     req.Name,
		Lang:     c.Query("lang"),
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "创建二级评论失败")
		return
	}
	logCtx.WithField("reply_id", reply.ID).Info("二级评论创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      reply.ID,
		"reply":   reply,
	})
}
