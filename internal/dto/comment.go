package dto

import (
	"html"
	"strings"

	"Khobor_Live/internal/model"
	"Khobor_Live/internal/pagination"
)

const anonymousName = "Anonymous"

// ReplyNode 二级评论，回复不再嵌套
type ReplyNode struct {
	ID        uint64 `json:"id"`
	User      string `json:"user"`
	Text      string `json:"text"`
	Time      string `json:"time"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	IsAdmin   bool   `json:"isAdmin"`
}

// CommentNode 一级评论，Replies 为空时输出 []
type CommentNode struct {
	ID        uint64      `json:"id"`
	User      string      `json:"user"`
	Text      string      `json:"text"`
	Time      string      `json:"time"`
	Upvotes   int64       `json:"upvotes"`
	Downvotes int64       `json:"downvotes"`
	IsPinned  bool        `json:"isPinned"`
	UserID    *uint64     `json:"userId"`
	Replies   []ReplyNode `json:"replies"`
}

type PaginationResponse struct {
	Page        int   `json:"page"`
	PerPage     int   `json:"perPage"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// CommentPage 读接口的完整响应体，整体写进 ResponseCache
type CommentPage struct {
	Success    bool               `json:"success"`
	Comments   []CommentNode      `json:"comments"`
	Pagination PaginationResponse `json:"pagination"`
}

type VoteResponse struct {
	Success   bool   `json:"success"`
	Action    string `json:"action"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	Score     int64  `json:"score"`
}

func ToPaginationResponse(s pagination.State) PaginationResponse {
	return PaginationResponse{
		Page:        s.Page,
		PerPage:     s.PerPage,
		TotalCount:  s.TotalCount,
		TotalPages:  s.TotalPages,
		HasNextPage: s.HasNext,
		HasPrevPage: s.HasPrev,
	}
}

// DisplayName 关联账号有邮箱时取邮箱 @ 前面的部分，否则用存下来的 user_name，结果已做 HTML 转义
func DisplayName(c *model.Comment) string {
	name := strings.TrimSpace(c.UserName)
	if c.User != nil && c.User.Email != "" {
		name, _, _ = strings.Cut(c.User.Email, "@")
	}
	if name == "" {
		name = anonymousName
	}
	return html.EscapeString(name)
}

// RenderText 库里存原文，输出时才转义
func RenderText(text string) string {
	return html.EscapeString(text)
}

func ToReplyNode(r *model.Comment, tally model.Tally, label string) ReplyNode {
	return ReplyNode{
		ID:        r.ID,
		User:      DisplayName(r),
		Text:      RenderText(r.Text),
		Time:      label,
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
		IsAdmin:   r.User.IsAdmin(),
	}
}

func ToCommentNode(c *model.Comment, tally model.Tally, label string) CommentNode {
	return CommentNode{
		ID:        c.ID,
		User:      DisplayName(c),
		Text:      RenderText(c.Text),
		Time:      label,
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
		IsPinned:  c.IsPinned,
		UserID:    c.UserID,
		Replies:   []ReplyNode{},
	}
}
