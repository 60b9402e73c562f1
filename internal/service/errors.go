package service

import "Khobor_Live/internal/apperr"

const (
	MinCommentLength = 3
	MinReplyLength   = 1
	MaxCommentLength = 5000
	maxNameLength    = 64
)

var (
	ErrCommentEmpty     = apperr.New(apperr.KindValidation, "comment_empty", "comment text is required")
	ErrCommentTooShort  = apperr.New(apperr.KindValidation, "comment_too_short", "comment must be at least 3 characters")
	ErrCommentTooLong   = apperr.New(apperr.KindValidation, "comment_too_long", "comment must be at most 5000 characters")
	ErrInvalidArticleID = apperr.New(apperr.KindValidation, "invalid_article_id", "articleId is required")
	ErrArticleNotFound  = apperr.New(apperr.KindValidation, "article_not_found", "article does not exist")

	ErrParentNotFound  = apperr.New(apperr.KindNotFound, "parent_not_found", "parent comment does not exist")
	ErrReplyDepth      = apperr.New(apperr.KindValidation, "reply_depth_exceeded", "replies can only be posted to top-level comments")
	ErrCommentNotFound = apperr.New(apperr.KindNotFound, "comment_not_found", "comment does not exist")
	ErrReplyNotPinned  = apperr.New(apperr.KindValidation, "reply_not_pinnable", "only top-level comments can be pinned")

	ErrInvalidVoteType = apperr.New(apperr.KindValidation, "invalid_vote_type", "voteType must be upvote or downvote")
	ErrAdminRequired   = apperr.New(apperr.KindAuthorization, "admin_required", "admin access required")
)
