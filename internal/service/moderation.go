package service

import (
	"context"

	"Khobor_Live/internal/apperr"
	"Khobor_Live/internal/data"
	"Khobor_Live/internal/model"
	"Khobor_Live/internal/repository"
	"Khobor_Live/pkg/logger"
)

type ModerationService interface {
	// 删除一级评论时连同回复和所有相关投票一起删
	DeleteComment(ctx context.Context, caller model.Caller, commentID uint64) error
	PinComment(ctx context.Context, caller model.Caller, commentID uint64, pinned bool, order int) error
}

type moderationService struct {
	commentRepo repository.CommentRepository
	uow         data.UnitOfWork
	events      EventPublisher
}

func NewModerationService(commentRepo repository.CommentRepository, uow data.UnitOfWork, events EventPublisher) ModerationService {
	return &moderationService{commentRepo: commentRepo, uow: uow, events: events}
}

func (s *moderationService) DeleteComment(ctx context.Context, caller model.Caller, commentID uint64) error {
	if !caller.IsAdmin() {
		return ErrAdminRequired
	}

	var (
		articleID uint64
		deleted   []uint64
	)
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		comment, err := repos.CommentRepo.FindByIDForUpdate(ctx, commentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrCommentNotFound
			}
			return err
		}
		articleID = comment.ArticleID

		deleted = []uint64{comment.ID}
		if comment.IsTopLevel() {
			replyIDs, err := repos.CommentRepo.ReplyIDs(ctx, comment.ID)
			if err != nil {
				return err
			}
			deleted = append(deleted, replyIDs...)
		}
		// 先删票再删评论
		if err := repos.VoteRepo.DeleteByComments(ctx, deleted...); err != nil {
			return err
		}
		return repos.CommentRepo.Delete(ctx, deleted...)
	})
	if err != nil {
		return apperr.As(err)
	}

	logger.Log.WithField("admin_id", caller.UserID).
		WithField("comment_id", commentID).
		WithField("deleted", len(deleted)).
		Info("评论已删除")
	publishEvent(ctx, s.events, CommentEvent{Type: EventCommentDeleted, ArticleID: articleID, CommentID: commentID})
	return nil
}

func (s *moderationService) PinComment(ctx context.Context, caller model.Caller, commentID uint64, pinned bool, order int) error {
	if !caller.IsAdmin() {
		return ErrAdminRequired
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrCommentNotFound
		}
		return apperr.Storage(err)
	}
	if !comment.IsTopLevel() {
		return ErrReplyNotPinned
	}
	if err := s.commentRepo.SetPin(ctx, commentID, pinned, order); err != nil {
		return apperr.Storage(err)
	}

	logger.Log.WithField("admin_id", caller.UserID).
		WithField("comment_id", commentID).
		WithField("pinned", pinned).
		Info("评论置顶状态已更新")
	publishEvent(ctx, s.events, CommentEvent{Type: EventCommentPinned, ArticleID: comment.ArticleID, CommentID: commentID})
	return nil
}
