package service

import (
	"context"

	"Khobor_Live/internal/apperr"
	"Khobor_Live/internal/data"
	"Khobor_Live/internal/model"
	"Khobor_Live/internal/repository"
	"Khobor_Live/pkg/logger"
)

const (
	ActionAdded   = "added"
	ActionChanged = "changed"
	ActionRemoved = "removed"
)

type VoteResult struct {
	Action string
	Tally  model.Tally
}

type VoteService interface {
	// 同类型再投一次等于撤销，不同类型则改票
	CastVote(ctx context.Context, caller model.Caller, commentID uint64, voteType string) (*VoteResult, error)
}

type voteService struct {
	uow    data.UnitOfWork
	events EventPublisher
}

func NewVoteService(uow data.UnitOfWork, events EventPublisher) VoteService {
	return &voteService{uow: uow, events: events}
}

// CastVote 整个过程在一个事务里：锁住评论行，看已有的票，写入，再重新计数
func (s *voteService) CastVote(ctx context.Context, caller model.Caller, commentID uint64, voteType string) (*VoteResult, error) {
	vt, ok := model.ParseVoteType(voteType)
	if !ok {
		return nil, ErrInvalidVoteType
	}
	voterKey := caller.VoterKey()

	var (
		result    VoteResult
		articleID uint64
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

		existing, err := repos.VoteRepo.FindByVoter(ctx, commentID, voterKey)
		if err != nil {
			return err
		}
		switch {
		case existing == nil:
			result.Action = ActionAdded
		case existing.VoteType == vt:
			result.Action = ActionRemoved
		default:
			result.Action = ActionChanged
		}

		if result.Action == ActionRemoved {
			err = repos.VoteRepo.DeleteByVoter(ctx, commentID, voterKey)
		} else {
			err = repos.VoteRepo.Upsert(ctx, &model.Vote{
				CommentID: commentID,
				VoterKey:  voterKey,
				UserID:    caller.UserIDPtr(),
				VoteType:  vt,
			})
		}
		if err != nil {
			return err
		}

		result.Tally, err = repos.VoteRepo.Tally(ctx, commentID)
		return err
	})
	if err != nil {
		return nil, apperr.As(err)
	}

	logger.Log.WithField("comment_id", commentID).
		WithField("voter", voterKey).
		WithField("action", result.Action).
		WithField("tally", result.Tally.String()).
		Info("投票完成")
	publishEvent(ctx, s.events, CommentEvent{Type: EventVoteCast, ArticleID: articleID, CommentID: commentID})
	return &result, nil
}
