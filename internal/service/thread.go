package service

import (
	"context"
	"time"

	"Khobor_Live/internal/dto"
	"Khobor_Live/internal/model"
	"Khobor_Live/internal/repository"
)

// ThreadAssembler 把一页一级评论和它们的回复拼成两层结构
type ThreadAssembler struct {
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	now         func() time.Time
}

func NewThreadAssembler(commentRepo repository.CommentRepository, voteRepo repository.VoteRepository, now func() time.Time) *ThreadAssembler {
	if now == nil {
		now = time.Now
	}
	return &ThreadAssembler{commentRepo: commentRepo, voteRepo: voteRepo, now: now}
}

// Assemble 回复一次查完，所有评论和回复的票数也一次统计完
func (a *ThreadAssembler) Assemble(ctx context.Context, top []model.Comment, lang dto.Lang) ([]dto.CommentNode, error) {
	nodes := make([]dto.CommentNode, 0, len(top))
	if len(top) == 0 {
		return nodes, nil
	}

	parentIDs := make([]uint64, 0, len(top))
	for _, c := range top {
		parentIDs = append(parentIDs, c.ID)
	}
	replies, err := a.commentRepo.FetchRepliesFor(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	allIDs := append([]uint64{}, parentIDs...)
	replyMap := make(map[uint64][]*model.Comment, len(top))
	for i := range replies {
		r := &replies[i]
		allIDs = append(allIDs, r.ID)
		if r.ParentID != nil {
			replyMap[*r.ParentID] = append(replyMap[*r.ParentID], r)
		}
	}
	tallies, err := a.voteRepo.TallyMany(ctx, allIDs)
	if err != nil {
		return nil, err
	}

	now := a.now()
	for i := range top {
		c := &top[i]
		node := dto.ToCommentNode(c, tallies[c.ID], dto.RelativeTime(c.CreatedAt, now, lang))
		for _, r := range replyMap[c.ID] {
			node.Replies = append(node.Replies, a.reply(r, tallies[r.ID], now, lang))
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Reply 新建回复后的预览，票数为零
func (a *ThreadAssembler) Reply(r *model.Comment, lang dto.Lang) dto.ReplyNode {
	return a.reply(r, model.Tally{}, a.now(), lang)
}

func (a *ThreadAssembler) reply(r *model.Comment, tally model.Tally, now time.Time, lang dto.Lang) dto.ReplyNode {
	return dto.ToReplyNode(r, tally, dto.RelativeTime(r.CreatedAt, now, lang))
}
