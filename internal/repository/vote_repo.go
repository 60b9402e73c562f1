package repository

import (
	"context"
	"errors"

	"Khobor_Live/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	// 没有投过票时返回 nil, nil
	FindByVoter(ctx context.Context, commentID uint64, voterKey string) (*model.Vote, error)
	// Upsert 依赖 (comment_id, voter_key) 唯一索引，并发插入也只会留下一行
	Upsert(ctx context.Context, vote *model.Vote) error
	DeleteByVoter(ctx context.Context, commentID uint64, voterKey string) error
	DeleteByComments(ctx context.Context, commentIDs ...uint64) error

	Tally(ctx context.Context, commentID uint64) (model.Tally, error)
	// 批量统计，没有票的评论也会出现在结果里，值为 {0, 0}
	TallyMany(ctx context.Context, commentIDs []uint64) (map[uint64]model.Tally, error)

	WithTx(tx *gorm.DB) VoteRepository
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) WithTx(tx *gorm.DB) VoteRepository {
	return &voteRepository{db: tx}
}

func (r *voteRepository) FindByVoter(ctx context.Context, commentID uint64, voterKey string) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND voter_key = ?", commentID, voterKey).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// MySQL 下是 INSERT ... ON DUPLICATE KEY UPDATE，sqlite 下是 ON CONFLICT DO UPDATE
func (r *voteRepository) Upsert(ctx context.Context, vote *model.Vote) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "voter_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote_type", "user_id", "updated_at"}),
	}).Create(vote).Error
}

func (r *voteRepository) DeleteByVoter(ctx context.Context, commentID uint64, voterKey string) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ? AND voter_key = ?", commentID, voterKey).
		Delete(&model.Vote{}).Error
}

func (r *voteRepository) DeleteByComments(ctx context.Context, commentIDs ...uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("comment_id IN ?", commentIDs).Delete(&model.Vote{}).Error
}

func (r *voteRepository) Tally(ctx context.Context, commentID uint64) (model.Tally, error) {
	tallies, err := r.TallyMany(ctx, []uint64{commentID})
	if err != nil {
		return model.Tally{}, err
	}
	return tallies[commentID], nil
}

type tallyRow struct {
	CommentID uint64
	Upvotes   int64
	Downvotes int64
}

func (r *voteRepository) TallyMany(ctx context.Context, commentIDs []uint64) (map[uint64]model.Tally, error) {
	result := make(map[uint64]model.Tally, len(commentIDs))
	for _, id := range commentIDs {
		result[id] = model.Tally{}
	}
	if len(commentIDs) == 0 {
		return result, nil
	}

	var rows []tallyRow
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Select("comment_id, "+
			"SUM(CASE WHEN vote_type = ? THEN 1 ELSE 0 END) AS upvotes, "+
			"SUM(CASE WHEN vote_type = ? THEN 1 ELSE 0 END) AS downvotes", model.Upvote, model.Downvote).
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CommentID] = model.Tally{Upvotes: row.Upvotes, Downvotes: row.Downvotes}
	}
	return result, nil
}
