package repository

import (
	"context"

	"Khobor_Live/internal/model"
	"Khobor_Live/internal/sorting"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	// 带行锁的查找，投票时用来串行化同一条评论上的并发写
	FindByIDForUpdate(ctx context.Context, commentID uint64) (*model.Comment, error)

	// 一级评论总数
	CountTopLevel(ctx context.Context, articleID uint64) (int64, error)
	// 按排序方式分页获取一级评论
	FetchPage(ctx context.Context, articleID uint64, mode sorting.Mode, offset, limit int) ([]model.Comment, error)
	// 单条一级评论的回复，按时间正序
	FetchReplies(ctx context.Context, parentID uint64) ([]model.Comment, error)
	// 一次性取一批一级评论的回复
	FetchRepliesFor(ctx context.Context, parentIDs []uint64) ([]model.Comment, error)
	ReplyIDs(ctx context.Context, parentID uint64) ([]uint64, error)

	SetPin(ctx context.Context, commentID uint64, pinned bool, order int) error
	Delete(ctx context.Context, commentIDs ...uint64) error

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// WithTx 返回绑定到事务 tx 的副本
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// 顺便 Preload 出作者，渲染显示名和管理员标记要用
func (r *commentRepository) FindByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var result model.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&result, commentID).Error; err != nil {
		return nil, err // 包括 gorm.ErrRecordNotFound
	}
	return &result, nil
}

func (r *commentRepository) FindByIDForUpdate(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var result model.Comment
	// SELECT * FROM comments WHERE id = ? LIMIT 1 FOR UPDATE，锁跟着事务走
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&result, commentID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *commentRepository) CountTopLevel(ctx context.Context, articleID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) FetchPage(ctx context.Context, articleID uint64, mode sorting.Mode, offset, limit int) ([]model.Comment, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("comments.article_id = ? AND comments.parent_id IS NULL", articleID)
	for _, order := range mode.OrderBy() {
		q = q.Order(order)
	}

	var comments []model.Comment
	err := q.Offset(offset).Limit(limit).Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FetchReplies(ctx context.Context, parentID uint64) ([]model.Comment, error) {
	return r.FetchRepliesFor(ctx, []uint64{parentID})
}

func (r *commentRepository) FetchRepliesFor(ctx context.Context, parentIDs []uint64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []model.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").Order("id ASC"). // 回复固定按时间正序，不受一级排序影响
		Find(&replies).Error
	return replies, err
}

func (r *commentRepository) ReplyIDs(ctx context.Context, parentID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("parent_id = ?", parentID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) SetPin(ctx context.Context, commentID uint64, pinned bool, order int) error {
	if !pinned {
		order = 0
	}
	// map 形式才能把 false / 0 写进去
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{"is_pinned": pinned, "pin_order": order}).Error
}

func (r *commentRepository) Delete(ctx context.Context, commentIDs ...uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", commentIDs).Delete(&model.Comment{}).Error
}
