package data

import (
	"context"

	"Khobor_Live/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork 把一组仓储操作包进同一个数据库事务
type UnitOfWork interface {
	// Execute 中 fn 返回错误则整体回滚
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 绑定到同一个事务的 Repository
type TransactionalRepositories struct {
	CommentRepo repository.CommentRepository
	VoteRepo    repository.VoteRepository
}

type gormUnitOfWork struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
}

// NewUnitOfWork 接收的是非事务的 repositories，每次 Execute 时再派生出事务副本
func NewUnitOfWork(db *gorm.DB, commentRepo repository.CommentRepository, voteRepo repository.VoteRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:          db,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
	}
}

func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transactionalRepos := &TransactionalRepositories{
			CommentRepo: u.commentRepo.WithTx(tx),
			VoteRepo:    u.voteRepo.WithTx(tx),
		}
		return fn(transactionalRepos)
	})
}
