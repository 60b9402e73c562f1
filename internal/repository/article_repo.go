package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"Khobor_Live/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ArticleRepository 评论系统对文章的唯一需求：按 ID 判断是否存在
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	FindByID(ctx context.Context, articleID uint64) (*model.Article, error)
	Exists(ctx context.Context, articleID uint64) (bool, error)

	GetArticleCache(ctx context.Context, articleID uint64) (*model.Article, error)
	SetArticleCache(ctx context.Context, article *model.Article) error
}

type articleRepository struct {
	db  *gorm.DB
	rdb *redis.Client // 可以为 nil，此时不走缓存
}

func NewArticleRepository(db *gorm.DB, rdb *redis.Client) ArticleRepository {
	return &articleRepository{
		db:  db,
		rdb: rdb,
	}
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// FindByID 先读缓存，未命中再查库并写回
func (r *articleRepository) FindByID(ctx context.Context, articleID uint64) (*model.Article, error) {
	article, err := r.GetArticleCache(ctx, articleID)
	if err == nil && article != nil {
		return article, nil
	}

	var dbArticle model.Article
	if err := r.db.WithContext(ctx).First(&dbArticle, articleID).Error; err != nil {
		return nil, err
	}
	_ = r.SetArticleCache(ctx, &dbArticle)
	return &dbArticle, nil
}

func (r *articleRepository) Exists(ctx context.Context, articleID uint64) (bool, error) {
	_, err := r.FindByID(ctx, articleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func keyArticleInfo(articleID uint64) string {
	return fmt.Sprintf("article:info:%d", articleID)
}

func (r *articleRepository) GetArticleCache(ctx context.Context, articleID uint64) (*model.Article, error) {
	if r.rdb == nil {
		return nil, nil
	}
	articleJSON, err := r.rdb.Get(ctx, keyArticleInfo(articleID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var article model.Article
	if err := json.Unmarshal([]byte(articleJSON), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) SetArticleCache(ctx context.Context, article *model.Article) error {
	if r.rdb == nil {
		return nil
	}
	articleJSON, err := json.Marshal(article)
	if err != nil {
		return err
	}
	// 过期时间加一点随机，避免大量 key 同时失效
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, keyArticleInfo(article.ID), articleJSON, expiration).Err()
}
