package repository

import (
	"context"
	"testing"

	"Khobor_Live/internal/model"
	"Khobor_Live/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleCacheAside(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewArticleRepository(db, rdb)

	article := &model.Article{Slug: "election", TitleBn: "নির্বাচন"}
	require.NoError(t, repo.Create(ctx, article))

	cached, err := repo.GetArticleCache(ctx, article.ID)
	require.NoError(t, err)
	assert.Nil(t, cached)

	found, err := repo.FindByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "election", found.Slug)
	assert.True(t, mr.Exists(keyArticleInfo(article.ID)))
	assert.Greater(t, mr.TTL(keyArticleInfo(article.ID)).Seconds(), float64(0))

	// 删掉数据库里的行，缓存仍能回答存在性
	require.NoError(t, db.Delete(&model.Article{}, article.ID).Error)
	ok, err := repo.Exists(ctx, article.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FlushAll()
	ok, err = repo.Exists(ctx, article.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
