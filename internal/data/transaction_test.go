package data

import (
	"context"
	"errors"
	"testing"

	"Khobor_Live/internal/model"
	"Khobor_Live/internal/repository"
	"Khobor_Live/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteRollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	comments := repository.NewCommentRepository(db)
	uow := NewUnitOfWork(db, comments, repository.NewVoteRepository(db))

	article := &model.Article{Slug: "tx", TitleBn: "লেনদেন"}
	testutil.MustCreate(t, db, article)

	boom := errors.New("boom")
	err := uow.Execute(ctx, func(repos *TransactionalRepositories) error {
		if err := repos.CommentRepo.Create(ctx, &model.Comment{ArticleID: article.ID, UserName: "a", Text: "rolled back"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := comments.CountTopLevel(ctx, article.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = uow.Execute(ctx, func(repos *TransactionalRepositories) error {
		return repos.CommentRepo.Create(ctx, &model.Comment{ArticleID: article.ID, UserName: "a", Text: "committed"})
	})
	require.NoError(t, err)
	count, err = comments.CountTopLevel(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
