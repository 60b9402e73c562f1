package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Khobor_Live/internal/dto"
	"Khobor_Live/internal/middleware"
	"Khobor_Live/internal/model"
	"Khobor_Live/internal/pagination"
	"Khobor_Live/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommentService struct {
	lastQuery service.ListQuery
	lastInput service.CreateCommentInput
	err       error
}

func (s *stubCommentService) CreateComment(_ context.Context, _ model.Caller, in service.CreateCommentInput) (*model.Comment, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	c := &model.Comment{ArticleID: in.ArticleID, Text: in.Text}
	c.ID = 11
	return c, nil
}

func (s *stubCommentService) CreateReply(_ context.Context, _ model.Caller, in service.CreateReplyInput) (dto.ReplyNode, error) {
	if s.err != nil {
		return dto.ReplyNode{}, s.err
	}
	return dto.ReplyNode{ID: 12, User: "Anonymous", Text: in.Text, Time: "just now"}, nil
}

func (s *stubCommentService) GetComments(_ context.Context, q service.ListQuery) (dto.CommentPage, error) {
	s.lastQuery = q
	if s.err != nil {
		return dto.CommentPage{}, s.err
	}
	return dto.CommentPage{Success: true, Comments: []dto.CommentNode{}}, nil
}

type stubVoteService struct {
	caller model.Caller
}

func (s *stubVoteService) CastVote(_ context.Context, caller model.Caller, _ uint64, voteType string) (*service.VoteResult, error) {
	s.caller = caller
	if voteType != "upvote" {
		return nil, service.ErrInvalidVoteType
	}
	return &service.VoteResult{Action: service.ActionAdded, Tally: model.Tally{Upvotes: 3, Downvotes: 1}}, nil
}

func newTestEngine(ch CommentHandler, vh VoteHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identify([]byte("k")))
	r.GET("/comments", ch.GetComments)
	r.POST("/comments", ch.CreateComment)
	r.POST("/replies", ch.CreateReply)
	r.POST("/votes", vh.CastVote)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetCommentsParsesQuery(t *testing.T) {
	svc := &stubCommentService{}
	r := newTestEngine(NewCommentHandler(svc), NewVoteHandler(&stubVoteService{}))

	w := do(r, http.MethodGet, "/comments?articleId=7&page=2&perPage=5&sort=helpful&lang=en", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ListQuery{ArticleID: 7, Page: 2, PerPage: 5, Sort: "helpful", Lang: "en"}, svc.lastQuery)
	assert.JSONEq(t, `{"success":true,"comments":[],"pagination":{"page":0,"perPage":0,"totalCount":0,"totalPages":0,"hasNextPage":false,"hasPrevPage":false}}`, w.Body.String())

	w = do(r, http.MethodGet, "/comments?articleId=7", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.lastQuery.Page)
}

func TestGetCommentsRejectsBadArticleID(t *testing.T) {
	r := newTestEngine(NewCommentHandler(&stubCommentService{}), NewVoteHandler(&stubVoteService{}))

	for _, path := range []string{"/comments", "/comments?articleId=abc", "/comments?articleId=0"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "invalid_article_id", decodeError(t, w).Code, path)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{pagination.ErrInvalidPage, http.StatusBadRequest, "invalid_page"},
		{service.ErrArticleNotFound, http.StatusBadRequest, "article_not_found"},
		{service.ErrParentNotFound, http.StatusNotFound, "parent_not_found"},
		{service.ErrAdminRequired, http.StatusForbidden, "admin_required"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "storage_error"},
	}
	for _, tc := range cases {
		svc := &stubCommentService{err: tc.err}
		r := newTestEngine(NewCommentHandler(svc), NewVoteHandler(&stubVoteService{}))

		w := do(r, http.MethodGet, "/comments?articleId=1", "")
		assert.Equal(t, tc.status, w.Code, tc.code)
		resp := decodeError(t, w)
		assert.Equal(t, tc.code, resp.Code)
		assert.False(t, resp.Success)
		assert.NotContains(t, resp.Error, "connection refused")
	}
}

func TestCreateCommentAndReply(t *testing.T) {
	svc := &stubCommentService{}
	r := newTestEngine(NewCommentHandler(svc), NewVoteHandler(&stubVoteService{}))

	w := do(r, http.MethodPost, "/comments", `{"articleId":3,"text":"ভালো লেখা","name":"Rina"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"id":11}`, w.Body.String())
	assert.Equal(t, service.CreateCommentInput{ArticleID: 3, Text: "ভালো লেখা", Name: "Rina"}, svc.lastInput)

	w = do(r, http.MethodPost, "/comments", `{"articleId":"three"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeError(t, w).Code)

	w = do(r, http.MethodPost, "/replies", `{"parentCommentId":11,"text":"ok"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var reply struct {
		Success bool          `json:"success"`
		ID      uint64        `json:"id"`
		Reply   dto.ReplyNode `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.True(t, reply.Success)
	assert.Equal(t, uint64(12), reply.ID)
	assert.Equal(t, "ok", reply.Reply.Text)
}

func TestCastVote(t *testing.T) {
	votes := &stubVoteService{}
	r := newTestEngine(NewCommentHandler(&stubCommentService{}), NewVoteHandler(votes))

	w := do(r, http.MethodPost, "/votes", `{"commentId":5,"voteType":"upvote"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"action":"added","upvotes":3,"downvotes":1,"score":2}`, w.Body.String())
	assert.Equal(t, model.CallerAnonymous, votes.caller.Kind)

	w = do(r, http.MethodPost, "/votes", `{"commentId":5,"voteType":"meh"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_vote_type", decodeError(t, w).Code)

	w = do(r, http.MethodPost, "/votes", `{"voteType":"upvote"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
