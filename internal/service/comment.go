package service

import (
	"context"
	"html"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"Khobor_Live/internal/apperr"
	"Khobor_Live/internal/dto"
	"Khobor_Live/internal/model"
	"Khobor_Live/internal/pagination"
	"Khobor_Live/internal/repository"
	"Khobor_Live/internal/sorting"
	"Khobor_Live/pkg/cache"
	"Khobor_Live/pkg/logger"

	"github.com/microcosm-cc/bluemonday"
)

const opListComments = "comments.list"

// 游客昵称里不允许出现任何标签
var namePolicy = bluemonday.StrictPolicy()

type CreateCommentInput struct {
	ArticleID uint64
	Text      string
	Name      string
}

type CreateReplyInput struct {
	ParentID uint64
	Text     string
	Name     string
	Lang     string
}

type ListQuery struct {
	ArticleID uint64
	Page      int
	PerPage   int
	Sort      string
	Lang      string
}

type CommentService interface {
	// 一级评论，任何人都可以发
	CreateComment(ctx context.Context, caller model.Caller, in CreateCommentInput) (*model.Comment, error)
	// 只能回复一级评论，回复继承父评论的文章
	CreateReply(ctx context.Context, caller model.Caller, in CreateReplyInput) (dto.ReplyNode, error)
	GetComments(ctx context.Context, q ListQuery) (dto.CommentPage, error)
}

type Options struct {
	CacheTTL       time.Duration
	DefaultPerPage int
}

type commentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	assembler   *ThreadAssembler
	cache       *cache.ResponseCache
	events      EventPublisher
	opts        Options
}

func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository, assembler *ThreadAssembler, rc *cache.ResponseCache, events EventPublisher, opts Options) CommentService {
	if opts.DefaultPerPage <= 0 {
		opts.DefaultPerPage = pagination.DefaultPerPage
	}
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		assembler:   assembler,
		cache:       rc,
		events:      events,
		opts:        opts,
	}
}

// validateText 按字符数算长度，返回去掉首尾空白后的原文
func validateText(text string, min int) (string, error) {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return "", ErrCommentEmpty
	case n < min:
		return "", ErrCommentTooShort
	case n > MaxCommentLength:
		return "", ErrCommentTooLong
	}
	return trimmed, nil
}

// authorName 登录用户用邮箱；游客用自填昵称，去掉标签后存原文，渲染时再转义
func authorName(caller model.Caller, supplied string) string {
	if caller.Authenticated() && caller.Email != "" {
		return caller.Email
	}
	name := strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(supplied)))
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	if name == "" {
		return "Anonymous"
	}
	return name
}

func (s *commentService) ensureArticle(ctx context.Context, articleID uint64) error {
	if articleID == 0 {
		return ErrInvalidArticleID
	}
	ok, err := s.articleRepo.Exists(ctx, articleID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return ErrArticleNotFound
	}
	return nil
}

func (s *commentService) CreateComment(ctx context.Context, caller model.Caller, in CreateCommentInput) (*model.Comment, error) {
	text, err := validateText(in.Text, MinCommentLength)
	if err != nil {
		return nil, err
	}
	if err := s.ensureArticle(ctx, in.ArticleID); err != nil {
		return nil, err
	}

	newComment := &model.Comment{
		ArticleID: in.ArticleID,
		UserID:    caller.UserIDPtr(),
		UserName:  authorName(caller, in.Name),
		Text:      text,
		// ParentID 为 nil，即一级评论
	}
	if err := s.commentRepo.Create(ctx, newComment); err != nil {
		return nil, apperr.Storage(err)
	}
	publishEvent(ctx, s.events, CommentEvent{Type: EventCommentCreated, ArticleID: newComment.ArticleID, CommentID: newComment.ID})
	return newComment, nil
}

func (s *commentService) CreateReply(ctx context.Context, caller model.Caller, in CreateReplyInput) (dto.ReplyNode, error) {
	text, err := validateText(in.Text, MinReplyLength)
	if err != nil {
		return dto.ReplyNode{}, err
	}
	parent, err := s.commentRepo.FindByID(ctx, in.ParentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.ReplyNode{}, ErrParentNotFound
		}
		return dto.ReplyNode{}, apperr.Storage(err)
	}
	if !parent.IsTopLevel() {
		return dto.ReplyNode{}, ErrReplyDepth
	}

	newReply := &model.Comment{
		ArticleID: parent.ArticleID,
		UserID:    caller.UserIDPtr(),
		UserName:  authorName(caller, in.Name),
		Text:      text,
		ParentID:  &parent.ID,
	}
	if err := s.commentRepo.Create(ctx, newReply); err != nil {
		return dto.ReplyNode{}, apperr.Storage(err)
	}
	publishEvent(ctx, s.events, CommentEvent{Type: EventReplyCreated, ArticleID: parent.ArticleID, CommentID: newReply.ID})

	// 再查一次，把作者 Preload 出来，isAdmin 和显示名都要用
	reply, err := s.commentRepo.FindByID(ctx, newReply.ID)
	if err != nil {
		return dto.ReplyNode{}, apperr.Storage(err)
	}
	return s.assembler.Reply(reply, dto.ParseLang(in.Lang)), nil
}

// GetComments 参数先规范化再拼缓存 key，等价的请求命中同一条缓存
func (s *commentService) GetComments(ctx context.Context, q ListQuery) (dto.CommentPage, error) {
	if q.ArticleID == 0 {
		return dto.CommentPage{}, ErrInvalidArticleID
	}
	if q.Page < 1 {
		return dto.CommentPage{}, pagination.ErrInvalidPage
	}
	perPage := pagination.NormalizePerPage(q.PerPage, s.opts.DefaultPerPage)
	mode := sorting.ParseMode(q.Sort)
	lang := dto.ParseLang(q.Lang)

	key := cache.Key(opListComments, map[string]string{
		"article_id": strconv.FormatUint(q.ArticleID, 10),
		"page":       strconv.Itoa(q.Page),
		"per_page":   strconv.Itoa(perPage),
		"sort":       string(mode),
		"lang":       string(lang),
	})
	tags := []string{ArticleTag(q.ArticleID)}

	return cache.Fetch(ctx, s.cache, key, s.opts.CacheTTL, tags, func(ctx context.Context) (dto.CommentPage, error) {
		return s.loadPage(ctx, q.ArticleID, q.Page, perPage, mode, lang)
	})
}

// loadPage 缓存未命中时走的完整读路径：计数 -> 分页 -> 取一级评论 -> 回复和票数
func (s *commentService) loadPage(ctx context.Context, articleID uint64, page, perPage int, mode sorting.Mode, lang dto.Lang) (dto.CommentPage, error) {
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return dto.CommentPage{}, err
	}
	total, err := s.commentRepo.CountTopLevel(ctx, articleID)
	if err != nil {
		return dto.CommentPage{}, apperr.Storage(err)
	}
	state, err := pagination.Paginate(page, perPage, total)
	if err != nil {
		return dto.CommentPage{}, err
	}

	var top []model.Comment
	if !state.Beyond() {
		top, err = s.commentRepo.FetchPage(ctx, articleID, mode, state.Offset, state.Limit)
		if err != nil {
			return dto.CommentPage{}, apperr.Storage(err)
		}
	}
	nodes, err := s.assembler.Assemble(ctx, top, lang)
	if err != nil {
		return dto.CommentPage{}, apperr.Storage(err)
	}

	logger.Log.WithField("article_id", articleID).
		WithField("page", page).
		WithField("sort", mode).
		WithField("count", len(nodes)).
		Debug("评论页已从数据库加载")
	return dto.CommentPage{
		Success:    true,
		Comments:   nodes,
		Pagination: dto.ToPaginationResponse(state),
	}, nil
}
