package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"Khobor_Live/pkg/cache"
	"Khobor_Live/pkg/logger"
	"Khobor_Live/pkg/rabbitmq"

	"github.com/streadway/amqp"
)

const (
	// 项目名.业务领域.功能
	QueueCommentEvents = "khobor.comment_events.queue"

	EventCommentCreated = "comment.created"
	EventReplyCreated   = "reply.created"
	EventVoteCast       = "vote.cast"
	EventCommentDeleted = "comment.deleted"
	EventCommentPinned  = "comment.pinned"
)

// CommentEvent 写操作成功后发出，消费者据此清掉该文章的读缓存
type CommentEvent struct {
	Type      string `json:"type"`
	ArticleID uint64 `json:"article_id"`
	CommentID uint64 `json:"comment_id"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev CommentEvent) error
}

// ArticleTag 一篇文章所有评论页共用的缓存标签
func ArticleTag(articleID uint64) string {
	return "article:" + strconv.FormatUint(articleID, 10)
}

type amqpPublisher struct {
	conn *amqp.Connection
}

// NewAMQPPublisher 启动时声明一次队列，之后每次发布开一个临时 channel
func NewAMQPPublisher(conn *amqp.Connection) (EventPublisher, error) {
	if err := rabbitmq.DeclareQueue(conn, QueueCommentEvents); err != nil {
		return nil, err
	}
	return &amqpPublisher{conn: conn}, nil
}

func (p *amqpPublisher) Publish(_ context.Context, ev CommentEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.Publish(
		"",                 // exchange
		QueueCommentEvents, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
}

type cacheInvalidator struct {
	cache *cache.ResponseCache
}

// NewCacheInvalidator 单进程部署时直接在本地清缓存，不经过 MQ
func NewCacheInvalidator(c *cache.ResponseCache) EventPublisher {
	return &cacheInvalidator{cache: c}
}

func (p *cacheInvalidator) Publish(ctx context.Context, ev CommentEvent) error {
	return p.cache.Invalidate(ctx, ArticleTag(ev.ArticleID))
}

type noopPublisher struct{}

// NoopPublisher 不做写时失效，读缓存只靠 TTL 过期
func NoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, CommentEvent) error { return nil }

// publishEvent 发布失败只记日志，写操作本身已经提交
func publishEvent(ctx context.Context, p EventPublisher, ev CommentEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logger.Log.WithError(err).
			WithField("event", ev.Type).
			WithField("article_id", ev.ArticleID).
			WithField("comment_id", ev.CommentID).
			Warn("评论事件发布失败，缓存将按 TTL 过期")
	}
}

// ErrMalformedEvent 消息体无法解析，重试也没用
var ErrMalformedEvent = errors.New("malformed comment event")

// InvalidateFromMessage 消费者进程调用：解析消息并清掉对应文章的读缓存
func InvalidateFromMessage(ctx context.Context, rc *cache.ResponseCache, body []byte) (CommentEvent, error) {
	var ev CommentEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.ArticleID == 0 {
		return ev, ErrMalformedEvent
	}
	return ev, rc.Invalidate(ctx, ArticleTag(ev.ArticleID))
}
