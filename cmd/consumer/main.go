package main

import (
	"context"
	"errors"
	"log"

	"Khobor_Live/internal/config"
	"Khobor_Live/internal/service"
	"Khobor_Live/pkg/cache"
	"Khobor_Live/pkg/logger"
	"Khobor_Live/pkg/rabbitmq"
	"Khobor_Live/pkg/redis"

	"github.com/streadway/amqp"
)

// 消费者进程：收到评论写事件后，清掉 Redis 里该文章的所有评论页缓存
func main() {
	cfg := config.Load()
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	redisClient, err := redis.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到Redis: %v", err)
	}
	responseCache := cache.New(cache.NewRedisStore(redisClient))

	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.AMQPURL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueueCommentEvents); err != nil {
		logger.Log.Fatalf("队列声明失败: %v", err)
	}

	consumeCommentEvents(rabbitMQConn, responseCache)
}

func consumeCommentEvents(conn *amqp.Connection, rc *cache.ResponseCache) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	msgs, err := ch.Consume(
		service.QueueCommentEvents, // queue
		"",                         // consumer
		false,                      // auto-ack: 处理完再手动确认
		false,                      // exclusive
		false,                      // no-local
		false,                      // no-wait
		nil,                        // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册评论事件消费者: %v", err)
	}
	forever := make(chan bool)

	go func() {
		for d := range msgs {
			logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)

			ev, err := service.InvalidateFromMessage(context.Background(), rc, d.Body)
			switch {
			case errors.Is(err, service.ErrMalformedEvent):
				// 坏消息重试也没用，直接确认丢弃
				logCtx.WithError(err).Error("评论事件解析失败")
				d.Ack(false)
			case err != nil:
				logCtx.WithError(err).Error("清理缓存失败，将进行重试")
				d.Nack(false, true)
			default:
				logCtx.WithField("article_id", ev.ArticleID).WithField("event", ev.Type).Info("文章评论缓存已清理")
				d.Ack(false)
			}
		}
	}()
	logger.Log.Info(" [*] 等待评论事件中. 按 CTRL+C 退出")
	<-forever
}
