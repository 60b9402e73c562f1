package main

import (
	"Khobor_Live/internal/config"
	"Khobor_Live/internal/data"
	"Khobor_Live/internal/handler"
	"Khobor_Live/internal/model"
	"Khobor_Live/internal/repository"
	"Khobor_Live/internal/router"
	"Khobor_Live/internal/service"
	"Khobor_Live/pkg/cache"
	"Khobor_Live/pkg/logger"
	"Khobor_Live/pkg/rabbitmq"
	"Khobor_Live/pkg/redis"
	"log"

	goredis "github.com/go-redis/redis/v8"
	"github.com/streadway/amqp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	if cfg.JWTSecretKey == "" {
		logger.Log.Warn("JWT_SECRET_KEY 未设置，所有请求都会按游客处理")
	}

	// Redis 同时用于文章缓存和评论响应缓存；memory 模式下不连接
	var redisClient *goredis.Client
	if cfg.CacheBackend == config.CacheBackendRedis {
		var err error
		redisClient, err = redis.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.Fatalf("无法连接到Redis: %v", err)
		}
		logger.Log.Info("Redis连接成功")
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")
	// 没有表就建表，没有索引就加索引；不会删除已有的列
	if err := db.AutoMigrate(&model.User{}, &model.Article{}, &model.Comment{}, &model.Vote{}); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	var store cache.Store
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient)
	} else {
		memStore, err := cache.NewMemoryStore(cfg.CacheSize)
		if err != nil {
			logger.Log.Fatalf("缓存初始化失败: %v", err)
		}
		store = memStore
	}
	responseCache := cache.New(store)

	// 写时失效可选：多实例共享 Redis 时经 MQ 通知 consumer，单实例直接本地清
	events := service.NoopPublisher()
	if cfg.CacheInvalidateOnWrite {
		if redisClient != nil {
			var rabbitMQConn *amqp.Connection
			rabbitMQConn, err = rabbitmq.InitRabbitMQ(cfg.AMQPURL)
			if err != nil {
				logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
			}
			defer rabbitMQConn.Close()
			events, err = service.NewAMQPPublisher(rabbitMQConn)
			if err != nil {
				logger.Log.Fatalf("队列声明失败: %v", err)
			}
			logger.Log.Info("RabbitMQ连接成功")
		} else {
			events = service.NewCacheInvalidator(responseCache)
		}
	}

	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	articleRepo := repository.NewArticleRepository(db, redisClient)

	uow := data.NewUnitOfWork(db, commentRepo, voteRepo)
	assembler := service.NewThreadAssembler(commentRepo, voteRepo, nil)

	commentService := service.NewCommentService(commentRepo, articleRepo, assembler, responseCache, events, service.Options{
		CacheTTL:       cfg.CacheTTL,
		DefaultPerPage: cfg.CommentsPerPage,
	})
	voteService := service.NewVoteService(uow, events)
	moderationService := service.NewModerationService(commentRepo, uow, events)

	commentHandler := handler.NewCommentHandler(commentService)
	voteHandler := handler.NewVoteHandler(voteService)
	moderationHandler := handler.NewModerationHandler(moderationService)

	r := router.SetupRouter(commentHandler, voteHandler, moderationHandler, []byte(cfg.JWTSecretKey))
	logger.Log.WithField("addr", cfg.HTTPAddr).
		WithField("cache_backend", cfg.CacheBackend).
		WithField("invalidate_on_write", cfg.CacheInvalidateOnWrite).
		Info("服务器启动")

	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
