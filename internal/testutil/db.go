package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"Khobor_Live/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BaseTime 测试数据库里第一条记录的 created_at，之后每次写入递增一秒
var BaseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

var dbSeq int64

// NewDB 每个测试一个独立的内存 sqlite，表结构与线上一致
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	var tick int64
	dsn := fmt.Sprintf("file:khobor_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		// 时间戳按秒递增，排序结果可预期
		NowFunc: func() time.Time {
			return BaseTime.Add(time.Duration(atomic.AddInt64(&tick, 1)) * time.Second)
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库只用一个连接，事务内外看到的是同一份数据
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.User{}, &model.Article{}, &model.Comment{}, &model.Vote{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// MustCreate 写入一条记录，失败直接终止测试
func MustCreate(t testing.TB, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}
