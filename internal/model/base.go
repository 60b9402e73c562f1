package model

import (
	"time"
)

// 统一用 uint64 做主键。评论和投票都是硬删除，所以不带 gorm.DeletedAt
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
