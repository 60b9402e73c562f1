package model

// Comment ParentID 为 nil 是一级评论，否则是挂在一级评论下面的回复（只有一层）
type Comment struct {
	BaseModel
	ArticleID uint64  `gorm:"not null;index:idx_article_parent"`
	UserID    *uint64 `gorm:"index"` // 游客为 nil
	UserName  string  `gorm:"size:255;not null"`
	// 原文存储，渲染时才做 HTML 转义
	Text     string  `gorm:"type:text;not null"`
	ParentID *uint64 `gorm:"index;index:idx_article_parent"`
	IsPinned bool    `gorm:"default:false"`
	PinOrder int     `gorm:"default:0"`

	User *User `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}
