package model

// Article 由 CMS 维护，评论系统只关心它是否存在
type Article struct {
	BaseModel
	Slug      string `gorm:"size:191;uniqueIndex;not null"`
	TitleBn   string `gorm:"not null"`
	TitleEn   string
	Published bool `gorm:"default:true"`
}

func (Article) TableName() string {
	return "articles"
}
