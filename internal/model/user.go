package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 账号由认证服务管理，这里只用到显示名（邮箱）和角色
type User struct {
	BaseModel
	Username string `gorm:"size:64;unique;not null"`
	Email    string `gorm:"size:191;index"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"size:20;default:'user';not null"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
