package model

import "strconv"

type CallerKind int

const (
	CallerAnonymous CallerKind = iota
	CallerUser
	CallerAdmin
)

// Caller 请求方身份，由中间件从 token 解析后显式传给 service，不读全局会话
type Caller struct {
	Kind   CallerKind
	UserID uint64
	Email  string
	IP     string
}

func Anonymous(ip string) Caller {
	return Caller{Kind: CallerAnonymous, IP: ip}
}

func (c Caller) Authenticated() bool {
	return c.Kind != CallerAnonymous && c.UserID != 0
}

func (c Caller) IsAdmin() bool {
	return c.Kind == CallerAdmin && c.UserID != 0
}

// VoterKey 登录用户按账号，游客按 IP；同一 NAT 后面的游客会被当成同一个人
func (c Caller) VoterKey() string {
	if c.Authenticated() {
		return "user:" + strconv.FormatUint(c.UserID, 10)
	}
	return "ip:" + c.IP
}

// UserIDPtr 游客返回 nil
func (c Caller) UserIDPtr() *uint64 {
	if !c.Authenticated() {
		return nil
	}
	id := c.UserID
	return &id
}
