package middleware

import (
	"net/http"
	"strings"

	"Khobor_Live/internal/model"
	"Khobor_Live/pkg/logger"
	"Khobor_Live/pkg/token"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// Identify 令牌是可选的：没有或无效都按游客处理，游客用客户端 IP 作为投票身份
func Identify(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := model.Anonymous(c.ClientIP())

		// 通常格式是 "Bearer [token]"
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				claims, err := token.Parse(secret, parts[1])
				if err == nil {
					caller = model.Caller{Kind: model.CallerUser, UserID: claims.UserID, Email: claims.Email, IP: c.ClientIP()}
					if claims.Role == model.RoleAdmin {
						caller.Kind = model.CallerAdmin
					}
				} else {
					logger.Log.WithError(err).WithField("ip", c.ClientIP()).Debug("授权令牌无效，按游客处理")
				}
			}
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom 没挂 Identify 中间件时也返回一个游客身份
func CallerFrom(c *gin.Context) model.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(model.Caller); ok {
			return caller
		}
	}
	return model.Anonymous(c.ClientIP())
}

// AdminRequired 必须放在 Identify 之后
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !caller.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required", "code": "unauthenticated"})
			return
		}
		if !caller.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "admin access required", "code": "admin_required"})
			return
		}
		c.Next()
	}
}
