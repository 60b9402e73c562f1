package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims 是 token 里携带的调用者身份，登录/签发由认证服务负责，这里只做解析和（开发用的）签发
type Claims struct {
	UserID uint64
	Email  string
	Role   string
}

// Issue 签发一个 HS256 token
func Issue(secret []byte, c Claims, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": c.UserID,
		"email":   c.Email,
		"role":    c.Role,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse 校验签名和过期时间，并取出身份信息
func Parse(secret []byte, tokenString string) (Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// 只接受对称加密族
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	// MapClaims 里的数字会被解析成 float64
	idFloat, ok := mc["user_id"].(float64)
	if !ok || idFloat <= 0 {
		return Claims{}, ErrInvalidToken
	}
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)

	return Claims{UserID: uint64(idFloat), Email: email, Role: role}, nil
}
