package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Khobor_Live/internal/model"
	"Khobor_Live/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func newEngine(seen *model.Caller, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identify(secret))
	chain := append(handlers, func(c *gin.Context) {
		*seen = CallerFrom(c)
		c.Status(http.StatusNoContent)
	})
	r.GET("/", chain...)
	return r
}

func bearer(t *testing.T, claims token.Claims) string {
	t.Helper()
	s, err := token.Issue(secret, claims, time.Hour)
	require.NoError(t, err)
	return "Bearer " + s
}

func TestIdentify(t *testing.T) {
	var seen model.Caller
	r := newEngine(&seen)

	cases := []struct {
		name   string
		header string
		kind   model.CallerKind
		userID uint64
	}{
		{"no header", "", model.CallerAnonymous, 0},
		{"garbage", "Bearer nope", model.CallerAnonymous, 0},
		{"wrong scheme", "Basic abc", model.CallerAnonymous, 0},
		{"user", bearer(t, token.Claims{UserID: 5, Email: "u@x.test", Role: model.RoleUser}), model.CallerUser, 5},
		{"admin", bearer(t, token.Claims{UserID: 1, Email: "a@x.test", Role: model.RoleAdmin}), model.CallerAdmin, 1},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code, tc.name)
		assert.Equal(t, tc.kind, seen.Kind, tc.name)
		assert.Equal(t, tc.userID, seen.UserID, tc.name)
		assert.Equal(t, "203.0.113.7", seen.IP, tc.name)
	}
}

func TestAdminRequired(t *testing.T) {
	var seen model.Caller
	r := newEngine(&seen, AdminRequired())

	do := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusForbidden, do(bearer(t, token.Claims{UserID: 5, Role: model.RoleUser})))
	assert.Equal(t, http.StatusNoContent, do(bearer(t, token.Claims{UserID: 1, Role: model.RoleAdmin})))
}
