package middleware

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identity struct {
	Code   int      `json:"code"`
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
}

func setup(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	redis.SetClient(redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { redis.SetClient(nil) })

	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, identity{Code: 200, UserID: c.GetUint64("user_id"), Roles: c.GetStringSlice("roles")})
	}

	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/strict", AuthMiddleware(), whoami)
	r.GET("/optional", AuthOptionalMiddleware(), whoami)
	r.GET("/mod", AuthMiddleware(), CheckRoles(consts.RoleModerator, consts.RoleAdmin), whoami)
	return r, mr
}

func call(t *testing.T, r *gin.Engine, path, token string) (identity, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var id identity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
	return id, w
}

func TestAuthMiddleware(t *testing.T) {
	r, mr := setup(t)
	token, err := security.GenerateToken(7, []string{consts.RoleModerator})
	require.NoError(t, err)

	id, _ := call(t, r, "/strict", "")
	assert.Equal(t, 401, id.Code)

	id, _ = call(t, r, "/strict", "not-a-token")
	assert.Equal(t, 401, id.Code)

	id, _ = call(t, r, "/strict", token)
	assert.Equal(t, 200, id.Code)
	assert.Equal(t, uint64(7), id.UserID)
	assert.Equal(t, []string{consts.RoleModerator}, id.Roles)

	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, mr.Set(consts.TokenBlacklistKey+sig, "1"))
	mr.SetTTL(consts.TokenBlacklistKey+sig, time.Hour)

	id, _ = call(t, r, "/strict", token)
	assert.Equal(t, 401, id.Code, "revoked tokens are refused")
}

func TestAuthOptionalMiddleware(t *testing.T) {
	r, mr := setup(t)
	token, err := security.GenerateToken(9, nil)
	require.NoError(t, err)

	id, _ := call(t, r, "/optional", "")
	assert.Equal(t, 200, id.Code)
	assert.Zero(t, id.UserID)

	id, _ = call(t, r, "/optional", "garbage.token.value")
	assert.Zero(t, id.UserID)

	id, _ = call(t, r, "/optional", token)
	assert.Equal(t, uint64(9), id.UserID)

	mr.Close()
	id, _ = call(t, r, "/optional", token)
	assert.Equal(t, 200, id.Code, "blacklist outage degrades to anonymous")
	assert.Zero(t, id.UserID)
}

func TestCheckRoles(t *testing.T) {
	r, _ := setup(t)
	plain, err := security.GenerateToken(1, nil)
	require.NoError(t, err)
	admin, err := security.GenerateToken(2, []string{consts.RoleAdmin})
	require.NoError(t, err)

	id, _ := call(t, r, "/mod", plain)
	assert.Equal(t, 403, id.Code)

	id, _ = call(t, r, "/mod", admin)
	assert.Equal(t, 200, id.Code)
}

func TestTraceMiddleware(t *testing.T) {
	r, _ := setup(t)
	r.GET("/trace", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.TraceIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set(traceHeader, "0b5c7a4e-8f3e-4c1b-9a55-2f0f9a1d3e77")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "0b5c7a4e-8f3e-4c1b-9a55-2f0f9a1d3e77", w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(traceHeader))

	req = httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set(traceHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
	assert.Len(t, strings.Split(w.Body.String(), "-"), 5)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	preflight := func(r *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	open := gin.New()
	open.Use(CORSMiddleware(nil))
	w := preflight(open, "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	strict := gin.New()
	strict.Use(CORSMiddleware([]string{"https://inkwell.example"}))
	strict.GET("/posts", func(c *gin.Context) { c.Status(http.StatusOK) })

	w = preflight(strict, "https://inkwell.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://inkwell.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight(strict, "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	strict.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
