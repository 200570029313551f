package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDefault routes the default logger into a buffer for the test.
func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Default()
	log.SetDefault(log.New(&ContextHandler{log.NewJSONHandler(&buf, &log.HandlerOptions{Level: log.LevelDebug})}))
	t.Cleanup(func() { log.SetDefault(prev) })
	return &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestAccessLogUsesEnvelopeCode(t *testing.T) {
	buf := captureDefault(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	SetupGin(r, "/metrics")
	r.GET("/posts/:post_id", func(c *gin.Context) {
		c.Set(BizCodeKey, http.StatusNotFound)
		c.JSON(http.StatusOK, gin.H{"code": 404})
	})
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/posts/7", "/metrics"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	recs := records(t, buf)
	require.Len(t, recs, 1, "skipped paths are not logged")
	assert.Equal(t, "http access", recs[0]["msg"])
	assert.Equal(t, "WARN", recs[0]["level"])
	assert.Equal(t, "/posts/:post_id", recs[0]["route"])
	assert.Equal(t, float64(200), recs[0]["status"])
	assert.Equal(t, float64(404), recs[0]["code"])
}

func TestKeyspace(t *testing.T) {
	assert.Equal(t, "post:comment:stats", Keyspace("post:comment:stats:12"))
	assert.Equal(t, "token:blacklist", Keyspace("token:blacklist:abc"))
	assert.Equal(t, "explore:top_tags", Keyspace("explore:top_tags"))
	assert.Equal(t, "other", Keyspace("session:1"))
}

func TestRedisHookLogsFamilyNotKey(t *testing.T) {
	buf := captureDefault(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:            mr.Addr(),
		MaxRetries:      -1,
		Protocol:        2,
		DisableIdentity: true,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	client.AddHook(NewRedisLogger())
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	err := client.Get(ctx, "token:blacklist:secret-signature").Err()
	assert.ErrorIs(t, err, redis.Nil)
	for _, rec := range records(t, buf) {
		assert.NotEqual(t, "Redis Error", rec["msg"], "cache misses are not logged")
	}

	mr.Close()
	require.Error(t, client.Get(ctx, "token:blacklist:secret-signature").Err())

	assert.NotContains(t, buf.String(), "secret-signature")
	var found bool
	for _, rec := range records(t, buf) {
		if rec["msg"] == "Redis Error" {
			found = true
			assert.Equal(t, "token:blacklist", rec["keyspace"])
		}
	}
	assert.True(t, found)
}
