package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), TraceIDKey, "abc-123")
	l.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "abc-123", rec["trace_id"])
}

func TestRemoteFilterDropsUntracedRecords(t *testing.T) {
	var local, remote bytes.Buffer
	tee := &TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(&remote, nil)},
	}}
	l := log.New(&ContextHandler{tee})

	l.Info("startup")
	assert.NotEmpty(t, local.String())
	assert.Empty(t, remote.String())

	l.InfoContext(context.WithValue(context.Background(), TraceIDKey, "t-1"), "request")
	assert.Contains(t, remote.String(), `"trace_id":"t-1"`)

	remote.Reset()
	l.Warn("kafka consumer lagging")
	assert.Contains(t, remote.String(), "kafka consumer lagging", "untraced warnings are still shipped")
}

func TestContextHandlerKeepsUserIDAcrossWith(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)}).With("component", "feed")

	ctx := context.WithValue(context.Background(), TraceIDKey, "t-2")
	ctx = context.WithValue(ctx, UserIDKey, uint64(42))
	l.InfoContext(ctx, "ranked")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "t-2", rec["trace_id"])
	assert.Equal(t, float64(42), rec["user_id"])
	assert.Equal(t, "feed", rec["component"])
}

func TestTeeHandlerEnabledByAnySink(t *testing.T) {
	var debug, info bytes.Buffer
	tee := &TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&info, &log.HandlerOptions{Level: log.LevelInfo}),
		log.NewJSONHandler(&debug, &log.HandlerOptions{Level: log.LevelDebug}),
	}}
	l := log.New(tee)

	l.Debug("detail")
	assert.Empty(t, info.String())
	assert.Contains(t, debug.String(), "detail")
}
