package logger

import (
	"context"
	log "log/slog"
)

// Context and gin keys shared by the middleware and the log handlers.
const (
	TraceIDKey = "trace_id"
	UserIDKey  = "user_id"
	// BizCodeKey carries the envelope code of the response, since the transport status is always 200.
	BizCodeKey = "biz_code"
)

// ContextHandler copies the trace id and the signed-in user id from ctx onto every record.
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
		if userID, ok := ctx.Value(UserIDKey).(uint64); ok && userID != 0 {
			r.AddAttrs(log.Uint64(UserIDKey, userID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}
