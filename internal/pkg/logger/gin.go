package logger

import (
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one record per finished request. The level follows the envelope code
// when the handler set one, otherwise the transport status. Paths in skip are not logged.
func AccessLog(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skipped[c.Request.URL.Path]; ok {
			return
		}

		code := c.Writer.Status()
		if biz := c.GetInt(BizCodeKey); biz != 0 {
			code = biz
		}
		level := log.LevelInfo
		switch {
		case code >= http.StatusInternalServerError:
			level = log.LevelError
		case code >= http.StatusBadRequest:
			level = log.LevelWarn
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []log.Attr{
			log.String("method", c.Request.Method),
			log.String("route", route),
			log.String("path", c.Request.URL.Path),
			log.Int("status", c.Writer.Status()),
			log.Int("code", code),
			log.Duration("latency", time.Since(start)),
			log.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, log.String("errors", c.Errors.String()))
		}
		// the auth middleware may have replaced the request context, so user_id is picked up here
		log.LogAttrs(c.Request.Context(), level, "http access", attrs...)
	}
}

// SetupGin installs the access log and panic recovery.
func SetupGin(r *gin.Engine, skip ...string) {
	r.Use(AccessLog(skip...), gin.Recovery())
}
