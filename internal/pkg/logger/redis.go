package logger

import (
	"Inkwell/internal/pkg/consts"
	"context"
	"errors"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const slowRedisCall = 100 * time.Millisecond

// keyFamilies are the key prefixes the application writes, most specific first.
var keyFamilies = []string{
	consts.PostCommentStatsKey,
	consts.ExploreTopTagsKey,
	consts.TokenBlacklistKey,
	consts.ExploreRefreshLock,
}

// Keyspace names the family of a redis key. Records carry the family, never the key
// or its value, so cached payloads and token signatures stay out of the logs.
func Keyspace(key string) string {
	for _, prefix := range keyFamilies {
		if strings.HasPrefix(key, prefix) {
			return strings.TrimSuffix(prefix, ":")
		}
	}
	return "other"
}

func cmdKeyspace(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return ""
	}
	key, ok := args[1].(string)
	if !ok {
		return ""
	}
	return Keyspace(key)
}

// ignorable reports errors that are part of normal cache flow.
func ignorable(cmd redis.Cmder, err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	// go-redis sends CLIENT SETINFO on connect, which older servers reject
	return cmd.Name() == "client" && strings.Contains(err.Error(), "setinfo")
}

type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

// ProcessHook logs failed and slow commands.
func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if err != nil && ignorable(cmd, err) {
			return err
		}
		if err == nil && elapsed < slowRedisCall {
			return nil
		}

		attrs := []log.Attr{
			log.String("command", cmd.Name()),
			log.String("keyspace", cmdKeyspace(cmd)),
			log.Duration("latency", elapsed),
		}
		if err != nil {
			log.LogAttrs(ctx, log.LevelError, "Redis Error", append(attrs, log.Any("err", err))...)
		} else {
			log.LogAttrs(ctx, log.LevelWarn, "Redis Slow", attrs...)
		}
		return err
	}
}

// ProcessPipelineHook logs failed and slow pipelines, e.g. the batched comment stats writes.
func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		if errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil && elapsed < slowRedisCall {
			return nil
		}

		keyspace := ""
		if len(cmds) > 0 {
			keyspace = cmdKeyspace(cmds[0])
		}
		attrs := []log.Attr{
			log.Int("cmd_count", len(cmds)),
			log.String("keyspace", keyspace),
			log.Duration("latency", elapsed),
		}
		if err != nil {
			log.LogAttrs(ctx, log.LevelError, "Redis Pipeline Error", append(attrs, log.Any("err", err))...)
		} else {
			log.LogAttrs(ctx, log.LevelWarn, "Redis Pipeline Slow", attrs...)
		}
		return err
	}
}
