package job

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const trendingTagsLockTTL = time.Minute

// TrendingTagsJob refreshes the cached explore ranking. Replicas race for a redis lock so
// one refresh runs per tick.
type TrendingTagsJob struct {
	exploreSvc service.ExploreService
}

func NewTrendingTagsJob(exploreSvc service.ExploreService) *TrendingTagsJob {
	return &TrendingTagsJob{
		exploreSvc: exploreSvc,
	}
}

func (s *TrendingTagsJob) Run() {
	traceID := "job-trending-tags-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	owner := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.ExploreRefreshLock, owner, trendingTagsLockTTL, 0)
	switch {
	case errors.Is(err, redis.ErrUnavailable):
		// single instance without redis: nothing to coordinate with
	case err != nil:
		log.ErrorContext(ctx, "acquire trending tags lock error", "err", err)
		return
	case !locked:
		log.InfoContext(ctx, "trending tags refresh held by another instance")
		return
	default:
		defer redis.UnLock(ctx, consts.ExploreRefreshLock, owner)
	}

	start := time.Now()
	tags, err := s.exploreSvc.RefreshTopTags(ctx)
	if err != nil {
		log.ErrorContext(ctx, "refresh trending tags error", "err", err)
		return
	}
	log.InfoContext(ctx, "TrendingTagsJob finished", "tags", len(tags), "latency", time.Since(start))
}
