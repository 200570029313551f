package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"sort"
	"time"
)

const topTagsTTL = 30 * time.Minute

type ExploreService interface {
	// TopTags serves the cached ranking and computes it inline on a miss.
	TopTags(ctx context.Context) ([]*dto.TagCountDTO, error)
	// RefreshTopTags recomputes the ranking from the database and caches it.
	RefreshTopTags(ctx context.Context) ([]*dto.TagCountDTO, error)
}

type exploreServiceImpl struct {
	tagRepo repository.TagRepo
	limit   int
}

func NewExploreService(tagRepo repository.TagRepo, limit int) ExploreService {
	if limit <= 0 {
		limit = 10
	}
	return &exploreServiceImpl{tagRepo: tagRepo, limit: limit}
}

func (s *exploreServiceImpl) TopTags(ctx context.Context) ([]*dto.TagCountDTO, error) {
	var cached []*dto.TagCountDTO
	found, err := redis.GetJSON(ctx, consts.ExploreTopTagsKey, &cached)
	if err != nil && !errors.Is(err, redis.ErrUnavailable) {
		log.WarnContext(ctx, "top tags cache read failed", "err", err)
	}
	if found {
		return cached, nil
	}
	return s.RefreshTopTags(ctx)
}

func (s *exploreServiceImpl) RefreshTopTags(ctx context.Context) ([]*dto.TagCountDTO, error) {
	lists, err := s.tagRepo.GetPublishedTagLists(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, list := range lists {
		// a tag repeated inside one post counts once
		for _, tag := range util.NormalizeTags(list) {
			counts[tag]++
		}
	}

	top := make([]*dto.TagCountDTO, 0, len(counts))
	for tag, n := range counts {
		top = append(top, &dto.TagCountDTO{Tag: tag, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Tag < top[j].Tag
	})
	if len(top) > s.limit {
		top = top[:s.limit]
	}

	if err = redis.SetJSON(ctx, consts.ExploreTopTagsKey, top, topTagsTTL); err != nil && !errors.Is(err, redis.ErrUnavailable) {
		log.WarnContext(ctx, "top tags cache write failed", "err", err)
	}
	return top, nil
}
