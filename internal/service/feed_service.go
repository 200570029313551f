package service

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/metrics"
	"Inkwell/internal/pkg/ranking"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"
)

const (
	modeFiltered     = "filtered"
	modeAnonymous    = "anonymous"
	modePersonalized = "personalized"
	modeRecommend    = "recommend"
)

type FeedService interface {
	ListPosts(ctx context.Context, viewerID uint64, query *dto.PostListQuery) (*dto.PostPageDTO, error)
	Recommend(ctx context.Context, viewerID uint64) ([]*dto.PostDTO, error)
}

type feedServiceImpl struct {
	postRepo  repository.PostRepo
	userRepo  repository.UserRepo
	interests InterestService
	stats     PostStatsService
	cfg       config.FeedConfig
}

func NewFeedService(
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	interests InterestService,
	stats PostStatsService,
	cfg config.FeedConfig,
) FeedService {
	return &feedServiceImpl{
		postRepo:  postRepo,
		userRepo:  userRepo,
		interests: interests,
		stats:     stats,
		cfg:       cfg,
	}
}

func (s *feedServiceImpl) pageOf(query *dto.PostListQuery) (page, size int) {
	page, size = query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = s.cfg.PageSize
	}
	if size < 1 {
		size = 20
	}
	return page, size
}

// ListPosts serves the main feed. Any filter switches to a plain recency listing;
// otherwise anonymous readers get a chronological feed and signed-in readers a ranked one.
func (s *feedServiceImpl) ListPosts(ctx context.Context, viewerID uint64, query *dto.PostListQuery) (*dto.PostPageDTO, error) {
	page, size := s.pageOf(query)
	if query.Filtered() {
		return s.listFiltered(ctx, viewerID, query, page, size)
	}

	mode := modeAnonymous
	if viewerID != 0 {
		mode = modePersonalized
	}
	start := time.Now()

	posts, err := s.postRepo.ListPublishedCandidates(ctx, s.cfg.CandidateLimit, nil)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetCommentStats(ctx, postIDsOf(posts))
	if err != nil {
		return nil, err
	}

	candidates := toCandidates(posts, stats)
	var results []ranking.Result
	if viewerID == 0 {
		results = ranking.Chronological(candidates)
	} else {
		profile, _ := s.interests.BuildProfile(ctx, viewerID, s.cfg.FeedWindow)
		results = ranking.Personalized(profile, candidates)
	}
	metrics.FeedRankSeconds.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	total := int64(len(results))
	from := min((page-1)*size, len(results))
	to := min(from+size, len(results))

	items, err := s.decorate(ctx, viewerID, posts, results[from:to])
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (s *feedServiceImpl) listFiltered(ctx context.Context, viewerID uint64, query *dto.PostListQuery, page, size int) (*dto.PostPageDTO, error) {
	start := time.Now()
	empty := &dto.PostPageDTO{Items: make([]*dto.PostDTO, 0), Page: page, PageSize: size}

	filter := repository.PostFilter{
		Search:   query.Search,
		Topic:    query.Topic,
		ViewerID: viewerID,
		Limit:    size,
		Offset:   (page - 1) * size,
	}
	if name := strings.TrimSpace(query.Author); name != "" {
		author, err := s.userRepo.GetUserByUsername(ctx, name)
		if err != nil {
			return nil, err
		}
		if author == nil {
			return empty, nil
		}
		filter.AuthorID = author.ID
	}

	posts, total, err := s.postRepo.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	metrics.FeedRankSeconds.WithLabelValues(modeFiltered).Observe(time.Since(start).Seconds())

	items, err := s.stats.BuildPostDTOs(ctx, viewerID, posts, nil)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Recommend returns up to the configured number of unseen posts, falling back to the
// best quality unseen posts when nothing matches the reader's interests.
func (s *feedServiceImpl) Recommend(ctx context.Context, viewerID uint64) ([]*dto.PostDTO, error) {
	if viewerID == 0 {
		return nil, ErrLoginRequired
	}
	start := time.Now()

	profile, seen := s.interests.BuildProfile(ctx, viewerID, s.cfg.RecommendWindow)

	seenIDs := make([]uint64, 0, len(seen))
	for id := range seen {
		seenIDs = append(seenIDs, id)
	}
	posts, err := s.postRepo.ListPublishedCandidates(ctx, s.cfg.CandidateLimit, seenIDs)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetCommentStats(ctx, postIDsOf(posts))
	if err != nil {
		return nil, err
	}

	limit := s.cfg.RecommendLimit
	if limit < 1 {
		limit = 10
	}
	results, fallback := ranking.Recommend(profile, toCandidates(posts, stats), seen, limit)
	metrics.FeedRankSeconds.WithLabelValues(modeRecommend).Observe(time.Since(start).Seconds())
	if fallback {
		metrics.RecommendFallbackTotal.Inc()
		log.DebugContext(ctx, "recommendation served by quality fallback", "user_id", viewerID, "count", len(results))
	}

	return s.decorate(ctx, viewerID, posts, results)
}

// decorate turns ranked results back into DTOs in ranked order.
func (s *feedServiceImpl) decorate(ctx context.Context, viewerID uint64, posts []*model.Post, results []ranking.Result) ([]*dto.PostDTO, error) {
	byID := make(map[uint64]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ordered := make([]*model.Post, 0, len(results))
	relevance := make(map[uint64]int, len(results))
	for _, r := range results {
		if p, ok := byID[r.PostID]; ok {
			ordered = append(ordered, p)
			relevance[r.PostID] = r.Relevance
		}
	}
	return s.stats.BuildPostDTOs(ctx, viewerID, ordered, relevance)
}

func postIDsOf(posts []*model.Post) []uint64 {
	ids := make([]uint64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
