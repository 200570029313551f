package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/markdown"
	"Inkwell/internal/pkg/metrics"
	"Inkwell/internal/pkg/ranking"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/thread"
	"Inkwell/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

const (
	excerptLength          = 200
	defaultCommentStatsTTL = time.Hour
)

type PostStatsService interface {
	GetCommentStats(ctx context.Context, postIDs []uint64) (map[uint64]repository.CommentStats, error)
	InvalidateCommentStats(ctx context.Context, postIDs ...uint64)
	BuildPostDTOs(ctx context.Context, viewerID uint64, posts []*model.Post, relevance map[uint64]int) ([]*dto.PostDTO, error)
}

type postStatsServiceImpl struct {
	metricRepo repository.PostMetricRepo
	actionRepo repository.PostActionRepo
	ttl        time.Duration
}

func NewPostStatsService(metricRepo repository.PostMetricRepo, actionRepo repository.PostActionRepo, ttl time.Duration) PostStatsService {
	if ttl <= 0 {
		ttl = defaultCommentStatsTTL
	}
	return &postStatsServiceImpl{
		metricRepo: metricRepo,
		actionRepo: actionRepo,
		ttl:        ttl,
	}
}

func CommentStatsKey(postID uint64) string {
	return consts.PostCommentStatsKey + strconv.FormatUint(postID, 10)
}

// GetCommentStats reads through the redis cache. A cache outage falls back to the database.
func (s *postStatsServiceImpl) GetCommentStats(ctx context.Context, postIDs []uint64) (map[uint64]repository.CommentStats, error) {
	stats := make(map[uint64]repository.CommentStats, len(postIDs))
	if len(postIDs) == 0 {
		return stats, nil
	}

	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = CommentStatsKey(id)
	}

	missing := postIDs
	values, err := redis.MGetValues(ctx, keys...)
	if err == nil {
		missing = make([]uint64, 0)
		for i, raw := range values {
			var cached repository.CommentStats
			if raw != "" && json.Unmarshal([]byte(raw), &cached) == nil {
				stats[postIDs[i]] = cached
				continue
			}
			missing = append(missing, postIDs[i])
		}
	} else if !errors.Is(err, redis.ErrUnavailable) {
		log.WarnContext(ctx, "comment stats cache read failed", "err", err)
	}

	if len(missing) == 0 {
		return stats, nil
	}

	loaded, err := s.metricRepo.GetCommentStats(ctx, missing)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]interface{}, len(missing))
	for _, id := range missing {
		stats[id] = loaded[id]
		entries[CommentStatsKey(id)] = loaded[id]
	}
	if err = redis.SetJSONBatch(ctx, entries, s.ttl); err != nil && !errors.Is(err, redis.ErrUnavailable) {
		log.WarnContext(ctx, "comment stats cache write failed", "err", err)
	}
	return stats, nil
}

func (s *postStatsServiceImpl) InvalidateCommentStats(ctx context.Context, postIDs ...uint64) {
	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = CommentStatsKey(id)
	}
	if err := redis.DeleteKey(ctx, keys...); err != nil && !errors.Is(err, redis.ErrUnavailable) {
		log.WarnContext(ctx, "comment stats invalidation failed", "post_ids", postIDs, "err", err)
		return
	}
	metrics.CacheInvalidationsTotal.WithLabelValues("write").Add(float64(len(keys)))
}

// BuildPostDTOs decorates posts with stats, viewer state and author masking, keeping input order.
func (s *postStatsServiceImpl) BuildPostDTOs(ctx context.Context, viewerID uint64, posts []*model.Post, relevance map[uint64]int) ([]*dto.PostDTO, error) {
	ids := make([]uint64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var (
		stats      map[uint64]repository.CommentStats
		views      map[uint64]int64
		bookmarked map[uint64]bool
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.GetCommentStats(gCtx, ids)
		return err
	})
	g.Go(func() (err error) {
		views, err = s.metricRepo.GetViewCounts(gCtx, ids)
		return err
	})
	g.Go(func() (err error) {
		bookmarked, err = s.actionRepo.GetBookmarkedSet(gCtx, viewerID, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		d, err := toPostDTO(p)
		if err != nil {
			return nil, err
		}
		st := stats[p.ID]
		d.TotalComments = st.Total
		d.OPReplies = st.OP
		d.QualityRatio = ranking.QualityRatio(st.OP, st.Total)
		d.Views = views[p.ID]
		d.IsBookmarked = bookmarked[p.ID]
		d.Relevance = relevance[p.ID]
		out = append(out, d)
	}
	return out, nil
}

func toPostDTO(p *model.Post) (*dto.PostDTO, error) {
	d := &dto.PostDTO{}
	if err := copier.Copy(d, p); err != nil {
		return nil, err
	}

	d.Tags = append(make([]string, 0, len(p.Tags)), p.Tags...)
	d.TopicName = consts.TopicNames[p.Topic]
	d.ContentHTML = markdown.Render(p.Content)
	d.Excerpt = markdown.Excerpt(p.Content, excerptLength)
	d.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	d.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	d.Author, d.AuthorImage = authorOf(&p.User).Display()
	return d, nil
}

func authorOf(u *model.User) thread.Author {
	return thread.Author{
		ID:          u.ID,
		Username:    u.Username,
		AvatarURL:   u.Profile.AvatarURL,
		SoftDeleted: u.Profile.IsSoftDeleted,
	}
}

// toCandidates projects posts into ranking input using the supplied comment stats.
func toCandidates(posts []*model.Post, stats map[uint64]repository.CommentStats) []ranking.Candidate {
	candidates := make([]ranking.Candidate, len(posts))
	for i, p := range posts {
		st := stats[p.ID]
		candidates[i] = ranking.Candidate{
			PostID:       p.ID,
			Topic:        p.Topic,
			Tags:         p.Tags,
			CreatedAt:    p.CreatedAt,
			QualityRatio: ranking.QualityRatio(st.OP, st.Total),
		}
	}
	return candidates
}
