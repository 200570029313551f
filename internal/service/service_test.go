package service

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/database"
	"Inkwell/internal/pkg/moderation"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

type fakeChecker struct {
	mu      sync.Mutex
	verdict moderation.Verdict
	err     error
	seen    []string
}

func (f *fakeChecker) Check(_ context.Context, content string) (*moderation.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, content)
	if f.err != nil {
		return nil, f.err
	}
	v := f.verdict
	return &v, nil
}

func (f *fakeChecker) toxic(reason string) {
	f.verdict = moderation.Verdict{IsToxic: true, Reason: reason, Score: 0.97}
}

func (f *fakeChecker) down() {
	f.err = errors.Join(moderation.ErrUnavailable, errors.New("timeout"))
}

type env struct {
	db      *gorm.DB
	mr      *miniredis.Miniredis
	checker *fakeChecker

	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo

	stats     PostStatsService
	interests InterestService
	feed      FeedService
	posts     PostService
	comments  CommentService
	actions   PostActionService
	explore   ExploreService
	users     UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	redis.SetClient(redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { redis.SetClient(nil) })

	cfg := config.FeedConfig{PageSize: 20, FeedWindow: 20, RecommendWindow: 50, RecommendLimit: 10, ExploreTagLimit: 10}
	checker := &fakeChecker{}

	postRepo := repository.NewPostRepository(db)
	actionRepo := repository.NewPostActionRepo(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepo(db)
	interestRepo := repository.NewUserInterestRepository(db)
	metricRepo := repository.NewPostMetricRepository(db)
	tagRepo := repository.NewTagRepository(db)

	stats := NewPostStatsService(metricRepo, actionRepo, time.Hour)
	interests := NewInterestService(interestRepo, actionRepo)

	return &env{
		db:         db,
		mr:         mr,
		checker:    checker,
		postRepo:   postRepo,
		actionRepo: actionRepo,
		stats:      stats,
		interests:  interests,
		feed:       NewFeedService(postRepo, userRepo, interests, stats, cfg),
		posts:      NewPostService(postRepo, actionRepo, stats, checker),
		comments:   NewCommentService(commentRepo, postRepo, userRepo, actionRepo, stats, checker),
		actions:    NewPostActionService(actionRepo, postRepo, stats),
		explore:    NewExploreService(tagRepo, cfg.ExploreTagLimit),
		users:      NewUserService(userRepo, interestRepo),
	}
}

func (e *env) user(t *testing.T, id uint64, name string, interests string) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.User{
		ID:       id,
		Username: name,
		Profile:  model.UserProfile{UserID: id, Interests: interests},
	}).Error)
}

func (e *env) post(t *testing.T, id, author uint64, topic string, tags []string, at time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.Post{
		ID:        id,
		UserID:    author,
		Title:     "post",
		Content:   "body",
		Status:    consts.PostStatusPublished,
		Topic:     topic,
		Tags:      tags,
		CreatedAt: at,
	}).Error)
}

func (e *env) comment(t *testing.T, id, postID, author, parent uint64, at time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.PostComment{
		ID:        id,
		PostID:    postID,
		UserID:    author,
		Content:   "c",
		ParentID:  parent,
		CreatedAt: at,
	}).Error)
}

func (e *env) view(t *testing.T, userID, postID uint64, at time.Time) {
	t.Helper()
	require.NoError(t, e.actionRepo.UpsertInteraction(context.Background(), &model.Interaction{
		UserID:          userID,
		PostID:          postID,
		InteractionType: model.InteractionView,
		InteractedAt:    at,
	}))
}
