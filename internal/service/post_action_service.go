package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
	"time"
)

type PostActionService interface {
	TrackPostView(ctx context.Context, userID, postID uint64) error
	ToggleBookmark(ctx context.Context, userID, postID uint64) (*dto.BookmarkStateDTO, error)
	GetBookmarkedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostPageDTO, error)
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
	stats      PostStatsService
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	stats PostStatsService,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
		stats:      stats,
	}
}

// TrackPostView records (or refreshes) a VIEW interaction. Anonymous views are ignored.
func (s *postActionServiceImpl) TrackPostView(ctx context.Context, userID, postID uint64) error {
	if userID == 0 {
		return nil
	}
	if err := s.getPostCheck(ctx, userID, postID); err != nil {
		return err
	}
	return s.actionRepo.UpsertInteraction(ctx, &model.Interaction{
		UserID:          userID,
		PostID:          postID,
		InteractionType: model.InteractionView,
		InteractedAt:    time.Now(),
	})
}

func (s *postActionServiceImpl) ToggleBookmark(ctx context.Context, userID, postID uint64) (*dto.BookmarkStateDTO, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if err := s.getPostCheck(ctx, userID, postID); err != nil {
		return nil, err
	}

	bookmarked, err := s.actionRepo.ToggleBookmark(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	log.DebugContext(ctx, "bookmark toggled", "user_id", userID, "post_id", postID, "bookmarked", bookmarked)
	return &dto.BookmarkStateDTO{PostID: postID, Bookmarked: bookmarked}, nil
}

// GetBookmarkedPosts lists bookmarked posts, most recently bookmarked first.
// Posts that became invisible to the reader are skipped.
func (s *postActionServiceImpl) GetBookmarkedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostPageDTO, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	ids, total, err := s.actionRepo.GetBookmarkedPostIDs(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetPostByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || (p.Status != consts.PostStatusPublished && p.UserID != userID) {
			continue
		}
		ordered = append(ordered, p)
	}

	items, err := s.stats.BuildPostDTOs(ctx, userID, ordered, nil)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *postActionServiceImpl) getPostCheck(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil || (post.Status != consts.PostStatusPublished && post.UserID != userID) {
		return ErrPostNotFound
	}
	return nil
}
