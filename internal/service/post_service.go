package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/moderation"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"slices"
	"strings"
	"time"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, userID uint64, postID uint64, req *dto.UpdatePostDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID uint64, roles []string, postID uint64) error
}

type postServiceImpl struct {
	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo
	stats      PostStatsService
	checker    moderation.Checker
}

func NewPostService(
	postRepo repository.PostRepo,
	actionRepo repository.PostActionRepo,
	stats PostStatsService,
	checker moderation.Checker,
) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		actionRepo: actionRepo,
		stats:      stats,
		checker:    checker,
	}
}

// CreatePost screens the text before anything is written; an unreachable classifier rejects the write.
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}
	if err := s.moderate(ctx, req.Title, req.Content); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:  userID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Status:  req.Status,
		Topic:   normalizeTopic(req.Topic),
		Tags:    util.ParseTags(req.Tags),
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", userID, "status", post.Status)
	return s.detail(ctx, userID, post.ID)
}

// GetPost hides drafts from everyone but their author and records a view for signed-in readers.
func (s *postServiceImpl) GetPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || (post.Status != consts.PostStatusPublished && post.UserID != viewerID) {
		return nil, ErrPostNotFound
	}

	if viewerID != 0 {
		err = s.actionRepo.UpsertInteraction(ctx, &model.Interaction{
			UserID:          viewerID,
			PostID:          postID,
			InteractionType: model.InteractionView,
			InteractedAt:    time.Now(),
		})
		if err != nil {
			log.WarnContext(ctx, "record view failed", "post_id", postID, "user_id", viewerID, "err", err)
		}
	}

	items, err := s.stats.BuildPostDTOs(ctx, viewerID, []*model.Post{post}, nil)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, userID uint64, postID uint64, req *dto.UpdatePostDTO) (*dto.PostDTO, error) {
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != userID {
		return nil, UnauthorizedError
	}

	textChanged := false
	if req.Title != nil && *req.Title != post.Title {
		post.Title = strings.TrimSpace(*req.Title)
		textChanged = true
	}
	if req.Content != nil && *req.Content != post.Content {
		post.Content = *req.Content
		textChanged = true
	}
	if req.Topic != nil {
		post.Topic = normalizeTopic(*req.Topic)
	}
	if req.Tags != nil {
		post.Tags = util.ParseTags(*req.Tags)
	}
	if req.Status != nil {
		post.Status = *req.Status
	}

	if textChanged {
		if err = s.moderate(ctx, post.Title, post.Content); err != nil {
			return nil, err
		}
	}

	if err = s.postRepo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.detail(ctx, userID, postID)
}

// DeletePost is allowed for the author and for moderators. Comments, interactions and bookmarks go with it.
func (s *postServiceImpl) DeletePost(ctx context.Context, userID uint64, roles []string, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID && !isModerator(roles) {
		return UnauthorizedError
	}

	if err = s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.stats.InvalidateCommentStats(ctx, postID)

	log.InfoContext(ctx, "post deleted", "post_id", postID, "by", userID)
	return nil
}

func (s *postServiceImpl) detail(ctx context.Context, viewerID, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	items, err := s.stats.BuildPostDTOs(ctx, viewerID, []*model.Post{post}, nil)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *postServiceImpl) moderate(ctx context.Context, title, content string) error {
	return screen(ctx, s.checker, title+" "+content, ErrPostRejected)
}

// screen runs the classifier and maps its outcome onto service errors.
func screen(ctx context.Context, checker moderation.Checker, text string, rejected error) error {
	verdict, err := checker.Check(ctx, text)
	if err != nil {
		log.WarnContext(ctx, "write refused, moderation unavailable", "err", err)
		return ErrModerationUnavailable
	}
	if verdict.IsToxic {
		reason := strings.TrimSpace(verdict.Reason)
		if reason == "" {
			reason = "content flagged as toxic"
		}
		log.InfoContext(ctx, "content rejected by moderation", "reason", reason, "score", verdict.Score)
		return fmt.Errorf("%w: %s.", rejected, strings.TrimSuffix(reason, "."))
	}
	return nil
}

func normalizeTopic(topic string) string {
	code := strings.ToUpper(strings.TrimSpace(topic))
	if !util.IsValidTopic(code) {
		return consts.DefaultTopic
	}
	return code
}

func isModerator(roles []string) bool {
	return slices.Contains(roles, consts.RoleModerator) || slices.Contains(roles, consts.RoleAdmin)
}
