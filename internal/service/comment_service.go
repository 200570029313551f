package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/markdown"
	"Inkwell/internal/pkg/metrics"
	"Inkwell/internal/pkg/moderation"
	"Inkwell/internal/pkg/thread"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// maxCommentRunes matches the post_comments.content column width.
const maxCommentRunes = 1000

type CommentService interface {
	ProposeComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*thread.View, error)
	RenderThread(ctx context.Context, viewerID uint64, postID uint64) ([]thread.RootView, error)
	DeleteComment(ctx context.Context, userID uint64, roles []string, commentID uint64) error
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
	actionRepo  repository.PostActionRepo
	stats       PostStatsService
	checker     moderation.Checker
}

func NewCommentService(
	commentRepo repository.CommentRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	actionRepo repository.PostActionRepo,
	stats PostStatsService,
	checker moderation.Checker,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		actionRepo:  actionRepo,
		stats:       stats,
		checker:     checker,
	}
}

// ProposeComment validates placement and content, then stores the comment under its thread root.
func (s *commentServiceImpl) ProposeComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*thread.View, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}

	text := strings.TrimSpace(markdown.StripTags(req.Text))
	if text == "" {
		return nil, fmt.Errorf("%w: empty comment", ErrParamInvalid)
	}
	if utf8.RuneCountInString(text) > maxCommentRunes {
		return nil, fmt.Errorf("%w: comment too long", ErrParamInvalid)
	}

	post, err := s.visiblePost(ctx, userID, req.PostID)
	if err != nil {
		return nil, err
	}

	placement, err := thread.Place(ctx, s.lookup, userID, post.ID, post.UserID, req.ParentID)
	if placement != nil && placement.Anomalous() {
		metrics.ThreadIntegrityWarningsTotal.Inc()
		log.WarnContext(ctx, "comment parent chain deeper than one level",
			"post_id", post.ID, "target_id", req.ParentID, "root_id", placement.ParentID, "hops", placement.Hops)
	}
	if err != nil {
		if rule := rejectionRule(err); rule != "" {
			metrics.CommentRejectionsTotal.WithLabelValues(rule).Inc()
		}
		return nil, err
	}

	if err = screen(ctx, s.checker, text, ErrCommentRejected); err != nil {
		if errors.Is(err, ErrCommentRejected) {
			metrics.CommentRejectionsTotal.WithLabelValues("toxic").Inc()
		}
		return nil, err
	}

	comment := &model.PostComment{
		PostID:   post.ID,
		UserID:   userID,
		Content:  text,
		ParentID: placement.ParentID,
	}
	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	err = s.actionRepo.UpsertInteraction(ctx, &model.Interaction{
		UserID:          userID,
		PostID:          post.ID,
		InteractionType: model.InteractionComment,
		InteractedAt:    time.Now(),
	})
	if err != nil {
		log.WarnContext(ctx, "record comment interaction failed", "post_id", post.ID, "user_id", userID, "err", err)
	}
	s.stats.InvalidateCommentStats(ctx, post.ID)

	author := thread.Author{ID: userID}
	if user, err := s.userRepo.GetUserById(ctx, userID); err == nil && user != nil {
		author = authorOf(user)
	}
	view := thread.Render(toThreadComment(comment, author))
	return &view, nil
}

// RenderThread returns the two level thread of a post.
func (s *commentServiceImpl) RenderThread(ctx context.Context, viewerID uint64, postID uint64) ([]thread.RootView, error) {
	if _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return nil, err
	}

	stored, err := s.commentRepo.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments := make([]thread.Comment, len(stored))
	for i, c := range stored {
		comments[i] = toThreadComment(c, authorOf(&c.User))
	}
	return thread.Build(comments), nil
}

// DeleteComment is allowed for the comment author and for moderators. Replies of a root go with it.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID uint64, roles []string, commentID uint64) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrPostCommentNotFound
	}
	if comment.UserID != userID && !isModerator(roles) {
		return UnauthorizedError
	}

	removed, err := s.commentRepo.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	s.stats.InvalidateCommentStats(ctx, comment.PostID)

	log.InfoContext(ctx, "comment deleted", "comment_id", commentID, "post_id", comment.PostID, "rows", removed, "by", userID)
	return nil
}

func (s *commentServiceImpl) visiblePost(ctx context.Context, viewerID, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || (post.Status != consts.PostStatusPublished && post.UserID != viewerID) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *commentServiceImpl) lookup(ctx context.Context, id uint64) (*thread.Node, error) {
	c, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return &thread.Node{ID: c.ID, PostID: c.PostID, AuthorID: c.UserID, ParentID: c.ParentID}, nil
}

func toThreadComment(c *model.PostComment, author thread.Author) thread.Comment {
	return thread.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Author:    author,
		Text:      c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func rejectionRule(err error) string {
	switch {
	case errors.Is(err, thread.ErrRestrictedThread):
		return "restricted_thread"
	case errors.Is(err, thread.ErrParentNotFound):
		return "parent_not_found"
	case errors.Is(err, thread.ErrParentMismatch):
		return "parent_mismatch"
	case errors.Is(err, thread.ErrBrokenThread):
		return "broken_thread"
	default:
		return ""
	}
}
