package repository

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Search   string
	Topic    string
	AuthorID uint64
	// ViewerID sees their own drafts when AuthorID == ViewerID.
	ViewerID uint64
	Limit    int
	Offset   int
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id uint64) error
	ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, int64, error)
	ListPublishedCandidates(ctx context.Context, limit int, exclude []uint64) ([]*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// GetPost returns (nil, nil) when the post does not exist.
func (s PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Preload("User.Profile").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	if len(ids) == 0 {
		return posts, nil
	}
	err := s.db.WithContext(ctx).Preload("User.Profile").Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Model(post).
		Select("title", "content", "status", "topic", "tags").
		Updates(post).Error
}

// DeletePost removes the post together with its comments, interactions and bookmarks.
func (s PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

// ListPosts returns one page of posts newest first plus the total match count.
func (s PostRepoImpl) ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Post{})

	if filter.AuthorID != 0 {
		query = query.Where("user_id = ?", filter.AuthorID)
	}
	if filter.AuthorID == 0 || filter.AuthorID != filter.ViewerID {
		query = query.Where("status = ?", consts.PostStatusPublished)
	}
	if filter.Topic != "" {
		query = query.Where("topic = ?", strings.ToUpper(filter.Topic))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!' OR LOWER(tags) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]*model.Post, 0)
	query = query.Preload("User.Profile").Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPublishedCandidates loads the newest published posts as ranking input. limit <= 0 loads all.
// Excluded ids are dropped before the limit applies.
func (s PostRepoImpl) ListPublishedCandidates(ctx context.Context, limit int, exclude []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	query := s.db.WithContext(ctx).
		Preload("User.Profile").
		Where("status = ?", consts.PostStatusPublished).
		Order("created_at DESC").
		Order("id DESC")
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
