package repository

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostActionRepo interface {
	UpsertInteraction(ctx context.Context, interaction *model.Interaction) error
	GetRecentInteractions(ctx context.Context, userID uint64, limit int) ([]*model.Interaction, error)

	ToggleBookmark(ctx context.Context, userID, postID uint64) (bool, error)
	GetBookmarkedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, int64, error)
	GetBookmarkedSet(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

// UpsertInteraction keeps one row per (user, post, type); a repeat only moves interacted_at forward,
// so concurrent writers settle on the newest timestamp.
func (s *PostActionRepoImpl) UpsertInteraction(ctx context.Context, interaction *model.Interaction) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}, {Name: "interaction_type"}},
		DoUpdates: clause.Set{{Column: clause.Column{Name: "interacted_at"}, Value: s.latestInteractedAt()}},
	}).Create(interaction).Error
}

func (s *PostActionRepoImpl) latestInteractedAt() clause.Expr {
	if s.db.Dialector.Name() == "mysql" {
		return gorm.Expr("GREATEST(interacted_at, VALUES(interacted_at))")
	}
	return gorm.Expr("MAX(interacted_at, excluded.interacted_at)")
}

// GetRecentInteractions returns the user's newest interactions with their posts attached.
func (s *PostActionRepoImpl) GetRecentInteractions(ctx context.Context, userID uint64, limit int) ([]*model.Interaction, error) {
	interactions := make([]*model.Interaction, 0)
	err := s.db.WithContext(ctx).
		Preload("Post").
		Where("user_id = ?", userID).
		Order("interacted_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

// ToggleBookmark flips the bookmark and reports whether it now exists.
func (s *PostActionRepoImpl) ToggleBookmark(ctx context.Context, userID, postID uint64) (bool, error) {
	bookmarked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Bookmark{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		bookmarked = true
		err := tx.Create(&model.Bookmark{UserID: userID, PostID: postID}).Error
		if isDuplicateError(err) {
			// a concurrent toggle inserted it first
			return nil
		}
		return err
	})
	return bookmarked, err
}

// GetBookmarkedPostIDs pages the user's bookmarks on posts they can still see, newest first,
// together with the total count of such bookmarks.
func (s *PostActionRepoImpl) GetBookmarkedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, int64, error) {
	visible := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&model.Bookmark{}).
			Joins("JOIN posts ON posts.id = bookmarks.post_id").
			Where("bookmarks.user_id = ?", userID).
			Where("(posts.status = ? OR posts.user_id = ?)", consts.PostStatusPublished, userID)
	}

	var total int64
	if err := visible().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []uint64{}, 0, nil
	}

	var ids []uint64
	err := visible().
		Order("bookmarks.created_at DESC").
		Order("bookmarks.post_id DESC").
		Limit(limit).
		Offset(offset).
		Pluck("bookmarks.post_id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

func (s *PostActionRepoImpl) GetBookmarkedSet(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool)
	if userID == 0 || len(postIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
