package repository

import (
	"Inkwell/internal/model"
	"context"

	"gorm.io/gorm"
)

// CommentStats carries the numbers behind a post's quality ratio.
type CommentStats struct {
	Total int64 `json:"total"`
	OP    int64 `json:"op"`
}

type PostMetricRepo interface {
	GetCommentStats(ctx context.Context, postIDs []uint64) (map[uint64]CommentStats, error)
	GetViewCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
}

type postMetricRepoImpl struct {
	db *gorm.DB
}

func NewPostMetricRepository(db *gorm.DB) PostMetricRepo {
	return &postMetricRepoImpl{db: db}
}

// GetCommentStats counts all comments and those written by the post author, per post.
// Posts without comments are absent from the result.
func (r *postMetricRepoImpl) GetCommentStats(ctx context.Context, postIDs []uint64) (map[uint64]CommentStats, error) {
	stats := make(map[uint64]CommentStats, len(postIDs))
	if len(postIDs) == 0 {
		return stats, nil
	}

	var rows []struct {
		PostID uint64
		Total  int64
		OP     int64
	}
	err := r.db.WithContext(ctx).
		Table("post_comments AS c").
		Select("c.post_id AS post_id, COUNT(*) AS total, SUM(CASE WHEN c.user_id = p.user_id THEN 1 ELSE 0 END) AS op").
		Joins("JOIN posts AS p ON p.id = c.post_id").
		Where("c.post_id IN ?", postIDs).
		Group("c.post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.PostID] = CommentStats{Total: row.Total, OP: row.OP}
	}
	return stats, nil
}

// GetViewCounts counts distinct viewers per post.
func (r *postMetricRepoImpl) GetViewCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint64
		Views  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Interaction{}).
		Select("post_id, COUNT(*) AS views").
		Where("interaction_type = ? AND post_id IN ?", model.InteractionView, postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PostID] = row.Views
	}
	return counts, nil
}
