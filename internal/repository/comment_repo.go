package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.PostComment) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
	GetCommentsByPostID(ctx context.Context, postID uint64) ([]*model.PostComment, error)
	DeleteComment(ctx context.Context, commentID uint64) (int64, error)
}

type commentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepo {
	return &commentRepoImpl{db: db}
}

func (s *commentRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID returns (nil, nil) when the comment does not exist.
func (s *commentRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := s.db.WithContext(ctx).First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID loads every comment of a post with its author, in insertion order.
func (s *commentRepoImpl) GetCommentsByPostID(ctx context.Context, postID uint64) ([]*model.PostComment, error) {
	comments := make([]*model.PostComment, 0)
	err := s.db.WithContext(ctx).
		Preload("User.Profile").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a comment and, for a root, every reply under it.
func (s *commentRepoImpl) DeleteComment(ctx context.Context, commentID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? OR parent_id = ?", commentID, commentID).
		Delete(&model.PostComment{})
	return result.RowsAffected, result.Error
}
