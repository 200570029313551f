package repository

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"context"

	"gorm.io/gorm"
)

type TagRepo interface {
	GetPublishedTagLists(ctx context.Context) ([]model.TagList, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepo {
	return &tagRepoImpl{
		db: db,
	}
}

// GetPublishedTagLists returns the raw tag column of every published post that has tags.
func (s *tagRepoImpl) GetPublishedTagLists(ctx context.Context) ([]model.TagList, error) {
	lists := make([]model.TagList, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("status = ? AND tags <> ''", consts.PostStatusPublished).
		Pluck("tags", &lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}
