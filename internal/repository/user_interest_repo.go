package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserInterestRepo interface {
	SaveUserInterests(ctx context.Context, userID uint64, interests string) error
	GetUserProfile(ctx context.Context, userID uint64) (*model.UserProfile, error)
}

type userInterestRepoImpl struct {
	db *gorm.DB
}

func NewUserInterestRepository(db *gorm.DB) UserInterestRepo {
	return &userInterestRepoImpl{db: db}
}

// SaveUserInterests writes the explicit topic list, creating the profile row if needed.
func (r *userInterestRepoImpl) SaveUserInterests(ctx context.Context, userID uint64, interests string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"interests"}),
	}).Create(&model.UserProfile{UserID: userID, Interests: interests}).Error
}

// GetUserProfile returns (nil, nil) for a user without a profile row.
func (r *userInterestRepoImpl) GetUserProfile(ctx context.Context, userID uint64) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}
