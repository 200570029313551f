package model

import (
	"time"
)

const (
	InteractionView    = "VIEW"
	InteractionComment = "COMMENT"
)

// Interaction holds at most one row per (user, post, type); repeats only move InteractedAt.
type Interaction struct {
	ID              uint64    `gorm:"primaryKey"`
	UserID          uint64    `gorm:"not null;uniqueIndex:uk_user_post_type,priority:1;index:idx_user_interacted,priority:1" json:"userId"`
	PostID          uint64    `gorm:"not null;uniqueIndex:uk_user_post_type,priority:2;index:idx_interaction_post" json:"postId"`
	InteractionType string    `gorm:"type:varchar(10);not null;uniqueIndex:uk_user_post_type,priority:3" json:"interactionType"`
	InteractedAt    time.Time `gorm:"not null;index:idx_user_interacted,priority:2" json:"interactedAt"`

	Post Post `gorm:"foreignKey:PostID;references:ID"`
}

func (Interaction) TableName() string {
	return "interactions"
}
