package model

import (
	"time"
)

type Post struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index:idx_post_user" json:"user_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Status    int8      `gorm:"not null;default:0;index:idx_status_created,priority:1" json:"status"` // 0:draft, 1:published
	Topic     string    `gorm:"type:varchar(4);not null;default:'LIFE'" json:"topic"`
	Tags      TagList   `gorm:"type:varchar(255);not null;default:''" json:"tags"`
	CreatedAt time.Time `gorm:"index:idx_status_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Post) TableName() string {
	return "posts"
}
