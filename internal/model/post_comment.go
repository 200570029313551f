package model

import (
	"time"
)

type PostComment struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;index:idx_comment_post" json:"postId"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	ParentID  uint64    `gorm:"not null;default:0;index:idx_comment_parent" json:"parentId"` // 0 marks a root comment
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (PostComment) TableName() string {
	return "post_comments"
}

func (c *PostComment) IsRoot() bool {
	return c.ParentID == 0
}
