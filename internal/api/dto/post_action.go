package dto

// CommentCreateDTO proposes a root comment (parent omitted or 0) or a reply.
type CommentCreateDTO struct {
	PostID   uint64 `json:"post" binding:"required"`
	Text     string `json:"text" binding:"required" validate:"min=1,max=1000"`
	ParentID uint64 `json:"parent"`
}

type BookmarkStateDTO struct {
	PostID     uint64 `json:"post_id"`
	Bookmarked bool   `json:"bookmarked"`
}

type TagCountDTO struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type PageQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}
