package dto

type CreatePostDTO struct {
	Title   string `json:"title" binding:"required" validate:"min=1,max=200"`
	Content string `json:"content" binding:"required" validate:"min=1"`
	Topic   string `json:"topic" validate:"omitempty,topic"`
	Tags    string `json:"tags" validate:"max=255"` // comma separated, '#' optional
	Status  int8   `json:"status" validate:"oneof=0 1"`
}

type UpdatePostDTO struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Topic   *string `json:"topic" validate:"omitempty,topic"`
	Tags    *string `json:"tags" validate:"omitempty,max=255"`
	Status  *int8   `json:"status" validate:"omitempty,oneof=0 1"`
}

type PostListQuery struct {
	Search   string `form:"search"`
	Topic    string `form:"topic" validate:"omitempty,topic"`
	Author   string `form:"author"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// Filtered reports whether the query bypasses personalization.
func (q *PostListQuery) Filtered() bool {
	return q.Search != "" || q.Topic != "" || q.Author != ""
}

type PostDTO struct {
	// Post
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ContentHTML string   `json:"content_html"`
	Excerpt     string   `json:"excerpt"`
	Status      int8     `json:"status"`
	Topic       string   `json:"topic"`
	TopicName   string   `json:"topic_name"`
	Tags        []string `json:"tags" copier:"-"`
	CreatedAt   string   `json:"date_posted" copier:"-"`
	UpdatedAt   string   `json:"updated_at" copier:"-"`

	// User
	UserID      uint64  `json:"author_id"`
	Author      string  `json:"author"`
	AuthorImage *string `json:"author_image"`

	// Stats
	Views         int64   `json:"views"`
	TotalComments int64   `json:"total_comments"`
	OPReplies     int64   `json:"op_replies"`
	QualityRatio  float64 `json:"quality_ratio"`
	Relevance     int     `json:"relevance"`
	IsBookmarked  bool    `json:"is_bookmarked"`
}

type PostPageDTO struct {
	Items    []*PostDTO `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}
