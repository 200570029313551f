package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

// GetThread renders the two-level thread of a post.
func (s *CommentHandler) GetThread(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	roots, err := s.commentSvc.RenderThread(c.Request.Context(), c.GetUint64("user_id"), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, roots)
}

// CreateComment proposes a comment; the response carries the stored, rendered comment.
func (s *CommentHandler) CreateComment(c *gin.Context) {
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	view, err := s.commentSvc.ProposeComment(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.commentSvc.DeleteComment(c.Request.Context(), c.GetUint64("user_id"), c.GetStringSlice("roles"), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
