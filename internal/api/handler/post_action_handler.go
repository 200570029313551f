package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type PostActionHandler struct {
	actionSvc service.PostActionService
}

func NewPostActionHandler(actionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		actionSvc: actionSvc,
	}
}

// TrackView records a view. Anonymous calls succeed without being stored.
func (s *PostActionHandler) TrackView(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.actionSvc.TrackPostView(c.Request.Context(), c.GetUint64("user_id"), postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleBookmark flips the caller's bookmark on a post and returns the new state.
func (s *PostActionHandler) ToggleBookmark(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := s.actionSvc.ToggleBookmark(c.Request.Context(), c.GetUint64("user_id"), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

func (s *PostActionHandler) GetBookmarks(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page, err := s.actionSvc.GetBookmarkedPosts(c.Request.Context(), c.GetUint64("user_id"), query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
