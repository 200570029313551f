package handler

import (
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type ExploreHandler struct {
	exploreSvc service.ExploreService
}

func NewExploreHandler(exploreSvc service.ExploreService) *ExploreHandler {
	return &ExploreHandler{exploreSvc: exploreSvc}
}

func (s *ExploreHandler) TopTags(c *gin.Context) {
	tags, err := s.exploreSvc.TopTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

// RefreshTopTags recomputes the explore ranking ahead of the scheduled job.
func (s *ExploreHandler) RefreshTopTags(c *gin.Context) {
	tags, err := s.exploreSvc.RefreshTopTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}
