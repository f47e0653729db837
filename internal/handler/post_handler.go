package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/databridge/databridge/internal/pkg/response"
	"github.com/databridge/databridge/internal/service"
)

type PostHandler struct {
	feed *service.FeedService
}

func NewPostHandler(feed *service.FeedService) *PostHandler {
	return &PostHandler{feed: feed}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.feed.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts})
}
