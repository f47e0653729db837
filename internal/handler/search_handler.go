package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/databridge/databridge/internal/pkg/errcode"
	"github.com/databridge/databridge/internal/pkg/response"
	"github.com/databridge/databridge/internal/service"
)

type SearchHandler struct {
	searches *service.SearchService
}

func NewSearchHandler(searches *service.SearchService) *SearchHandler {
	return &SearchHandler{searches: searches}
}

type searchRequest struct {
	Queries    []string `json:"queries"`
	NumResults int      `json:"numResults"`
}

type batchSearchRequest struct {
	Queries            []string `json:"queries"`
	NumResultsPerQuery int      `json:"numResultsPerQuery"`
}

func (h *SearchHandler) Run(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	results, err := h.searches.Run(c.Request.Context(), getUserID(c), req.Queries, req.NumResults)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"results": results})
}

func (h *SearchHandler) Batch(c *gin.Context) {
	var req batchSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.searches.Batch(c.Request.Context(), req.Queries, req.NumResultsPerQuery)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
