package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/databridge/databridge/internal/pkg/errcode"
	"github.com/databridge/databridge/internal/pkg/response"
	"github.com/databridge/databridge/internal/service"
)

type BusinessHandler struct {
	businesses *service.BusinessService
}

func NewBusinessHandler(businesses *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businesses: businesses}
}

type upsertBusinessRequest struct {
	BusinessName string `json:"business_name"`
	Location     string `json:"location"`
	Industry     string `json:"industry"`
	Website      string `json:"website"`
}

func (h *BusinessHandler) Upsert(c *gin.Context) {
	var req upsertBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.BusinessName == "" {
		response.Error(c, errcode.ErrInvalid, "business_name required")
		return
	}
	profile, err := h.businesses.CreateOrUpdate(c.Request.Context(), getUserID(c), service.UpsertBusinessInput{
		BusinessName: req.BusinessName,
		Location:     req.Location,
		Industry:     req.Industry,
		Website:      req.Website,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *BusinessHandler) GetReport(c *gin.Context) {
	report, err := h.businesses.GetReport(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, report)
}
