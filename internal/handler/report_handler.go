package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/databridge/databridge/internal/pkg/errcode"
	"github.com/databridge/databridge/internal/pkg/response"
	"github.com/databridge/databridge/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type generateReportRequest struct {
	UserID        string   `json:"userId"`
	Email         string   `json:"email"`
	SearchQueries []string `json:"searchQueries"`
	URLs          []string `json:"urls"`
	Location      string   `json:"location"`
	BusinessName  string   `json:"businessName"`
}

// Generate runs the report pipeline for the authenticated user. The request
// body names the target user; it must match the token subject.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	uid := getUserID(c)
	if req.UserID != "" && req.UserID != uid {
		response.Error(c, errcode.ErrForbidden, "user mismatch")
		return
	}
	report, generated, err := h.reports.Generate(c.Request.Context(), service.GenerateReportInput{
		UserID:        uid,
		Email:         req.Email,
		SearchQueries: req.SearchQueries,
		URLs:          req.URLs,
		Location:      req.Location,
		BusinessName:  req.BusinessName,
	})
	if err != nil {
		if isInputError(err) {
			handleError(c, err)
			return
		}
		response.Error(c, errcode.ErrReportGeneration, "report generation failed")
		return
	}
	response.Success(c, gin.H{
		"success":   true,
		"reportId":  report.ID,
		"cached":    !generated,
		"validTill": report.ValidUntil,
	})
}
