package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/databridge/databridge/internal/pkg/errcode"
	"github.com/databridge/databridge/internal/pkg/response"
	"github.com/databridge/databridge/internal/service"
)

type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type syncEventsRequest struct {
	Location string `json:"location"`
}

// Sync pulls the current month's local events for the user in the path. The
// path uid must match the token subject.
func (h *EventHandler) Sync(c *gin.Context) {
	pathUID := c.Param("userId")
	if pathUID != getUserID(c) {
		response.Error(c, errcode.ErrForbidden, "user mismatch")
		return
	}
	var req syncEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	count, err := h.events.Sync(c.Request.Context(), pathUID, req.Location)
	if err != nil {
		if isInputError(err) {
			handleError(c, err)
			return
		}
		response.Error(c, errcode.ErrEventSync, "event sync failed")
		return
	}
	response.Success(c, gin.H{
		"success":     true,
		"message":     fmt.Sprintf("synced %d events", count),
		"eventsCount": count,
	})
}

func (h *EventHandler) ListMonth(c *gin.Context) {
	pathUID := c.Param("userId")
	if pathUID != getUserID(c) {
		response.Error(c, errcode.ErrForbidden, "user mismatch")
		return
	}
	items, err := h.events.ListMonth(c.Request.Context(), pathUID, c.Query("month"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"events": items})
}
