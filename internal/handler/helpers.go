package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/middleware"
	"github.com/databridge/databridge/internal/pkg/errcode"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
	"github.com/databridge/databridge/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func getEmail(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextEmailKey)
	email, _ := value.(string)
	return email
}

// isInputError separates caller mistakes from pipeline failures so handlers
// can report the latter with an operation-specific code.
func isInputError(err error) bool {
	return errors.Is(err, appErr.ErrInvalid) ||
		errors.Is(err, appErr.ErrForbidden) ||
		errors.Is(err, appErr.ErrNotFound) ||
		errors.Is(err, appErr.ErrUnauthorized)
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrUpstream):
		response.Error(c, errcode.ErrUpstream, "upstream service failed")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
