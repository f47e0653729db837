package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/databridge/databridge/internal/middleware"
)

type RouterDeps struct {
	Businesses *BusinessHandler
	Reports    *ReportHandler
	Searches   *SearchHandler
	Events     *EventHandler
	Posts      *PostHandler
	JWTSecret  []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/posts", deps.Posts.List)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/business", deps.Businesses.Upsert)
	authGroup.GET("/business/report", deps.Businesses.GetReport)

	generateGroup := authGroup.Group("")
	generateGroup.Use(middleware.RateLimit(5 * time.Second))
	generateGroup.POST("/generate-report", deps.Reports.Generate)

	authGroup.POST("/search", deps.Searches.Run)
	authGroup.POST("/search/batch", deps.Searches.Batch)

	authGroup.POST("/events/:userId", deps.Events.Sync)
	authGroup.GET("/events/:userId", deps.Events.ListMonth)
}
