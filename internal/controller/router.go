package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter собирает HTTP-маршруты движка бронирования
func NewRouter(env string, bookingHandler *BookingHandler, lessonHandler *LessonHandler) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/quotes", bookingHandler.Quote)
		api.POST("/bookings", bookingHandler.Confirm)

		api.GET("/teachers/:id/package-quote", bookingHandler.PackageQuote)
		api.GET("/teachers/:id/group-quote", bookingHandler.GroupQuote)

		api.GET("/lessons", lessonHandler.List)
		api.GET("/lessons/:id", lessonHandler.Get)
		api.POST("/lessons/:id/complete", lessonHandler.Complete)
		api.POST("/lessons/:id/cancel", lessonHandler.Cancel)
		api.POST("/lessons/:id/reschedule", lessonHandler.Reschedule)
		api.POST("/lessons/:id/absence", lessonHandler.ReportAbsence)
	}

	return router
}
