package events

import (
	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/middleware"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	// Public routes - anyone can browse events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents) // GET /api/v1/events
		publicEvents.GET("/:id", controller.GetEvent) // GET /api/v1/events/:id
	}

	// Any signed-in, non-demo user can organize an event
	protected := router.Group("/events")
	protected.Use(auth, middleware.RejectDemo())
	{
		protected.POST("", controller.CreateEvent) // POST /api/v1/events
	}
}
