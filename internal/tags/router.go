package tags

import (
	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/middleware"
)

func SetupTagRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	// Public routes
	publicTags := router.Group("/tags")
	{
		publicTags.GET("/active", controller.GetActiveTags)    // GET /api/v1/tags/active
		publicTags.GET("/slug/:slug", controller.GetTagBySlug) // GET /api/v1/tags/slug/:slug
	}

	// Admin routes
	adminTags := router.Group("/admin/tags")
	adminTags.Use(auth, middleware.RequireAdmin())
	{
		adminTags.POST("", controller.CreateTag)      // POST /api/v1/admin/tags
		adminTags.PATCH("/:id", controller.UpdateTag) // PATCH /api/v1/admin/tags/:id
	}
}
