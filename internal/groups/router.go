package groups

import (
	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/middleware"
)

func SetupGroupRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	groups := router.Group("/groups")
	groups.Use(auth)
	{
		groups.POST("", middleware.RejectDemo(), controller.CreateGroup)        // POST /api/v1/groups
		groups.GET("", controller.ListGroups)                                   // GET /api/v1/groups?page=1&limit=10
		groups.GET("/:id", controller.GetGroup)                                 // GET /api/v1/groups/:id
		groups.POST("/:id/join", middleware.RejectDemo(), controller.JoinGroup) // POST /api/v1/groups/:id/join
	}
}
