package activity

import (
	"github.com/gin-gonic/gin"
)

func SetupActivityRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	activities := router.Group("/activities")
	activities.Use(auth)
	{
		activities.GET("", controller.GetFeed) // GET /api/v1/activities?groupId=&eventId=&limit=
	}
}
