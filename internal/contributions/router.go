package contributions

import (
	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/middleware"
)

func SetupContributionRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	contributions := router.Group("/contributions")
	contributions.Use(auth)
	{
		contributions.GET("", controller.ListContributions) // GET /api/v1/contributions?groupId=&status=

		contributions.POST("", middleware.RejectDemo(), controller.CreateContribution)      // POST /api/v1/contributions
		contributions.POST("/:id/pay", middleware.RejectDemo(), controller.PayContribution) // POST /api/v1/contributions/:id/pay
	}
}
