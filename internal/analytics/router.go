package analytics

import "github.com/gin-gonic/gin"

func SetupAnalyticsRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	dashboard := router.Group("/dashboard")
	dashboard.Use(auth)
	dashboard.GET("/stats", controller.GetDashboardStats) // GET /api/v1/dashboard/stats

	users := router.Group("/users")
	users.Use(auth)
	users.GET("/me/stats", controller.GetUserStats) // GET /api/v1/users/me/stats
}
