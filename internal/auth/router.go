package auth

import (
	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/middleware"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	group := router.Group("/auth")
	{
		group.POST("/register", controller.Register)    // POST /api/v1/auth/register
		group.POST("/login", controller.Login)          // POST /api/v1/auth/login
		group.POST("/refresh", controller.RefreshToken) // POST /api/v1/auth/refresh
		group.POST("/logout", controller.Logout)        // POST /api/v1/auth/logout
		group.PUT("/change-password", auth, middleware.RejectDemo(), controller.ChangePassword)
	}
}
