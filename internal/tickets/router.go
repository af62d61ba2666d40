package tickets

import (
	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/middleware"
)

// SetupTicketRoutes mounts ticket routes under /events/:id/tickets. auth must attach a session.
func SetupTicketRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc, limit gin.HandlerFunc) {
	public := router.Group("/events/:id/tickets")
	{
		public.GET("", controller.ListTicketTypes) // GET /api/v1/events/:id/tickets
		public.POST("/quote", controller.Quote)    // POST /api/v1/events/:id/tickets/quote
	}

	protected := router.Group("/events/:id/tickets")
	protected.Use(auth)
	{
		protected.POST("/purchase", limit, middleware.RejectDemo(), controller.Purchase) // POST /api/v1/events/:id/tickets/purchase
		protected.PATCH("/:ticketTypeId", controller.SetActive)                          // PATCH /api/v1/events/:id/tickets/:ticketTypeId
	}

	me := router.Group("/users/me")
	me.Use(auth)
	{
		me.GET("/purchases", controller.ListMyPurchases) // GET /api/v1/users/me/purchases
	}
}
