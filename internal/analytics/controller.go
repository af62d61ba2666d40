package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
	"dhukuti/pkg/logger"
)

type Controller interface {
	GetDashboardStats(c *gin.Context)
	GetUserStats(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// GetDashboardStats godoc
// @Summary Dashboard totals for the current user
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /dashboard/stats [get]
func (ctrl *controller) GetDashboardStats(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	stats, err := ctrl.service.GetDashboardStats(c.Request.Context(), sess.UserID)
	if err != nil {
		logger.GetDefault().WithError(err).Error("failed to load dashboard stats")
		response.Error(c, http.StatusInternalServerError, "Failed to fetch dashboard stats", nil)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetUserStats godoc
// @Summary Profile totals for the current user
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /users/me/stats [get]
func (ctrl *controller) GetUserStats(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	stats, err := ctrl.service.GetUserStats(c.Request.Context(), sess.UserID)
	if err != nil {
		logger.GetDefault().WithError(err).Error("failed to load user stats")
		response.Error(c, http.StatusInternalServerError, "Failed to fetch user stats", nil)
		return
	}

	response.Success(c, http.StatusOK, "User stats retrieved successfully", stats)
}
