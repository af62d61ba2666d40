package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
	"dhukuti/pkg/logger"
)

type Controller struct {
	repo      Repository
	validator *validator.Validate
}

func NewController(repo Repository) *Controller {
	return &Controller{repo: repo, validator: validator.New()}
}

// GetMe godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /users/me [get]
func (ctrl *Controller) GetMe(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	user, err := ctrl.repo.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found", nil)
			return
		}
		logger.GetDefault().WithError(err).Error("failed to load current user")
		response.Error(c, http.StatusInternalServerError, "Failed to load user", nil)
		return
	}

	response.Success(c, http.StatusOK, "User retrieved successfully", user.ToResponse())
}

// UpdateMe godoc
// @Summary Update current user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /users/me [put]
func (ctrl *Controller) UpdateMe(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.trim()
	if err := ctrl.validator.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid profile details", err.Error())
		return
	}
	fields := req.changes()
	if fields == nil {
		response.Error(c, http.StatusBadRequest, "Nothing to update", nil)
		return
	}

	user, err := ctrl.repo.UpdateProfile(c.Request.Context(), sess.UserID, fields)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found", nil)
			return
		}
		logger.GetDefault().WithError(err).Error("failed to update profile")
		response.Error(c, http.StatusInternalServerError, "Failed to update user profile", nil)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", user.ToResponse())
}

func SetupUserRoutes(router *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	users := router.Group("/users")
	users.Use(auth)
	users.GET("/me", controller.GetMe)
	users.PUT("/me", middleware.RejectDemo(), controller.UpdateMe)
}
