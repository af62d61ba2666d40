package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
	"dhukuti/internal/users"
	"dhukuti/pkg/logger"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// bind decodes and validates the body, writing the 400 itself when it fails.
func (ctrl *Controller) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	if err := ctrl.validator.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return false
	}
	return true
}

// Register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /auth/register [post]
func (ctrl *Controller) Register(c *gin.Context) {
	var req RegisterRequest
	if !ctrl.bind(c, &req) {
		return
	}

	resp, err := ctrl.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "User with this email already exists", nil)
			return
		}
		logger.GetDefault().WithError(err).Error("failed to register user")
		response.Error(c, http.StatusInternalServerError, "Failed to register user", nil)
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", resp)
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /auth/login [post]
func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if !ctrl.bind(c, &req) {
		return
	}

	resp, err := ctrl.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), "invalid credentials", c.ClientIP())
			response.Error(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		logger.GetDefault().WithError(err).Error("failed to login")
		response.Error(c, http.StatusInternalServerError, "Failed to login", nil)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", resp)
}

// RefreshToken godoc
// @Summary Exchange a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /auth/refresh [post]
func (ctrl *Controller) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !ctrl.bind(c, &req) {
		return
	}

	pair, err := ctrl.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, users.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		default:
			logger.GetDefault().WithError(err).Error("failed to refresh token")
			response.Error(c, http.StatusInternalServerError, "Failed to refresh token", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "Token refreshed successfully", pair)
}

// Logout is stateless; clients drop their tokens.
func (ctrl *Controller) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /auth/change-password [put]
func (ctrl *Controller) ChangePassword(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req ChangePasswordRequest
	if !ctrl.bind(c, &req) {
		return
	}

	err := ctrl.service.ChangePassword(c.Request.Context(), sess.UserID, &req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "Password changed successfully", nil)
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Current password is incorrect", nil)
	case errors.Is(err, users.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", nil)
	default:
		logger.GetDefault().WithError(err).Error("failed to change password")
		response.Error(c, http.StatusInternalServerError, "Failed to change password", nil)
	}
}
