package contributions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
)

type Controller interface {
	ListContributions(c *gin.Context)
	CreateContribution(c *gin.Context)
	PayContribution(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrContributionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotGroupMember), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrDuplicateCycle), errors.Is(err, ErrAlreadyPaid):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) ListContributions(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var q ListContributionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	list, err := ctrl.service.List(c.Request.Context(), sess, q)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			response.Error(c, status, "Failed to fetch contributions", nil)
			return
		}
		response.Error(c, status, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Contributions retrieved successfully", list)
}

func (ctrl *controller) CreateContribution(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	contribution, err := ctrl.service.Create(c.Request.Context(), sess, req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			response.Error(c, status, "Failed to record contribution", nil)
			return
		}
		response.Error(c, status, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusCreated, "Contribution recorded successfully", contribution)
}

func (ctrl *controller) PayContribution(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid contribution ID", err.Error())
		return
	}

	contribution, err := ctrl.service.Pay(c.Request.Context(), sess, id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			response.Error(c, status, "Failed to pay contribution", nil)
			return
		}
		response.Error(c, status, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Contribution paid successfully", contribution)
}
