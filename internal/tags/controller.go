package tags

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
)

type Controller interface {
	CreateTag(c *gin.Context)
	UpdateTag(c *gin.Context)
	GetTagBySlug(c *gin.Context)
	GetActiveTags(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateTag(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Admin not authenticated", nil)
		return
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tag, err := ctrl.service.CreateTag(c.Request.Context(), sess, req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrTagExists):
			status = http.StatusConflict
		case errors.Is(err, ErrInvalidName):
			status = http.StatusBadRequest
		}
		response.Error(c, status, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusCreated, "Tag created successfully", tag)
}

func (ctrl *controller) UpdateTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid tag ID", err.Error())
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tag, err := ctrl.service.UpdateTag(c.Request.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrTagNotFound) {
			status = http.StatusNotFound
		}
		response.Error(c, status, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Tag updated successfully", tag)
}

func (ctrl *controller) GetTagBySlug(c *gin.Context) {
	tag, err := ctrl.service.GetTagBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(c, http.StatusNotFound, "Tag not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to retrieve tag", nil)
		return
	}

	response.Success(c, http.StatusOK, "Tag retrieved successfully", tag)
}

func (ctrl *controller) GetActiveTags(c *gin.Context) {
	tags, err := ctrl.service.GetActiveTags(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to retrieve tags", nil)
		return
	}

	response.Success(c, http.StatusOK, "Active tags retrieved successfully", tags)
}
