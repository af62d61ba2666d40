package groups

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
)

type Controller interface {
	CreateGroup(c *gin.Context)
	ListGroups(c *gin.Context)
	GetGroup(c *gin.Context)
	JoinGroup(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// bindMessage reports a missing required field the way clients expect.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return "Missing required fields"
			}
		}
		return "Invalid group details"
	}
	return "Invalid request body"
}

// CreateGroup godoc
// @Summary Create a savings group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Router /groups [post]
func (ctrl *controller) CreateGroup(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, bindMessage(err), err.Error())
		return
	}

	group, err := ctrl.service.Create(c.Request.Context(), sess, req)
	if err != nil {
		if errors.Is(err, ErrInvalidGroup) {
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create group", nil)
		return
	}

	response.Success(c, http.StatusCreated, "Group created successfully", group)
}

func (ctrl *controller) ListGroups(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var q ListGroupsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	groups, err := ctrl.service.List(c.Request.Context(), sess, q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch groups", nil)
		return
	}

	response.Success(c, http.StatusOK, "Groups retrieved successfully", groups)
}

func (ctrl *controller) GetGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid group ID", err.Error())
		return
	}

	group, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.Error(c, http.StatusNotFound, "Group not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch group", nil)
		return
	}

	response.Success(c, http.StatusOK, "Group retrieved successfully", group)
}

func (ctrl *controller) JoinGroup(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid group ID", err.Error())
		return
	}

	member, err := ctrl.service.Join(c.Request.Context(), sess, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.Error(c, http.StatusNotFound, "Group not found", nil)
		case errors.Is(err, ErrGroupFull), errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrGroupInactive):
			response.Error(c, http.StatusConflict, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to join group", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, "Joined group successfully", member)
}
