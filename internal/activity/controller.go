package activity

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
)

type Controller interface {
	GetFeed(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetFeed(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	q := ListQuery{Limit: req.Limit}
	if req.GroupID != "" {
		id := uuid.MustParse(req.GroupID)
		q.GroupID = &id
	}
	if req.EventID != "" {
		id := uuid.MustParse(req.EventID)
		q.EventID = &id
	}

	activities, err := ctrl.service.Feed(c.Request.Context(), sess, q)
	if err != nil {
		if errors.Is(err, ErrNotGroupMember) {
			response.Error(c, http.StatusForbidden, err.Error(), nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load activities", nil)
		return
	}

	response.Success(c, http.StatusOK, "Activities retrieved successfully", activities)
}
