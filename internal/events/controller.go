package events

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
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// CreateEvent godoc
// @Summary Create an event with its ticket types
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Router /events [post]
func (ctrl *controller) CreateEvent(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		msg := "Invalid request body"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msg = "Invalid event details"
		}
		response.Error(c, http.StatusBadRequest, msg, err.Error())
		return
	}

	event, err := ctrl.service.Create(c.Request.Context(), sess, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSchedule), errors.Is(err, ErrEventInPast), errors.Is(err, ErrCapacityExceeded):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to create event", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, "Event created successfully", event)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid event ID", err.Error())
		return
	}

	event, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.Error(c, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to retrieve event", nil)
		return
	}

	response.Success(c, http.StatusOK, "Event retrieved successfully", event)
}

func (ctrl *controller) GetAllEvents(c *gin.Context) {
	var q ListEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	events, err := ctrl.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to retrieve events", nil)
		return
	}

	response.Success(c, http.StatusOK, "Events retrieved successfully", events)
}
