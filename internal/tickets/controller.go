package tickets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/utils/response"
)

type Controller interface {
	ListTicketTypes(c *gin.Context)
	Quote(c *gin.Context)
	Purchase(c *gin.Context)
	ListMyPurchases(c *gin.Context)
	SetActive(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// statusFor maps purchase errors onto HTTP codes. Stock and sale-window conflicts are 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrTicketTypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrNotOnSale):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrPerPersonLimit):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func eventID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid event ID", err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) ListTicketTypes(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	types, err := ctrl.service.ListForEvent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Ticket types retrieved successfully", types)
}

func (ctrl *controller) Quote(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	quote, err := ctrl.service.Quote(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Quote calculated successfully", quote)
}

func (ctrl *controller) Purchase(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	purchase, err := ctrl.service.Purchase(c.Request.Context(), sess, id, req)
	if err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}

	response.Success(c, http.StatusCreated, "Tickets purchased successfully", purchase)
}

func (ctrl *controller) ListMyPurchases(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	purchases, err := ctrl.service.ListMyPurchases(c.Request.Context(), sess.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to retrieve purchases", nil)
		return
	}

	response.Success(c, http.StatusOK, "Purchases retrieved successfully", purchases)
}

func (ctrl *controller) SetActive(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	ticketTypeID, err := uuid.Parse(c.Param("ticketTypeId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ticket type ID", err.Error())
		return
	}

	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := ctrl.service.SetActive(c.Request.Context(), sess, id, ticketTypeID, *req.IsActive); err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Ticket type updated successfully", gin.H{"isActive": *req.IsActive})
}
