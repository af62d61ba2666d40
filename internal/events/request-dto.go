package events

import (
	"time"

	"dhukuti/internal/shared/money"
)

type TicketTypeInput struct {
	Name          string       `json:"name" binding:"required" validate:"required"`
	Description   string       `json:"description"`
	Price         money.Amount `json:"price" binding:"gte=0" validate:"gte=0"`
	Quantity      int          `json:"quantity" binding:"required,min=1" validate:"gte=1"`
	Benefits      []string     `json:"benefits"`
	SaleStartDate *time.Time   `json:"saleStartDate,omitempty"`
	SaleEndDate   *time.Time   `json:"saleEndDate,omitempty"`
}

type CreateEventRequest struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Category    Category          `json:"category" binding:"required,oneof=concert workshop meeting celebration sports cultural community educational"`
	Description string            `json:"description" binding:"required"`
	ImageURL    string            `json:"imageUrl" binding:"omitempty,url"`
	Tags        []string          `json:"tags" binding:"max=10,dive,max=50"`
	Date        string            `json:"date" binding:"required,datetime=2006-01-02"`
	Time        string            `json:"time" binding:"required,datetime=15:04"`
	Location    string            `json:"location" binding:"required"`
	Venue       string            `json:"venue"`
	Capacity    int               `json:"capacity" binding:"required,min=1"`
	Currency    string            `json:"currency" binding:"omitempty,oneof=AUD USD EUR GBP"`
	TicketTypes []TicketTypeInput `json:"ticketTypes" binding:"required,min=1,dive"`
	Marketing   Marketing         `json:"marketing"`
	Settings    Settings          `json:"settings"`
}

type ListEventsQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Category string `form:"category"`
}
