package tickets

import (
	"time"

	"github.com/google/uuid"

	"dhukuti/internal/shared/money"
)

type TicketTypeResponse struct {
	ID            uuid.UUID    `json:"id"`
	EventID       uuid.UUID    `json:"eventId"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         money.Amount `json:"price"`
	Currency      string       `json:"currency"`
	Quantity      int          `json:"quantity"`
	Sold          int          `json:"sold"`
	Available     int          `json:"available"`
	Status        Status       `json:"status"`
	Benefits      []string     `json:"benefits"`
	IsActive      bool         `json:"isActive"`
	SaleStartDate time.Time    `json:"saleStartDate"`
	SaleEndDate   time.Time    `json:"saleEndDate"`
}

type QuoteResponse struct {
	TicketTypeID      uuid.UUID    `json:"ticketTypeId"`
	RequestedQuantity int          `json:"requestedQuantity"`
	Quantity          int          `json:"quantity"`
	UnitPrice         money.Amount `json:"unitPrice"`
	TotalPrice        money.Amount `json:"totalPrice"`
	Currency          string       `json:"currency"`
	Display           string       `json:"display"`
	Status            Status       `json:"status"`
	Available         int          `json:"available"`
	Purchasable       bool         `json:"purchasable"`
}

type PurchaseResponse struct {
	ID           uuid.UUID      `json:"id"`
	EventID      uuid.UUID      `json:"eventId"`
	TicketTypeID uuid.UUID      `json:"ticketTypeId"`
	Quantity     int            `json:"quantity"`
	UnitPrice    money.Amount   `json:"unitPrice"`
	TotalPrice   money.Amount   `json:"totalPrice"`
	Currency     string         `json:"currency"`
	Status       PurchaseStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func toPurchaseResponse(p *Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:           p.ID,
		EventID:      p.EventID,
		TicketTypeID: p.TicketTypeID,
		Quantity:     p.Quantity,
		UnitPrice:    p.UnitPrice,
		TotalPrice:   p.TotalPrice,
		Currency:     p.Currency,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
	}
}
