package tickets

type PurchaseRequest struct {
	TicketTypeID string `json:"ticketTypeId" binding:"required,uuid"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

// QuoteRequest prices a selection without buying it. Quantity is clamped, not rejected.
type QuoteRequest struct {
	TicketTypeID string `json:"ticketTypeId" form:"ticketTypeId" binding:"required,uuid"`
	Quantity     int    `json:"quantity" form:"quantity"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
