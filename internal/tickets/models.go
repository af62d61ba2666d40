package tickets

import (
	"time"

	"github.com/google/uuid"

	"dhukuti/internal/shared/money"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusSellingFast Status = "selling_fast"
	StatusSoldOut     Status = "sold_out"
	StatusNotOnSale   Status = "not_on_sale"
)

// TicketType is one priced admission tier of an event.
type TicketType struct {
	ID            uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	EventID       uuid.UUID    `json:"eventId" gorm:"type:uuid;not null;index"`
	Name          string       `json:"name" gorm:"not null"`
	Description   string       `json:"description"`
	Price         money.Amount `json:"price" gorm:"type:bigint;not null"`
	Currency      string       `json:"currency" gorm:"size:3;not null"`
	Quantity      int          `json:"quantity" gorm:"not null"`
	Sold          int          `json:"sold" gorm:"not null"`
	Benefits      []string     `json:"benefits" gorm:"serializer:json"`
	IsActive      bool         `json:"isActive" gorm:"not null"`
	SaleStartDate time.Time    `json:"saleStartDate"`
	SaleEndDate   time.Time    `json:"saleEndDate"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (TicketType) TableName() string {
	return "ticket_types"
}

type PurchaseStatus string

const (
	PurchaseConfirmed PurchaseStatus = "CONFIRMED"
)

// Purchase records a confirmed sale of one ticket type.
type Purchase struct {
	ID           uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	EventID      uuid.UUID      `json:"eventId" gorm:"type:uuid;not null;index"`
	TicketTypeID uuid.UUID      `json:"ticketTypeId" gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Quantity     int            `json:"quantity" gorm:"not null"`
	UnitPrice    money.Amount   `json:"unitPrice" gorm:"type:bigint;not null"`
	TotalPrice   money.Amount   `json:"totalPrice" gorm:"type:bigint;not null"`
	Currency     string         `json:"currency" gorm:"size:3;not null"`
	Status       PurchaseStatus `json:"status" gorm:"not null"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (Purchase) TableName() string {
	return "ticket_purchases"
}
