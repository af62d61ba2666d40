package contributions

import (
	"time"

	"github.com/google/uuid"

	"dhukuti/internal/shared/money"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Contribution is one member's payment into the pot for one cycle.
type Contribution struct {
	ID          uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	GroupID     uuid.UUID    `json:"groupId" gorm:"type:uuid;not null;index;uniqueIndex:idx_contribution_cycle"`
	UserID      uuid.UUID    `json:"userId" gorm:"type:uuid;not null;index;uniqueIndex:idx_contribution_cycle"`
	CycleNumber int          `json:"cycleNumber" gorm:"not null;uniqueIndex:idx_contribution_cycle"`
	Amount      money.Amount `json:"amount" gorm:"type:bigint;not null"`
	Currency    string       `json:"currency" gorm:"size:3;not null"`
	DueDate     time.Time    `json:"dueDate" gorm:"not null;index"`
	PaidAt      *time.Time   `json:"paidAt,omitempty"`
	Status      Status       `json:"status" gorm:"size:20;not null;index"`
	Notes       string       `json:"notes,omitempty" gorm:"size:500"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (Contribution) TableName() string {
	return "contributions"
}

// Filter narrows a contribution listing. Nil fields match everything.
type Filter struct {
	GroupID *uuid.UUID
	UserID  *uuid.UUID
	Status  Status
}
