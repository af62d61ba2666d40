package contributions

import (
	"time"

	"dhukuti/internal/shared/money"
)

type CreateContributionRequest struct {
	GroupID     string       `json:"groupId" binding:"required,uuid"`
	Amount      money.Amount `json:"amount" binding:"required,gt=0"`
	DueDate     time.Time    `json:"dueDate" binding:"required"`
	CycleNumber int          `json:"cycleNumber" binding:"required,min=1"`
	Notes       string       `json:"notes" binding:"max=500"`
}

type ListContributionsQuery struct {
	GroupID string `form:"groupId" binding:"omitempty,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE"`
}
