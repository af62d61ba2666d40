package groups

import (
	"time"

	"dhukuti/internal/shared/money"
)

type CreateGroupRequest struct {
	Name               string       `json:"name" binding:"required"`
	Description        string       `json:"description"`
	MaxMembers         int          `json:"maxMembers" binding:"required,min=2"`
	ContributionAmount money.Amount `json:"contributionAmount" binding:"required,gt=0"`
	CycleDuration      int          `json:"cycleDuration" binding:"required,min=1"`
	StartDate          *time.Time   `json:"startDate"`
	Metadata           Metadata     `json:"metadata"`
}

type ListGroupsQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
